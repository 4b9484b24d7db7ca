package services

import "context"

type contextKey string

const (
	methodKey     contextKey = "method"
	playlistIDKey contextKey = "playlist_id"
	requestIDKey  contextKey = "request_id"
)

// WithMethod annotates context with the bridge method being served.
func WithMethod(ctx context.Context, method string) context.Context {
	if method == "" {
		return ctx
	}
	return context.WithValue(ctx, methodKey, method)
}

// MethodFromContext returns the bridge method name if present.
func MethodFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(methodKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPlaylistID annotates context with the playlist being fetched.
func WithPlaylistID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, playlistIDKey, id)
}

// PlaylistIDFromContext returns the playlist identifier if present.
func PlaylistIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(playlistIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
