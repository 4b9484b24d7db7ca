package musicapi

import (
	"context"
	"fmt"

	"playbridge/internal/bridge"
)

// Surface exposes the service as a bridge call surface. Args arrive already
// bound against the method registry.
func (s *Service) Surface() bridge.MapSurface {
	return bridge.MapSurface{
		bridge.MethodGetPlaylists: func(ctx context.Context, _ []any) (any, error) {
			return s.GetPlaylists(ctx)
		},
		bridge.MethodGetPlaylistItems: func(ctx context.Context, args []any) (any, error) {
			id, err := argAt[string](args, 0)
			if err != nil {
				return nil, err
			}
			force, err := argAt[bool](args, 1)
			if err != nil {
				return nil, err
			}
			return s.GetPlaylistItems(ctx, id, force)
		},
		bridge.MethodGenerateAuthHeader: func(ctx context.Context, args []any) (any, error) {
			raw, err := argAt[string](args, 0)
			if err != nil {
				return nil, err
			}
			return nil, s.GenerateAuthHeader(ctx, raw)
		},
		bridge.MethodInvalidatePlaylistCache: func(ctx context.Context, args []any) (any, error) {
			ids, err := argAt[[]string](args, 0)
			if err != nil {
				return nil, err
			}
			return s.InvalidatePlaylistCache(ctx, ids)
		},
		bridge.MethodClearAllCache: func(ctx context.Context, _ []any) (any, error) {
			return s.ClearAllCache(ctx)
		},
	}
}

func argAt[T any](args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, fmt.Errorf("missing argument %d", i)
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("argument %d: expected %T, got %T", i, zero, args[i])
	}
	return v, nil
}
