package hostclient

import (
	"context"
	"errors"

	"playbridge/internal/api"
	"playbridge/internal/bridge"
)

// RPCSurface is a bridge.Surface whose callables are JSON-RPC calls to the
// daemon. Only the methods the daemon advertised are exposed.
type RPCSurface struct {
	client  *Client
	methods map[bridge.Method]struct{}
}

// Surface builds a remote surface exposing methods.
func (c *Client) Surface(methods []string) *RPCSurface {
	set := make(map[bridge.Method]struct{}, len(methods))
	for _, m := range methods {
		set[bridge.Method(m)] = struct{}{}
	}
	return &RPCSurface{client: c, methods: set}
}

// Lookup implements bridge.Surface. Results are returned as raw JSON for the
// dispatcher to narrow.
func (s *RPCSurface) Lookup(method bridge.Method) (bridge.Func, bool) {
	if _, ok := s.methods[method]; !ok {
		return nil, false
	}
	return func(ctx context.Context, args []any) (any, error) {
		raw, err := s.client.Call(ctx, string(method), args)
		if err != nil {
			return nil, kindFromRPC(err)
		}
		return raw, nil
	}, true
}

// kindFromRPC restores the bridge error kind the daemon encoded as a
// JSON-RPC code. Other failures stay plain errors and surface as
// CALL_FAILED.
func kindFromRPC(err error) error {
	var rpcErr *api.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}
	switch rpcErr.Code {
	case api.CodeHostNotReady:
		return &bridge.ErrorInfo{Kind: bridge.KindNoHost, Message: rpcErr.Message}
	case api.CodeMethodNotFound:
		return &bridge.ErrorInfo{Kind: bridge.KindMethodNotFound, Message: rpcErr.Message}
	default:
		return err
	}
}
