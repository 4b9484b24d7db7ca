package bridge

import (
	"fmt"
	"sort"
)

// Method is the name of a host procedure.
type Method string

const (
	MethodGetPlaylists            Method = "get_playlists"
	MethodGetPlaylistItems        Method = "get_playlist_items"
	MethodGenerateAuthHeader      Method = "generate_auth_header"
	MethodInvalidatePlaylistCache Method = "invalidate_playlist_cache"
	MethodClearAllCache           Method = "clear_all_cache"
)

// ParamType is the wire type of a single positional argument.
type ParamType string

const (
	ParamString     ParamType = "string"
	ParamBool       ParamType = "bool"
	ParamStringList ParamType = "[]string"
)

// Param describes one positional argument. Optional params take Default
// when the caller omits them.
type Param struct {
	Name     string
	Type     ParamType
	Optional bool
	Default  any
}

// Spec is one registry entry.
type Spec struct {
	Name     Method
	Params   []Param
	Response string
}

var registry = map[Method]Spec{
	MethodGetPlaylists: {
		Name:     MethodGetPlaylists,
		Response: "[]playlist.Summary",
	},
	MethodGetPlaylistItems: {
		Name: MethodGetPlaylistItems,
		Params: []Param{
			{Name: "playlist_id", Type: ParamString},
			{Name: "force_refresh", Type: ParamBool, Optional: true, Default: false},
		},
		Response: "playlist.Details",
	},
	MethodGenerateAuthHeader: {
		Name:     MethodGenerateAuthHeader,
		Params:   []Param{{Name: "headers", Type: ParamString}},
		Response: "none",
	},
	MethodInvalidatePlaylistCache: {
		Name:     MethodInvalidatePlaylistCache,
		Params:   []Param{{Name: "playlist_ids", Type: ParamStringList}},
		Response: "playlist.InvalidateReport",
	},
	MethodClearAllCache: {
		Name:     MethodClearAllCache,
		Response: "playlist.ClearReport",
	},
}

// Lookup returns the registry entry for a method name.
func Lookup(name Method) (Spec, bool) {
	spec, ok := registry[name]
	return spec, ok
}

// Methods lists every registered method in name order.
func Methods() []Method {
	out := make([]Method, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Bind checks args against the parameter tuple and fills defaults for
// omitted optional parameters. The returned slice always has len(Params).
func (s Spec) Bind(args []any) ([]any, error) {
	if len(args) > len(s.Params) {
		return nil, fmt.Errorf("%s: expected at most %d arguments, got %d", s.Name, len(s.Params), len(args))
	}
	bound := make([]any, len(s.Params))
	for i, param := range s.Params {
		if i >= len(args) {
			if !param.Optional {
				return nil, fmt.Errorf("%s: missing required argument %q", s.Name, param.Name)
			}
			bound[i] = param.Default
			continue
		}
		value, err := coerceParam(param, args[i])
		if err != nil {
			return nil, fmt.Errorf("%s: argument %q: %w", s.Name, param.Name, err)
		}
		bound[i] = value
	}
	return bound, nil
}

func coerceParam(param Param, value any) (any, error) {
	if value == nil && param.Optional {
		return param.Default, nil
	}
	switch param.Type {
	case ParamString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case ParamBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case ParamStringList:
		switch v := value.(type) {
		case []string:
			return v, nil
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("expected %s, got element of type %T", param.Type, item)
				}
				out = append(out, s)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", param.Type, value)
}
