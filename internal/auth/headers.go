package auth

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrMissingHeaders reports that the pasted request lacks headers required
// to authenticate against the catalog.
var ErrMissingHeaders = errors.New("required headers missing")

// RequiredHeaders must be present in a pasted request.
var RequiredHeaders = []string{"cookie", "x-goog-authuser"}

var ignoredHeaders = map[string]struct{}{
	"host":            {},
	"content-length":  {},
	"accept-encoding": {},
	"connection":      {},
}

var lower = cases.Lower(language.Und)

// ParseRaw converts a block of request headers copied from a browser's
// network panel into a normalized header map. Both "name: value" lines and
// the two-line "name:" / "value" layout some browsers produce are accepted.
// Names are lower-cased; transport and sec-* headers are dropped.
func ParseRaw(raw string) (map[string]string, error) {
	headers := make(map[string]string)
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var pending string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if pending != "" {
			store(headers, pending, line)
			pending = ""
			continue
		}
		// HTTP/2 pseudo headers such as ":authority" carry no credentials.
		if strings.HasPrefix(line, ":") {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			// request line, e.g. "POST /youtubei/v1/browse HTTP/1.1"
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if strings.ContainsAny(name, " \t") {
			continue
		}
		if value == "" {
			pending = name
			continue
		}
		store(headers, name, value)
	}

	var missing []string
	for _, name := range RequiredHeaders {
		if _, ok := headers[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", "))
	}
	return headers, nil
}

func store(headers map[string]string, name, value string) {
	key := lower.String(strings.TrimSpace(name))
	if key == "" || strings.HasPrefix(key, "sec-") {
		return
	}
	if _, skip := ignoredHeaders[key]; skip {
		return
	}
	headers[key] = value
}

// Apply copies the stored credentials onto an outgoing request.
func Apply(req *http.Request, headers map[string]string) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		req.Header.Set(name, headers[name])
	}
}
