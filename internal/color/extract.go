package color

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	_ "golang.org/x/image/webp"

	"playbridge/internal/logging"
)

const (
	maxImageBytes = 8 << 20
	defaultStep   = 6
)

// ErrNoColor indicates the image held no usable pixels.
var ErrNoColor = errors.New("no dominant color")

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Extractor downloads thumbnails and picks their most vibrant palette color.
type Extractor struct {
	client      HTTPDoer
	paletteSize int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewExtractor builds an extractor. A nil client uses http.DefaultClient.
func NewExtractor(client HTTPDoer, paletteSize int, timeout time.Duration, logger *slog.Logger) *Extractor {
	if client == nil {
		client = http.DefaultClient
	}
	if paletteSize < 2 {
		paletteSize = 8
	}
	return &Extractor{
		client:      client,
		paletteSize: paletteSize,
		timeout:     timeout,
		logger:      logging.NewComponentLogger(logger, "color"),
	}
}

// DominantHex fetches imageURL and returns its dominant vibrant color as
// "#rrggbb".
func (e *Extractor) DominantHex(ctx context.Context, imageURL string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build thumbnail request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch thumbnail: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("fetch thumbnail returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("read thumbnail: %w", err)
	}
	hex, err := DominantHexFromBytes(data, e.paletteSize)
	if err != nil {
		return "", err
	}
	e.logger.Debug("dominant color extracted", logging.String("url", imageURL), logging.String("color", hex))
	return hex, nil
}

// DominantHexFromBytes decodes an encoded image (PNG, JPEG, GIF or WebP) and
// returns its dominant vibrant color.
func DominantHexFromBytes(data []byte, paletteSize int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode thumbnail: %w", err)
	}
	best, ok := mostVibrant(quantize(img, paletteSize, defaultStep))
	if !ok {
		return "", ErrNoColor
	}
	return Hex(best.r, best.g, best.b), nil
}

// Hex formats an RGB triple as "#rrggbb".
func Hex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
