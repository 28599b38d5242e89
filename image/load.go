// Package image loads images and reduces them to a ranked color histogram.
package image

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

// MaxDownloadSize caps how much of a remote image is read.
const MaxDownloadSize = 50 << 20

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Load loads an image from a file path or an http(s) URL.
func Load(ctx context.Context, locator string) (image.Image, error) {
	if locator == "" {
		return nil, fmt.Errorf("image locator cannot be empty")
	}
	if isURL(locator) {
		return fetch(ctx, locator)
	}
	return loadFile(locator)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func loadFile(path string) (image.Image, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, fmt.Errorf("open image: %w", e)
	}
	defer f.Close()

	return decode(f)
}

func fetch(ctx context.Context, url string) (image.Image, error) {
	req, e := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if e != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, e)
	}

	resp, e := httpClient.Do(req)
	if e != nil {
		return nil, fmt.Errorf("download %s: %w", url, e)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	return decode(io.LimitReader(resp.Body, MaxDownloadSize))
}

func decode(r io.Reader) (image.Image, error) {
	i, format, e := image.Decode(r)
	if e != nil {
		return nil, fmt.Errorf("decode image (format: %q): %w", format, e)
	}
	return i, nil
}
