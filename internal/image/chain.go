package imagepkg

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoThumbnail is returned when every candidate in a chain failed.
var ErrNoThumbnail = errors.New("no thumbnail candidate succeeded")

// IDPlaceholder marks where the video id goes in a chain template.
const IDPlaceholder = "{id}"

// Chain is an ordered list of URL templates, best quality first.
type Chain []string

// DefaultChain walks the thumbnail CDN from the largest rendition down.
var DefaultChain = Chain{
	"https://i.ytimg.com/vi/{id}/maxresdefault.jpg",
	"https://i.ytimg.com/vi/{id}/sddefault.jpg",
	"https://i.ytimg.com/vi/{id}/hqdefault.jpg",
	"https://i.ytimg.com/vi/{id}/mqdefault.jpg",
	"https://i.ytimg.com/vi/{id}/default.jpg",
}

// URLs expands the chain for one video id.
func (c Chain) URLs(videoID string) []string {
	id := url.PathEscape(videoID)
	out := make([]string, len(c))
	for i, tmpl := range c {
		out[i] = strings.ReplaceAll(tmpl, IDPlaceholder, id)
	}
	return out
}

// FirstSuccess calls try for each url in order and returns the first result
// that succeeds along with the url that produced it. When all fail, the
// error wraps ErrNoThumbnail and every attempt's error.
func FirstSuccess[T any](ctx context.Context, urls []string, try func(context.Context, string) (T, error)) (T, string, error) {
	var zero T
	errs := []error{ErrNoThumbnail}
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		v, err := try(ctx, u)
		if err == nil {
			return v, u, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", u, err))
	}
	return zero, "", errors.Join(errs...)
}
