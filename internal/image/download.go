package imagepkg

import (
	"context"
	"image"
	"net/http"
	"time"

	"github.com/youruser/topster/internal/util"
)

// DefaultAttemptTimeout bounds a single candidate fetch so a hung CDN
// connection cannot hold up the rest of the render.
const DefaultAttemptTimeout = 5 * time.Second

// Downloader resolves a video id to a decoded thumbnail.
type Downloader struct {
	client         *http.Client
	chain          Chain
	attemptTimeout time.Duration
}

// NewDownloader returns a Downloader. A nil client uses http.DefaultClient,
// an empty chain uses DefaultChain and a non-positive timeout uses
// DefaultAttemptTimeout.
func NewDownloader(client *http.Client, chain Chain, attemptTimeout time.Duration) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	if len(chain) == 0 {
		chain = DefaultChain
	}
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &Downloader{client: client, chain: chain, attemptTimeout: attemptTimeout}
}

// Chain returns the templates the downloader walks.
func (d *Downloader) Chain() Chain { return d.chain }

// Thumbnail walks the chain for videoID. A candidate counts as successful
// only if its body decodes, so a broken rendition falls through to the next.
func (d *Downloader) Thumbnail(ctx context.Context, videoID string) (image.Image, string, error) {
	return FirstSuccess(ctx, d.chain.URLs(videoID), d.attempt)
}

func (d *Downloader) attempt(ctx context.Context, url string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
	defer cancel()

	body, err := util.GetBytes(ctx, d.client, url)
	if err != nil {
		return nil, err
	}
	return DecodeImage(body)
}
