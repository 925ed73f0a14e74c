// Package topster renders a poster: plan the layout, resolve the occupied
// cells, fetch and process their thumbnails concurrently, then composite.
package topster

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	imagepkg "github.com/youruser/topster/internal/image"
	"github.com/youruser/topster/internal/links"
	"github.com/youruser/topster/internal/logging"
)

// Result is a finished poster.
type Result struct {
	PNG    []byte
	Width  int // canvas width
	Height int // canvas height including the footer band
	Placed int // tiles painted
	Failed int // occupied cells left as background
}

// Renderer holds the process-wide collaborators of a render. It keeps no
// per-request state and is safe for concurrent use.
type Renderer struct {
	downloader     *imagepkg.Downloader
	footer         *imagepkg.Footer
	maxConcurrency int
}

// NewRenderer returns a Renderer. maxConcurrency <= 0 runs every cell at once.
func NewRenderer(d *imagepkg.Downloader, footer *imagepkg.Footer, maxConcurrency int) *Renderer {
	if d == nil {
		d = imagepkg.NewDownloader(nil, nil, 0)
	}
	if footer == nil {
		footer = imagepkg.DefaultFooter()
	}
	return &Renderer{downloader: d, footer: footer, maxConcurrency: maxConcurrency}
}

// Render produces the PNG for p. A cell whose thumbnail cannot be resolved
// stays background and does not fail the render; any error returned here
// means no image at all.
func (r *Renderer) Render(ctx context.Context, p Params) (res *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res, err = nil, fmt.Errorf("render panicked: %v", rec)
		}
	}()

	l := p.Theme.Plan(p.CellBase, p.Gap)
	slots := links.Resolve(l.Cells, p.Links)

	tiles := r.fetchTiles(ctx, slots)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render aborted: %w", err)
	}

	w, h := l.Bounds()
	canvas, err := imagepkg.Compose(w, h, p.Background, tiles, r.footer)
	if err != nil {
		return nil, fmt.Errorf("compositing %s layout: %w", p.Theme.Name(), err)
	}
	out, err := imagepkg.EncodePNG(canvas)
	if err != nil {
		return nil, err
	}
	return &Result{
		PNG:    out,
		Width:  w,
		Height: canvas.Bounds().Dy(),
		Placed: len(tiles),
		Failed: len(slots) - len(tiles),
	}, nil
}

// fetchTiles fans out one task per slot and joins them. Each task writes
// only its own index of results.
func (r *Renderer) fetchTiles(ctx context.Context, slots []links.Slot) []imagepkg.Tile {
	logger := logging.FromContext(ctx)
	results := make([]*imagepkg.Tile, len(slots))

	var g errgroup.Group
	if r.maxConcurrency > 0 {
		g.SetLimit(r.maxConcurrency)
	}
	for i, s := range slots {
		i, s := i, s
		g.Go(func() error {
			tile, err := r.tile(ctx, s)
			if err != nil {
				logger.Warn("tile skipped", "cell", s.Cell.Index+1, "video_id", s.Link.VideoID, "err", err)
				return nil
			}
			results[i] = tile
			return nil
		})
	}
	_ = g.Wait()

	tiles := make([]imagepkg.Tile, 0, len(slots))
	for _, t := range results {
		if t != nil {
			tiles = append(tiles, *t)
		}
	}
	return tiles
}

func (r *Renderer) tile(ctx context.Context, s links.Slot) (tile *imagepkg.Tile, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			tile, err = nil, fmt.Errorf("processing panicked: %v", rec)
		}
	}()

	img, src, err := r.downloader.Thumbnail(ctx, s.Link.VideoID)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("thumbnail resolved", "cell", s.Cell.Index+1, "url", src)
	return &imagepkg.Tile{
		Image: imagepkg.FitTile(img, s.Cell.PixelSize()),
		At:    s.Cell.Rect().Min,
	}, nil
}
