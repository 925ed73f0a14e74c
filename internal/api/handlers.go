package api

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/topster/internal/image"
	"github.com/youruser/topster/internal/layout"
	"github.com/youruser/topster/internal/logging"
	"github.com/youruser/topster/internal/topster"
)

const (
	// The poster is a pure function of its query string, so edges may keep
	// it for a day and serve it stale for a week while revalidating.
	posterCacheControl = "public, s-maxage=86400, stale-while-revalidate=604800"
	renderFailedBody   = "Failed to generate image"
)

var qrSizes = layout.Range{Min: imagepkg.MinQRSize, Max: imagepkg.MaxQRSize, Default: imagepkg.DefaultQRSize}

// Handlers serves the poster endpoints.
type Handlers struct {
	renderer      *topster.Renderer
	playerBaseURL string
}

func NewHandlers(r *topster.Renderer, playerBaseURL string) *Handlers {
	return &Handlers{renderer: r, playerBaseURL: playerBaseURL}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// poster renders GET /api/topster.png. Per-cell failures are absorbed by the
// renderer; anything it returns is a 500 with no partial image.
func (h *Handlers) poster(c *gin.Context) {
	logger := loggerFor(c)
	params := topster.ParseParams(c.Request.URL.Query())

	res, err := h.renderer.Render(c.Request.Context(), params)
	if err != nil {
		logger.Error("render failed", "query", c.Request.URL.RawQuery, "err", err)
		c.String(http.StatusInternalServerError, renderFailedBody)
		return
	}

	logger.Debug("poster rendered",
		"theme", params.Theme.Name(),
		"width", res.Width,
		"height", res.Height,
		"placed", res.Placed,
		"failed", res.Failed,
	)
	c.Header("Cache-Control", posterCacheControl)
	c.Data(http.StatusOK, "image/png", res.PNG)
}

// playerQR returns a PNG QR code pointing at the interactive page for the
// same layout, sized by the "size" query param.
func (h *Handlers) playerQR(c *gin.Context) {
	q := c.Request.URL.Query()
	size := qrSizes.Parse(q.Get("size"))

	target := PlayerURL(h.playerBaseURL, topster.ParseParams(q))
	b, err := imagepkg.GenerateQRPNG(target, size)
	if err != nil {
		loggerFor(c).Error("qr failed", "url", target, "err", err)
		c.String(http.StatusInternalServerError, renderFailedBody)
		return
	}
	c.Header("Cache-Control", posterCacheControl)
	c.Data(http.StatusOK, "image/png", b)
}

// PlayerURL joins base with the canonical player query for p.
func PlayerURL(base string, p topster.Params) string {
	q := p.PlayerQuery().Encode()
	if q == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q
}

func loggerFor(c *gin.Context) *log.Logger {
	return logging.FromContext(c.Request.Context())
}
