package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(w, h, c)))
	return buf.Bytes()
}

func TestChain_URLs(t *testing.T) {
	c := Chain{"https://cdn/{id}/a.jpg", "https://cdn/{id}/b.jpg"}
	require.Equal(t, []string{"https://cdn/abc/a.jpg", "https://cdn/abc/b.jpg"}, c.URLs("abc"))
	require.Equal(t, "https://cdn/a%2Fb/a.jpg", c.URLs("a/b")[0])
	require.Len(t, DefaultChain.URLs("x"), 5)
	require.True(t, strings.HasSuffix(DefaultChain.URLs("x")[0], "/x/maxresdefault.jpg"))
}

func TestFirstSuccess_Order(t *testing.T) {
	var tried []string
	try := func(_ context.Context, u string) (string, error) {
		tried = append(tried, u)
		if u == "b" {
			return "got b", nil
		}
		return "", errors.New("nope")
	}

	v, u, err := FirstSuccess(context.Background(), []string{"a", "b", "c"}, try)
	require.NoError(t, err)
	require.Equal(t, "got b", v)
	require.Equal(t, "b", u)
	require.Equal(t, []string{"a", "b"}, tried)
}

func TestFirstSuccess_AllFail(t *testing.T) {
	try := func(_ context.Context, u string) (int, error) { return 0, errors.New("fail " + u) }

	_, u, err := FirstSuccess(context.Background(), []string{"a", "b"}, try)
	require.ErrorIs(t, err, ErrNoThumbnail)
	require.Empty(t, u)
	require.Contains(t, err.Error(), "fail a")
	require.Contains(t, err.Error(), "fail b")
}

func TestFirstSuccess_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	try := func(_ context.Context, _ string) (int, error) {
		calls++
		cancel()
		return 0, errors.New("fail")
	}

	_, _, err := FirstSuccess(ctx, []string{"a", "b", "c"}, try)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestDownloader_FallsBack(t *testing.T) {
	thumb := solidPNG(t, 16, 9, color.NRGBA{R: 255, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vi/abc/maxres.jpg":
			http.NotFound(w, r)
		case "/vi/abc/broken.jpg":
			_, _ = w.Write([]byte("not an image"))
		case "/vi/abc/hq.jpg":
			_, _ = w.Write(thumb)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	d := NewDownloader(srv.Client(), Chain{
		srv.URL + "/vi/{id}/maxres.jpg",
		srv.URL + "/vi/{id}/broken.jpg",
		srv.URL + "/vi/{id}/hq.jpg",
		srv.URL + "/vi/{id}/never.jpg",
	}, time.Second)

	img, u, err := d.Thumbnail(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/vi/abc/hq.jpg", u)
	require.Equal(t, image.Pt(16, 9), img.Bounds().Size())
}

func TestDownloader_AttemptTimeout(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.HasSuffix(r.URL.Path, "/slow.jpg") {
			select {
			case <-r.Context().Done():
			case <-release:
			}
			return
		}
		_, _ = w.Write(solidPNG(t, 4, 4, color.White))
	}))
	defer srv.Close()
	defer close(release)

	d := NewDownloader(srv.Client(), Chain{srv.URL + "/{id}/slow.jpg", srv.URL + "/{id}/fast.jpg"}, 50*time.Millisecond)

	start := time.Now()
	_, u, err := d.Thumbnail(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/x/fast.jpg", u)
	require.Less(t, time.Since(start), 2*time.Second)
	require.EqualValues(t, 2, hits.Load())
}

func TestDownloader_Defaults(t *testing.T) {
	d := NewDownloader(nil, nil, 0)
	require.Equal(t, DefaultChain, d.Chain())
	require.Equal(t, DefaultAttemptTimeout, d.attemptTimeout)
	require.Equal(t, http.DefaultClient, d.client)
}

func TestFitTile_CenterCrop(t *testing.T) {
	// 300x100: left third red, middle green, right third blue
	src := image.NewNRGBA(image.Rect(0, 0, 300, 100))
	for x := 0; x < 300; x++ {
		c := color.NRGBA{R: 255, A: 255}
		if x >= 100 && x < 200 {
			c = color.NRGBA{G: 255, A: 255}
		} else if x >= 200 {
			c = color.NRGBA{B: 255, A: 255}
		}
		for y := 0; y < 100; y++ {
			src.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	tile := FitTile(img, 50)
	require.Equal(t, image.Rect(0, 0, 50, 50), tile.Bounds())

	// the square crop is the green middle third
	for _, p := range []image.Point{{10, 10}, {25, 25}, {40, 40}} {
		c := tile.NRGBAAt(p.X, p.Y)
		require.Greater(t, c.G, uint8(180), "at %v: %v", p, c)
		require.Less(t, c.R, uint8(80), "at %v: %v", p, c)
		require.Less(t, c.B, uint8(80), "at %v: %v", p, c)
	}
}

func TestDecodeImage_Failure(t *testing.T) {
	_, err := DecodeImage([]byte("garbage"))
	require.Error(t, err)
}

func TestEnhance_Constants(t *testing.T) {
	require.Equal(t, 1.05, Contrast)
	require.Equal(t, 1.02, Brightness)

	mid := Enhance(imaging.New(8, 8, color.NRGBA{R: 200, G: 100, B: 0, A: 255}))
	c := mid.NRGBAAt(4, 4)
	// contrast pushes 200 up and 100 down, brightness lifts both slightly
	require.Greater(t, c.R, uint8(200))
	require.Equal(t, uint8(0), c.B)
	require.Equal(t, uint8(255), c.A)

	white := Enhance(imaging.New(8, 8, color.White)).NRGBAAt(4, 4)
	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, white)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		err  bool
	}{
		{"#121212", color.NRGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff}, false},
		{"ff0000", color.NRGBA{R: 0xff, A: 0xff}, false},
		{"#0f0", color.NRGBA{G: 0xff, A: 0xff}, false},
		{"#ABCDEF", color.NRGBA{R: 0xab, G: 0xcd, B: 0xef, A: 0xff}, false},
		{"#12345", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
		{"red", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	require.Equal(t, color.NRGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff}, BackgroundOrDefault("nope"))
}

func TestCompose(t *testing.T) {
	bg := color.NRGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff}
	red := imaging.New(10, 10, color.NRGBA{R: 255, A: 255})

	out, err := Compose(30, 10, bg, []Tile{{Image: red, At: image.Pt(20, 0)}, {}}, nil)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 30, 10+FooterHeight), out.Bounds())

	require.Equal(t, bg, out.NRGBAAt(5, 5))
	require.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(25, 5))
	require.Equal(t, uint8(255), out.NRGBAAt(0, 10+FooterHeight-1).A)

	encoded, err := EncodePNG(out)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 30, cfg.Width)
	require.Equal(t, 50, cfg.Height)
}

func TestCompose_InvalidSize(t *testing.T) {
	_, err := Compose(0, 10, color.NRGBA{}, nil, nil)
	require.Error(t, err)
}

func TestFooter_Caption(t *testing.T) {
	f, err := LoadFooter(filepath.Join(t.TempDir(), "missing.png"), "hello")
	require.NoError(t, err)
	require.False(t, f.HasAsset())

	band := f.Band(300)
	require.Equal(t, image.Rect(0, 0, 300, FooterHeight), band.Bounds())
	require.Equal(t, color.NRGBA{A: 255}, band.NRGBAAt(0, 0))

	lit := 0
	for y := 0; y < FooterHeight; y++ {
		for x := 0; x < 300; x++ {
			if band.NRGBAAt(x, y).R > 128 {
				lit++
			}
		}
	}
	require.Positive(t, lit, "caption should draw light pixels")
}

func TestFooter_Asset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "footer.png")
	require.NoError(t, os.WriteFile(path, solidPNG(t, 80, 20, color.NRGBA{G: 255, A: 255}), 0o644))

	f, err := LoadFooter(path, "")
	require.NoError(t, err)
	require.True(t, f.HasAsset())

	band := f.Band(400)
	require.Equal(t, image.Rect(0, 0, 400, FooterHeight), band.Bounds())
	// 80x20 scales to 160x40, centered: letterboxed black on both sides
	require.Equal(t, color.NRGBA{A: 255}, band.NRGBAAt(10, 20))
	require.Equal(t, color.NRGBA{A: 255}, band.NRGBAAt(390, 20))
	mid := band.NRGBAAt(200, 20)
	require.Greater(t, mid.G, uint8(250))
	require.Less(t, mid.R, uint8(5))
}

func TestFooter_BadAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "footer.png")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	f, err := LoadFooter(path, "fallback")
	require.Error(t, err)
	require.NotNil(t, f)
	require.False(t, f.HasAsset())
}

func TestGenerateQRPNG(t *testing.T) {
	b, err := GenerateQRPNG("https://example.com/?theme=classic&link1=abc", 10)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, MinQRSize, cfg.Width)
}
