package quotecard

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
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/h2non/filetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// Resource names used in ResourceLoadError.
const (
	ResourceImage       = "image"
	ResourceFontRegular = "font-regular"
	ResourceFontBold    = "font-bold"
	ResourceFontEmoji   = "font-emoji"
)

// DefaultHTTPTimeout bounds a single remote fetch.
const DefaultHTTPTimeout = 15 * time.Second

// Sources names where the resources of a render come from. Each is an
// http(s) URL, a file:// URL or a plain path. Empty font sources select
// the bundled Go fonts, or no emoji font.
type Sources struct {
	Image       string
	FontRegular string
	FontBold    string
	FontEmoji   string
}

// Resources is everything a render needs besides the request text.
type Resources struct {
	Image image.Image
	Fonts *Fonts
}

// Loader fetches and decodes render resources.
type Loader struct {
	// Client is used for http and https sources. Nil uses a client with
	// DefaultHTTPTimeout.
	Client *http.Client
	// BaseDir resolves relative paths. Empty means the working directory.
	BaseDir string
}

type fetcher func(ctx context.Context, source string) ([]byte, error)

// Load fetches all sources concurrently. Nothing is returned until every
// fetch has finished; the first failure cancels the others and is
// returned as a *ResourceLoadError.
func (l *Loader) Load(ctx context.Context, src Sources) (*Resources, error) {
	res := &Resources{Fonts: &Fonts{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := l.fetch(gctx, src.Image)
		if err != nil {
			return &ResourceLoadError{Resource: ResourceImage, Source: src.Image, Err: err}
		}
		img, err := decodeImage(b)
		if err != nil {
			return &ResourceLoadError{Resource: ResourceImage, Source: src.Image, Err: err}
		}
		Logger().Debug("image loaded", "source", src.Image, "bytes", len(b), "bounds", img.Bounds().String())
		res.Image = img
		return nil
	})
	g.Go(func() error {
		ft, err := l.loadFont(gctx, ResourceFontRegular, src.FontRegular, goregular.TTF)
		res.Fonts.Regular = ft
		return err
	})
	g.Go(func() error {
		ft, err := l.loadFont(gctx, ResourceFontBold, src.FontBold, gobold.TTF)
		res.Fonts.Bold = ft
		return err
	})
	if src.FontEmoji != "" {
		g.Go(func() error {
			b, err := l.fetch(gctx, src.FontEmoji)
			if err != nil {
				return &ResourceLoadError{Resource: ResourceFontEmoji, Source: src.FontEmoji, Err: err}
			}
			ef, err := ParseEmojiFont(b)
			if err != nil {
				return &ResourceLoadError{Resource: ResourceFontEmoji, Source: src.FontEmoji, Err: err}
			}
			Logger().Debug("font loaded", "resource", ResourceFontEmoji, "source", src.FontEmoji, "bytes", len(b))
			res.Fonts.Emoji = ef
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (l *Loader) loadFont(ctx context.Context, name, source string, fallback []byte) (*truetype.Font, error) {
	b := fallback
	if source != "" {
		var err error
		b, err = l.fetch(ctx, source)
		if err != nil {
			return nil, &ResourceLoadError{Resource: name, Source: source, Err: err}
		}
	}
	ft, err := ParseFont(b)
	if err != nil {
		return nil, &ResourceLoadError{Resource: name, Source: source, Err: err}
	}
	Logger().Debug("font loaded", "resource", name, "source", source, "bytes", len(b))
	return ft, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("quotecard: empty source")
	}
	scheme := ""
	if idx := strings.Index(source, "://"); idx != -1 {
		scheme = strings.ToLower(source[:idx])
	}
	var f fetcher
	switch scheme {
	case "", "file":
		f = l.fetchLocal
	case "http", "https":
		f = l.fetchRemote
	default:
		return nil, fmt.Errorf("quotecard: unsupported source scheme: %s", scheme)
	}
	return f(ctx, source)
}

func (l *Loader) fetchLocal(ctx context.Context, source string) ([]byte, error) {
	path := strings.TrimPrefix(source, "file://")
	if !filepath.IsAbs(path) && strings.TrimSpace(l.BaseDir) != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Clean(path))
}

func (l *Loader) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quotecard: fetching %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// decodeImage rejects payloads that are not a known image type before
// handing them to the registered decoders.
func decodeImage(b []byte) (image.Image, error) {
	if !filetype.IsImage(b) {
		return nil, errors.New("quotecard: payload is not an image")
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return img, nil
}
