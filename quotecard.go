// Package quotecard renders quote cards: a blurred background photograph
// framed by a diagonal color gradient, with a block of rich text (bold
// spans, emoji, multiple lines) centered over it with a drop shadow.
//
// Content is written in a small markup dialect:
//
//	<line>Hello <bold>World</bold></line>
//	<line>A<br>B 😀</line>
//
// or, with Options.Markdown, as Markdown paragraphs.
package quotecard

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"
)

// Request is the user input of one render.
type Request struct {
	ImageURL   string
	ContentXML string
	StartColor RGB
	EndColor   RGB
}

// Options tune a render. A zero Width, Height, FontSize or HTTPTimeout
// takes its default, as does a negative ShadowOffset; zero border, blur
// and shadow offset values are used as given. Colors are used as given,
// so start from DefaultOptions.
type Options struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Border       int     `yaml:"border"`
	FontSize     float64 `yaml:"font_size"`
	ShadowOffset float64 `yaml:"shadow_offset"`
	ShadowBlur   float64 `yaml:"shadow_blur"`
	ImageBlur    float64 `yaml:"image_blur"`
	TextColor    RGB     `yaml:"text_color"`
	ShadowColor  RGB     `yaml:"shadow_color"`

	FontRegular string `yaml:"font_regular,omitempty"`
	FontBold    string `yaml:"font_bold,omitempty"`
	FontEmoji   string `yaml:"font_emoji,omitempty"`

	// Markdown reads Request.ContentXML as Markdown instead of markup.
	Markdown    bool          `yaml:"markdown"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

const (
	DefaultWidth        = 1080
	DefaultHeight       = 1350
	DefaultBorder       = 96
	DefaultFontSize     = 150
	DefaultShadowOffset = 12
	DefaultShadowBlur   = 5
	DefaultImageBlur    = 5
)

// DefaultOptions returns the standard 1080×1350 card.
func DefaultOptions() Options {
	return Options{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Border:       DefaultBorder,
		FontSize:     DefaultFontSize,
		ShadowOffset: DefaultShadowOffset,
		ShadowBlur:   DefaultShadowBlur,
		ImageBlur:    DefaultImageBlur,
		TextColor:    RGB{R: 0xff, G: 0xff, B: 0xff},
		ShadowColor:  RGB{},
		HTTPTimeout:  DefaultHTTPTimeout,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Border < 0 {
		o.Border = 0
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.ShadowOffset < 0 {
		o.ShadowOffset = d.ShadowOffset
	}
	if o.ShadowBlur < 0 {
		o.ShadowBlur = 0
	}
	if o.ImageBlur < 0 {
		o.ImageBlur = 0
	}
	if o.HTTPTimeout <= 0 {
		o.HTTPTimeout = d.HTTPTimeout
	}
	return o
}

// Option configures Render and Compose.
type Option func(*settings)

type settings struct {
	opts   Options
	loader *Loader
}

// WithOptions replaces the render options.
func WithOptions(o Options) Option {
	return func(s *settings) {
		s.opts = o
	}
}

// WithLoader sets the resource loader. By default a Loader with an HTTP
// client bounded by Options.HTTPTimeout is used.
func WithLoader(l *Loader) Option {
	return func(s *settings) {
		s.loader = l
	}
}

func newSettings(opts []Option) settings {
	s := settings{opts: DefaultOptions()}
	for _, o := range opts {
		o(&s)
	}
	s.opts = s.opts.withDefaults()
	if s.loader == nil {
		s.loader = &Loader{Client: &http.Client{Timeout: s.opts.HTTPTimeout}}
	}
	return s
}

// ParseContent parses the request content into lines, as markup or as
// Markdown.
func ParseContent(content string, markdown bool) ([]Line, error) {
	if markdown {
		return ParseMarkdownLines([]byte(content)), nil
	}
	return ParseLines(content)
}

// Compose renders the card and returns the finished frame. Failures are
// returned as *RenderError wrapping the underlying cause.
func Compose(ctx context.Context, req Request, opts ...Option) (*image.RGBA, error) {
	s := newSettings(opts)
	return compose(ctx, req, s)
}

func compose(ctx context.Context, req Request, s settings) (img *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = &RenderError{Op: "render", Kind: KindCompose, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	lines, err := ParseContent(req.ContentXML, s.opts.Markdown)
	if err != nil {
		return nil, &RenderError{Op: "markup", Kind: KindParse, Err: err}
	}
	res, err := s.loader.Load(ctx, Sources{
		Image:       req.ImageURL,
		FontRegular: s.opts.FontRegular,
		FontBold:    s.opts.FontBold,
		FontEmoji:   s.opts.FontEmoji,
	})
	if err != nil {
		return nil, &RenderError{Op: "loader", Kind: KindLoad, Err: err}
	}
	c := &card{
		frame:    Frame{Width: s.opts.Width, Height: s.opts.Height, Border: s.opts.Border},
		gradient: Gradient{Start: req.StartColor, End: req.EndColor},
		lines:    lines,
		res:      res,
		opts:     s.opts,
	}
	return c.draw()
}

// Render composes the card for host. The host's size, when set, overrides
// the configured width and height. The outcome is reported to the host:
// Show with the frame on success, otherwise Remove then ShowError.
func Render(ctx context.Context, host Host, req Request, opts ...Option) {
	s := newSettings(opts)
	if w, h := host.Size(); w > 0 && h > 0 {
		s.opts.Width, s.opts.Height = w, h
	}
	log := Logger().With("image", req.ImageURL, "width", s.opts.Width, "height", s.opts.Height)
	img, err := compose(ctx, req, s)
	if err == nil {
		if serr := host.Show(img); serr != nil {
			err = &RenderError{Op: "host.show", Kind: KindCompose, Err: serr}
		}
	}
	if err != nil {
		var re *RenderError
		kind := KindUnknown
		if errors.As(err, &re) {
			kind = re.Kind
		}
		log.Error("render failed", "kind", kind.String(), "error", err)
		host.Remove()
		host.ShowError(err.Error())
		return
	}
	log.Info("card rendered", "bounds", img.Bounds().String())
}
