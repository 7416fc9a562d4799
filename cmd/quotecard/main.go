package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/arran4/quotecard"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quotecard",
		Short:         "Render quote card images",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newRunsCmd())
	return root
}

type renderFlags struct {
	image     string
	content   string
	start     string
	end       string
	out       string
	config    string
	markdown  bool
	width     int
	height    int
	border    int
	fontSize  float64
	fontReg   string
	fontBold  string
	fontEmoji string
	logLevel  string
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a card to a PNG or JPEG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.image, "image", "", "Background image URL or path")
	fl.StringVar(&f.content, "content", "-", "Content markup file (- for stdin)")
	fl.StringVar(&f.start, "start", "#000000", "Gradient start color (bottom-left)")
	fl.StringVar(&f.end, "end", "#ffffff", "Gradient end color (top-left)")
	fl.StringVar(&f.out, "out", "card.png", "Output image file (.png or .jpg)")
	fl.StringVar(&f.config, "config", "", "YAML config file")
	fl.BoolVar(&f.markdown, "markdown", false, "Read content as Markdown")
	fl.IntVar(&f.width, "width", 0, "Output width in pixels (default 1080)")
	fl.IntVar(&f.height, "height", 0, "Output height in pixels (default 1350)")
	fl.IntVar(&f.border, "border", -1, "Gradient border in pixels (default 96)")
	fl.Float64Var(&f.fontSize, "size", 0, "Font size in pixels (default 150)")
	fl.StringVar(&f.fontReg, "font", "", "Regular TTF URL or path (default Go Regular)")
	fl.StringVar(&f.fontBold, "font-bold", "", "Bold TTF URL or path (default Go Bold)")
	fl.StringVar(&f.fontEmoji, "font-emoji", "", "Emoji font URL or path (optional)")
	fl.StringVar(&f.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func runRender(cmd *cobra.Command, f renderFlags) error {
	if err := setupLogging(f.logLevel); err != nil {
		return err
	}
	opts := quotecard.DefaultOptions()
	if f.config != "" {
		var err error
		if opts, err = quotecard.LoadConfig(f.config); err != nil {
			return err
		}
	}
	if f.markdown {
		opts.Markdown = true
	}
	if f.width > 0 {
		opts.Width = f.width
	}
	if f.height > 0 {
		opts.Height = f.height
	}
	if f.border >= 0 {
		opts.Border = f.border
	}
	if f.fontSize > 0 {
		opts.FontSize = f.fontSize
	}
	if f.fontReg != "" {
		opts.FontRegular = f.fontReg
	}
	if f.fontBold != "" {
		opts.FontBold = f.fontBold
	}
	if f.fontEmoji != "" {
		opts.FontEmoji = f.fontEmoji
	}

	start, err := quotecard.ParseHexColor(f.start)
	if err != nil {
		return err
	}
	end, err := quotecard.ParseHexColor(f.end)
	if err != nil {
		return err
	}
	content, err := readContent(cmd.InOrStdin(), f.content)
	if err != nil {
		return err
	}

	host := &fileHost{path: f.out, width: opts.Width, height: opts.Height, stderr: cmd.ErrOrStderr()}
	quotecard.Render(context.Background(), host, quotecard.Request{
		ImageURL:   f.image,
		ContentXML: string(content),
		StartColor: start,
		EndColor:   end,
	}, quotecard.WithOptions(opts))
	if host.failed {
		return errRenderFailed
	}
	return nil
}

var errRenderFailed = errors.New("render failed")

func newRunsCmd() *cobra.Command {
	var content string
	var markdown bool
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Print the styled runs of content",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readContent(cmd.InOrStdin(), content)
			if err != nil {
				return err
			}
			lines, err := quotecard.ParseContent(string(data), markdown)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, ln := range lines {
				fmt.Fprintf(w, "line %d:\n", i+1)
				for _, r := range ln {
					fmt.Fprintf(w, "  %s\n", r)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "-", "Content file (- for stdin)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Read content as Markdown")
	return cmd
}

func readContent(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	quotecard.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

// fileHost writes the finished card to path.
type fileHost struct {
	path          string
	width, height int
	stderr        io.Writer
	failed        bool
}

func (h *fileHost) Size() (int, int) { return h.width, h.height }

func (h *fileHost) Show(img image.Image) error {
	file, err := os.Create(h.path)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(h.path))
	switch ext {
	case ".png":
		err = png.Encode(file, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 92})
	default:
		err = errors.New("unsupported output extension: " + ext)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Remove deletes any output left from an earlier run.
func (h *fileHost) Remove() {
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		quotecard.Logger().Debug("removing output", "path", h.path, "error", err)
	}
}

func (h *fileHost) ShowError(msg string) {
	h.failed = true
	_, _ = fmt.Fprintln(h.stderr, msg)
}

func fatal(err error) {
	if errors.Is(err, errRenderFailed) {
		os.Exit(1)
	}
	_, _ = os.Stderr.WriteString("quotecard: " + err.Error() + "\n")
	os.Exit(1)
}
