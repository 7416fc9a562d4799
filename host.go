package quotecard

import "image"

// Host is the surface a render reports to. On success Show receives the
// finished frame; on failure Remove is called and then ShowError with the
// message. A host never sees a partially drawn frame.
type Host interface {
	// Size is the surface size in pixels. A zero dimension falls back to
	// the configured size.
	Size() (w, h int)
	Show(img image.Image) error
	Remove()
	ShowError(msg string)
}
