package quotecard

import "fmt"

// ErrorKind identifies the stage of a render that failed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindLoad is a failure fetching or decoding an image or font.
	KindLoad
	// KindParse is malformed content markup.
	KindParse
	// KindLayout is a failure shaping or wrapping text.
	KindLayout
	// KindCompose is a failure while drawing the frame.
	KindCompose
)

func (k ErrorKind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindParse:
		return "parse"
	case KindLayout:
		return "layout"
	case KindCompose:
		return "compose"
	default:
		return "unknown"
	}
}

// RenderError is returned by Compose for any failure. Op names the step
// that failed (for example "loader" or "compose.gradient").
type RenderError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("quotecard: %s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ResourceLoadError reports a resource that could not be fetched or decoded.
type ResourceLoadError struct {
	// Resource is the logical name: "image", "font-regular", "font-bold" or "font-emoji".
	Resource string
	// Source is the URL or path that was requested.
	Source string
	Err    error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("loading %s from %q: %v", e.Resource, e.Source, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// MarkupParseError reports content markup that is not a well-formed
// line/bold/br tree. Offset is the byte offset of the offending token.
type MarkupParseError struct {
	Offset int
	Msg    string
}

func (e *MarkupParseError) Error() string {
	return fmt.Sprintf("markup: offset %d: %s", e.Offset, e.Msg)
}
