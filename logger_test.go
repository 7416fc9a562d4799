package quotecard

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerSilentByDefault(t *testing.T) {
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestRenderLogsFailureKind(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	srv := newTestServer(t, nil)
	Render(context.Background(), &recordingHost{}, Request{ImageURL: srv.URL + "/missing.png"},
		WithOptions(smallOptions()), WithLoader(&Loader{Client: srv.Client()}))

	out := buf.String()
	assert.Contains(t, out, `msg="render failed"`)
	assert.Contains(t, out, "kind=load")
}
