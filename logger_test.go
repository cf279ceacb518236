package softrast

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/soypat/glgl/math/ms3"
)

func TestLoggerDefaultSilent(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger must be disabled")
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	fb := NewFramebuffer(8, 8)
	verts := []Vertex{{Position: ms3.Vec{}}, {Position: ms3.Vec{X: 4}}, {Position: ms3.Vec{Y: 4}}}
	var r Renderer
	r.Draw(fb, Uniforms{}, verts, Shader{Kind: ShaderGas})
	out := buf.String()
	if !strings.Contains(out, "msg=draw") || !strings.Contains(out, "shader=gas") || !strings.Contains(out, "fragments=15") {
		t.Errorf("unexpected draw log output: %q", out)
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) must restore the silent logger")
	}
}
