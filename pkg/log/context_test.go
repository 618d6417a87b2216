package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCtxFallsBackToGlobal(t *testing.T) {
	if Ctx(context.Background()) != L() {
		t.Error("empty context should yield the global logger")
	}
}

func TestCtxChainsOnStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	// Level methods must chain directly on the returned handle.
	Ctx(ctx).Info().Str("k", "v").Msg("stored logger used")

	out := buf.String()
	if !strings.Contains(out, "stored logger used") || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("log line not written through context logger: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"fatal":   zerolog.FatalLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
