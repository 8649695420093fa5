package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("Level() = %v, want info", logger.Level())
	}

	if logger.Format() != FormatText {
		t.Errorf("Format() = %v, want text", logger.Format())
	}

	logger.Debug("hidden")
	logger.Info("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output at default level: %s", buf.String())
	}
}

func TestLogger_TraceLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON))
	logger.TraceContext(t.Context(), "call", slog.String("func", "main"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}

	if rec["func"] != "main" {
		t.Errorf("func = %v, want main", rec["func"])
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Trace("x")
	logger.Error("x")
	_ = logger.With(slog.Int("k", 1))

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want default", logger.Level())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelWarn))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	wrapped.Debug("to second")
	base.Debug("dropped")

	if first.Len() != 0 {
		t.Errorf("base logger wrote %q", first.String())
	}

	if !strings.Contains(second.String(), "to second") {
		t.Errorf("wrapped logger output = %q", second.String())
	}

	if base.Level() != LevelWarn {
		t.Errorf("Wrap() modified the original level to %v", base.Level())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON)).With(slog.String("file", "prog.cs"))
	logger.Info("loaded")

	if !strings.Contains(buf.String(), `"file":"prog.cs"`) {
		t.Errorf("output missing attribute: %s", buf.String())
	}
}

func TestWithTimeLayout(t *testing.T) {
	tests := []struct {
		layout string
		check  func(string) bool
	}{
		{layout: "none", check: func(s string) bool { return !strings.Contains(s, "time=") }},
		{layout: "", check: func(s string) bool { return !strings.Contains(s, "time=") }},
		{layout: "RFC3339", check: func(s string) bool { return strings.Contains(s, "T") }},
		{layout: "2006", check: func(s string) bool { return strings.Contains(s, "time=2") }},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			var buf bytes.Buffer

			Make(&buf, WithTimeLayout(tt.layout)).Info("msg")

			if !tt.check(buf.String()) {
				t.Errorf("unexpected output for layout %q: %s", tt.layout, buf.String())
			}
		})
	}
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithTimeLayout("none"), WithLevel(LevelTrace)).
		With(slog.String("file", "a.cs"))

	logger.Trace("call",
		slog.Int("depth", 2),
		slog.Group("pos", slog.Int("line", 3)),
		slog.Bool("ok", true))

	// A non-terminal writer gets no color codes.
	want := "TRACE call file=a.cs depth=2 pos.line=3 ok=true\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"debug+2", Level(slog.LevelDebug + 2)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelText(t *testing.T) {
	for name := range Levels() {
		var l Level
		if err := l.UnmarshalText([]byte(name)); err != nil {
			t.Fatalf("UnmarshalText(%q) error: %v", name, err)
		}

		if got, _ := l.MarshalText(); string(got) != name {
			t.Errorf("round trip of %q = %q", name, got)
		}
	}
}

func TestFormats(t *testing.T) {
	got := slices.Collect(Formats())
	if !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}

	if ParseFormat(" JSON ") != FormatJSON || ParseFormat("xml") != DefaultFormat {
		t.Error("ParseFormat() mismatch")
	}
}
