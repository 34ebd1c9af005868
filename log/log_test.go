package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.config.level != LevelInfo {
		t.Errorf("expected default level Info, got %v", logger.config.level)
	}
	if logger.config.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.config.format != FormatText {
		t.Errorf("expected default format text, got %v", logger.config.format)
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()
	logger2 := Make(&buf, WithLevel(LevelError))
	logger2.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger2.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Make_JSONFormat_EmitsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON))

	logger.Info("structured message", slog.String("path", "data.lua"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if record["msg"] != "structured message" {
		t.Errorf("expected msg field, got %v", record["msg"])
	}
	if record["path"] != "data.lua" {
		t.Errorf("expected path attribute, got %v", record["path"])
	}
}

func TestLogger_Make_Pretty_ColorizesOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true))

	logger.Info("colorful", slog.Int("count", 3))

	out := buf.String()
	if !strings.Contains(out, "\033[") {
		t.Error("pretty output contains no ANSI escape sequences")
	}
	if !strings.Contains(out, "colorful") {
		t.Errorf("pretty output missing message: %q", out)
	}
	if !strings.Contains(out, "count") {
		t.Errorf("pretty output missing attribute key: %q", out)
	}
}

func TestLogger_Wrap_OverridesConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelError))

	wrapped := logger.Wrap(WithLevel(LevelDebug))

	if wrapped.Level() != LevelDebug {
		t.Errorf("expected wrapped level Debug, got %v", wrapped.Level())
	}
	if logger.Level() != LevelError {
		t.Errorf("wrapping mutated original logger level: %v", logger.Level())
	}

	wrapped.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("wrapped logger did not log at overridden level")
	}
}

func TestLogger_With_IncludesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf).With(slog.String("file", "entity.lua"))

	logger.Info("annotated")

	if !strings.Contains(buf.String(), "entity.lua") {
		t.Errorf("expected bound attribute in output: %q", buf.String())
	}
}

func TestLogger_ZeroValue_DiscardsMessages(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("into the void")
	logger.Error("still nothing")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero value level = %v, want %v", logger.Level(), DefaultLevel)
	}
	if logger.Format() != DefaultFormat {
		t.Errorf("zero value format = %v, want %v", logger.Format(), DefaultFormat)
	}
}

func TestConfig_ReconfiguresDefaultLogger(t *testing.T) {
	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelWarn))
	defer Config(WithOutput(nil), WithLevel(DefaultLevel))

	Info("below threshold")
	if buf.Len() > 0 {
		t.Error("info message logged when default level is Warn")
	}

	Warn("above threshold")
	if !strings.Contains(buf.String(), "above threshold") {
		t.Error("warn message not logged by reconfigured default logger")
	}
}
