package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	lcerrors "github.com/YuminosukeSato/landcover/pkg/errors"
)

func TestTestLoggerLevelsAndFields(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("hidden")
	testLogger.With(ComponentKey, "sampling").Info("Sampled training rows",
		OperationKey, OperationSample,
		SamplesKey, 40,
	)

	if buffer.Len() == 0 {
		t.Fatal("Expected log output, got empty buffer")
	}
	if testLogger.ContainsMessage("hidden") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsField(ComponentKey, "sampling") {
		t.Error("Component context not found")
	}
	if !testLogger.ContainsField(SamplesKey, 40.0) {
		t.Error("Samples field not found")
	}
	if testLogger.Enabled(context.Background(), LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("not emitted")
	logger.With(ComponentKey, "qa").Error("Decode failed",
		ErrAttrKey, lcerrors.NewUnrecognizedQAValueError([]int{0}),
		ErrorCodeKey, ErrorUnrecognizedQA,
		PixelsKey, 3,
	)

	out := buf.String()
	if strings.Contains(out, "not emitted") {
		t.Error("Debug record should be filtered at Info level")
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("Failed to parse zerolog output %q: %v", out, err)
	}
	if entry["level"] != "error" {
		t.Errorf("level = %v, want error", entry["level"])
	}
	if entry[ComponentKey] != "qa" {
		t.Errorf("%s = %v, want qa", ComponentKey, entry[ComponentKey])
	}
	if entry[PixelsKey] != 3.0 {
		t.Errorf("%s = %v, want 3", PixelsKey, entry[PixelsKey])
	}
	detail, ok := entry[ErrAttrKey+"_detail"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected structured error detail, got %v", entry[ErrAttrKey+"_detail"])
	}
	if detail["type"] != "UnrecognizedQAValueError" {
		t.Errorf("detail type = %v", detail["type"])
	}
	if !logger.Enabled(context.Background(), LevelWarn) || logger.Enabled(context.Background(), LevelDebug) {
		t.Error("Enabled does not follow the configured level")
	}
}

func TestInstallWarningHook(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)
	logger.InstallWarningHook()
	defer lcerrors.SetZerologWarnFunc(nil)

	lcerrors.Warn(lcerrors.NewUndersampledClassWarning(7, 20, 5))

	if !strings.Contains(buf.String(), `"available":5`) {
		t.Errorf("Expected structured warning fields, got %q", buf.String())
	}
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Error("Sampling failed", ErrAttr(lcerrors.NewDimensionError("Assemble", 68, 67, 1)))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse slog output: %v", err)
	}
	if _, ok := entry[StacktraceAttrKey]; !ok {
		t.Errorf("Expected %s attribute, got %v", StacktraceAttrKey, entry)
	}
}

func TestFromSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := FromSlog(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	logger.Info("dropped")
	logger.With(PhaseKey, PhaseInference).Warn("kept", SegmentsKey, 12)

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("Info record should be filtered at Warn level")
	}
	if !strings.Contains(out, fmt.Sprintf(`"%s":"%s"`, PhaseKey, PhaseInference)) {
		t.Errorf("Expected phase attribute in %q", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop().With("k", "v")
	l.Info("ignored")
	if l.Enabled(context.Background(), LevelError) {
		t.Error("Nop logger should never be enabled")
	}
}
