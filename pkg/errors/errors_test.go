package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewUnrecognizedQAValueError(t *testing.T) {
	err := NewUnrecognizedQAValueError([]int{512, 0, 512, 128, 0})

	var qaErr *UnrecognizedQAValueError
	if !As(err, &qaErr) {
		t.Fatal("Error should be castable to *UnrecognizedQAValueError")
	}

	want := []int{0, 128, 512}
	if len(qaErr.Values) != len(want) {
		t.Fatalf("Values = %v, want %v", qaErr.Values, want)
	}
	for i := range want {
		if qaErr.Values[i] != want[i] {
			t.Errorf("Values[%d] = %d, want %d", i, qaErr.Values[i], want[i])
		}
	}

	wantMsg := "landcover: received the following unknown bit packed QA values: [0 128 512]"
	if err.Error() != wantMsg {
		t.Errorf("Error() = %v, want %v", err.Error(), wantMsg)
	}

	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected stack trace to contain test file name")
	}
}

func TestNewMissingBandDataError(t *testing.T) {
	err := NewMissingBandDataError("swir1", 729755, 730850)

	want := "landcover: change model [729755, 730850] has no data for band 'swir1'"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var bandErr *MissingBandDataError
	if !As(err, &bandErr) {
		t.Fatal("Error should be castable to *MissingBandDataError")
	}
	if bandErr.Band != "swir1" {
		t.Errorf("Band = %q, want swir1", bandErr.Band)
	}
}

func TestNewDimensionError(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{"rows", 0, "landcover: Assemble: dimension mismatch on axis 0 (rows). Expected 10, got 9"},
		{"features", 1, "landcover: Assemble: dimension mismatch on axis 1 (features). Expected 10, got 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("Assemble", 10, 9, tt.axis)
			if err.Error() != tt.want {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.want)
			}
			var dimErr *DimensionError
			if !As(err, &dimErr) {
				t.Error("Error should be castable to *DimensionError")
			}
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("class_max", "must be >= class_min", 3)

	want := "landcover: validation failed for parameter 'class_max': must be >= class_min (got: 3)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNewModelError(t *testing.T) {
	cause := fmt.Errorf("no classes")
	err := NewModelError("Train", "fit failed", cause)

	if want := "landcover: Train: fit failed: no classes"; err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
	if !Is(err, cause) {
		t.Error("ModelError should unwrap to its cause")
	}
}

func TestEmptySelectionSentinel(t *testing.T) {
	wrapped := Wrapf(ErrEmptySelection, "sampling %d labels", 7)

	if !Is(wrapped, ErrEmptySelection) {
		t.Error("Expected Is(wrapped, ErrEmptySelection) to be true")
	}
	if !strings.Contains(wrapped.Error(), "sampling 7 labels") {
		t.Errorf("Expected wrapped error to contain message, got %q", wrapped.Error())
	}
}

func TestWarn_ZerologHookTakesPrecedence(t *testing.T) {
	var fallback []error
	SetWarningHandler(func(w error) { fallback = append(fallback, w) })
	defer SetWarningHandler(nil)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	SetZerologWarnFunc(func(w error) {
		if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
			logger.Warn().EmbedObject(obj).Msg(w.Error())
			return
		}
		logger.Warn().Msg(w.Error())
	})

	Warn(NewUndersampledClassWarning(4, 10, 3))
	if !strings.Contains(buf.String(), `"type":"UndersampledClassWarning"`) {
		t.Errorf("Expected structured warning in zerolog output, got %q", buf.String())
	}
	if len(fallback) != 0 {
		t.Errorf("Fallback handler should not run while a zerolog hook is set")
	}

	SetZerologWarnFunc(nil)
	Warn(NewUndersampledClassWarning(4, 10, 3))
	if len(fallback) != 1 {
		t.Errorf("Expected fallback handler to receive 1 warning, got %d", len(fallback))
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(3, 0); got != 0 {
		t.Errorf("SafeDivide(3, 0) = %v, want 0", got)
	}
	if got := SafeDivide(1, 4); got != 0.25 {
		t.Errorf("SafeDivide(1, 4) = %v, want 0.25", got)
	}
}
