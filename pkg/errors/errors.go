// Package errors provides the error and warning types shared by the feature assembly packages.
// Every constructor attaches a stack trace through cockroachdb/errors so that the slog
// handler in pkg/log can report where a data problem was first detected.
package errors

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("landcover-warning: %v\n", w)
	}
	// set lazily by pkg/log to avoid an import cycle
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the fallback handler used by Warn when no zerolog hook is installed.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs the zerolog warning function. Passing nil removes it.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. The zerolog hook takes precedence over the fallback handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// UndersampledClassWarning is emitted when a class quota asks for more rows than the class has.
// All available rows are taken in that case; the class is never oversampled.
type UndersampledClassWarning struct {
	Class     int
	Quota     int
	Available int
}

func (w *UndersampledClassWarning) Error() string {
	return fmt.Sprintf("class %d: quota of %d rows exceeds the %d available rows; taking all of them",
		w.Class, w.Quota, w.Available)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *UndersampledClassWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("class", w.Class).
		Int("quota", w.Quota).
		Int("available", w.Available).
		Str("type", "UndersampledClassWarning")
}

// NewUndersampledClassWarning creates a new UndersampledClassWarning.
func NewUndersampledClassWarning(class, quota, available int) *UndersampledClassWarning {
	return &UndersampledClassWarning{Class: class, Quota: quota, Available: available}
}

// ===========================================================================
//
//	Domain errors
//
// ===========================================================================

// UnrecognizedQAValueError is returned when a bit-packed QA word sets none of the
// bits in the QA hierarchy. Values holds the distinct offending raw words in ascending order.
type UnrecognizedQAValueError struct {
	Values []int
}

func (e *UnrecognizedQAValueError) Error() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("landcover: received the following unknown bit packed QA values: [%s]",
		strings.Join(parts, " "))
}

// MarshalZerologObject adds the offending values to a zerolog event.
func (e *UnrecognizedQAValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Ints("values", e.Values).
		Str("type", "UnrecognizedQAValueError")
}

// NewUnrecognizedQAValueError deduplicates and sorts values before attaching a stack trace.
func NewUnrecognizedQAValueError(values []int) error {
	seen := make(map[int]struct{}, len(values))
	distinct := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		distinct = append(distinct, v)
	}
	sort.Ints(distinct)
	return errors.WithStack(&UnrecognizedQAValueError{Values: distinct})
}

// MissingBandDataError is returned when a change-model segment lacks a band from the band ordering.
type MissingBandDataError struct {
	Band     string
	StartDay int
	EndDay   int
}

func (e *MissingBandDataError) Error() string {
	return fmt.Sprintf("landcover: change model [%d, %d] has no data for band '%s'", e.StartDay, e.EndDay, e.Band)
}

// MarshalZerologObject adds the segment and band to a zerolog event.
func (e *MissingBandDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("band", e.Band).
		Int("start_day", e.StartDay).
		Int("end_day", e.EndDay).
		Str("type", "MissingBandDataError")
}

// NewMissingBandDataError creates a new MissingBandDataError with a stack trace.
func NewMissingBandDataError(band string, startDay, endDay int) error {
	return errors.WithStack(&MissingBandDataError{Band: band, StartDay: startDay, EndDay: endDay})
}

// NotFittedError is returned when inference is attempted before training.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("landcover: %s: this model is not fitted yet. Call Train() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError is returned when an input does not have the expected number of rows or columns.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("landcover: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, axisName(e.Axis), e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName(e.Axis)).
		Str("type", "DimensionError")
}

func axisName(axis int) string {
	if axis == 0 {
		return "rows"
	}
	return "features"
}

// NewDimensionError creates a new DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError is returned when a configuration value fails validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("landcover: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a new ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError is returned when an argument has an inappropriate value.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("landcover: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError wraps a failure reported by the external classifier.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("landcover: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("landcover: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a new ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to err.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Numerical errors
//
// ===========================================================================

// NumericalInstabilityError is returned when a feature matrix contains NaN or Inf.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Row       int
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("landcover: numerical instability detected in %s at row %d. Values: [%s]",
		e.Operation, e.Row, valStr)
}

// NewNumericalInstabilityError creates a new NumericalInstabilityError with a stack trace.
func NewNumericalInstabilityError(operation string, values []float64, row int) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values, Row: row})
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrEmptySelection is returned when stratified sampling selects no training rows.
	ErrEmptySelection = New("empty training selection")

	// ErrEmptyData is returned when an operation receives no rows at all.
	ErrEmptyData = New("empty data")
)
