// Package log defines standard attribute keys for feature assembly operations.
//
// Using these keys across qa, change, sampling and features keeps log records
// filterable by stage ("ml.operation") and by data shape ("data.samples").

package log

// Operation context.
const (
	// ComponentKey identifies which package emitted the record.
	// Examples: "qa", "change", "sampling", "features"
	ComponentKey = "ml.component"

	// OperationKey names the operation being performed.
	// Standard values are the Operation* constants below.
	OperationKey = "ml.operation"

	// PhaseKey is either PhaseTraining or PhaseInference.
	PhaseKey = "ml.phase"

	// ModelNameKey identifies the external classifier type.
	ModelNameKey = "model.name"
)

// Data shape.
const (
	// SamplesKey is the number of rows in a feature matrix or label vector.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of columns in a feature matrix.
	FeaturesKey = "data.features"

	// PixelsKey is the number of pixels handed to an operation.
	PixelsKey = "data.pixels"

	// SegmentsKey is the number of change-model segments produced.
	SegmentsKey = "data.segments"

	// ClassesKey is the number of distinct classes.
	ClassesKey = "data.classes"

	// ExcludedKey is the number of rows removed by the training exclusion mask.
	ExcludedKey = "data.excluded"
)

// Performance and configuration.
const (
	DurationMsKey = "perf.duration_ms"

	// RandomSeedKey records the generator seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// CoverageKey records the required [begin_day, end_day] window.
	CoverageKey = "config.coverage"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationDecode       = "decode"
	OperationQualityStats = "quality_stats"
	OperationFilterCCD    = "filter_ccd"
	OperationUnpackCCD    = "unpack_ccd"
	OperationSample       = "sample"
	OperationAssemble     = "assemble"
	OperationFit          = "fit"
	OperationPredictProba = "predict_proba"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorUnrecognizedQA    = "UNRECOGNIZED_QA_VALUE"
	ErrorMissingBand       = "MISSING_BAND_DATA"
	ErrorEmptySelection    = "EMPTY_SELECTION"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorNotFitted         = "NOT_FITTED"
)
