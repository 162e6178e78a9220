// Package change turns per-pixel change-detection results into flat coefficient
// and RMSE rows and selects the segments that cover a required time window.
package change

// BandFit is the curve fit of one spectral band within a segment.
type BandFit struct {
	Coefficients []float64
	Intercept    float64
	RMSE         float64
	Magnitude    float64
}

// Model is one time segment of a change-detection result. Band fits are keyed by band name.
type Model struct {
	StartDay          int
	EndDay            int
	BreakDay          int
	ObservationCount  int
	ChangeProbability float64
	CurveQA           int
	Bands             map[string]BandFit
}

// Result is the change-detection output for one pixel, segments in time order.
type Result struct {
	ChangeModels []Model
	Procedure    string
	Algorithm    string
}

// Span is the [StartDay, EndDay] interval of a segment, in ordinal days.
type Span struct {
	StartDay int
	EndDay   int
}

// Segment is a segment reduced to its span and flattened curve information.
// Coefs holds bands x coefCount values row-major; RMSE holds one value per band.
type Segment struct {
	Span
	Coefs []float64
	RMSE  []float64
}
