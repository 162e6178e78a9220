package change

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/landcover/config"
	"github.com/YuminosukeSato/landcover/core/parallel"
	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// parallelThreshold is the pixel count above which results are unpacked concurrently.
const parallelThreshold = 256

// ExtractCurve flattens the curve fit of m. For each band, in the given order, the
// band's coefficients are followed by its intercept, giving coefCount values per band.
func ExtractCurve(m Model, bands []string, coefCount int) (coefs, rmse []float64, err error) {
	coefs = make([]float64, 0, len(bands)*coefCount)
	rmse = make([]float64, len(bands))

	for i, name := range bands {
		fit, ok := m.Bands[name]
		if !ok {
			return nil, nil, errors.NewMissingBandDataError(name, m.StartDay, m.EndDay)
		}
		if len(fit.Coefficients) != coefCount-1 {
			return nil, nil, errors.NewDimensionError("change.ExtractCurve["+name+"]", coefCount-1, len(fit.Coefficients), 1)
		}
		coefs = append(coefs, fit.Coefficients...)
		coefs = append(coefs, fit.Intercept)
		rmse[i] = fit.RMSE
	}
	return coefs, rmse, nil
}

// UnpackResult converts every segment of r, keeping the order of the result.
func UnpackResult(r Result, info config.CCDInfo) ([]Segment, error) {
	return unpack(r, info.Bands.Sorted(), info.CoefCount)
}

func unpack(r Result, bands []string, coefCount int) ([]Segment, error) {
	segments := make([]Segment, 0, len(r.ChangeModels))
	for _, m := range r.ChangeModels {
		coefs, rmse, err := ExtractCurve(m, bands, coefCount)
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{
			Span:  Span{StartDay: m.StartDay, EndDay: m.EndDay},
			Coefs: coefs,
			RMSE:  rmse,
		})
	}
	return segments, nil
}

// CheckCoverage reports whether s spans the whole [beginDay, endDay] window.
func CheckCoverage(s Span, beginDay, endDay int) bool {
	return s.StartDay <= beginDay && s.EndDay >= endDay
}

// FilterResult returns the first segment of r that covers the configured window.
// The boolean is false when no segment covers it.
func FilterResult(r Result, info config.CCDInfo) (Segment, bool, error) {
	return filter(r, info.Bands.Sorted(), info)
}

func filter(r Result, bands []string, info config.CCDInfo) (Segment, bool, error) {
	segments, err := unpack(r, bands, info.CoefCount)
	if err != nil {
		return Segment{}, false, err
	}
	for _, s := range segments {
		if CheckCoverage(s.Span, info.BeginDay, info.EndDay) {
			return s, true, nil
		}
	}
	return Segment{}, false, nil
}

// Extraction is a stack of segment rows. Index[i] is the position, in the input
// slice of results, of the pixel row i came from; Spans[i] is that row's segment span.
// Coefs and RMSE are nil when no row was produced.
type Extraction struct {
	Coefs *mat.Dense
	RMSE  *mat.Dense
	Index []int
	Spans []Span

	Bands     []string
	CoefCount int
}

// Len returns the number of rows.
func (e *Extraction) Len() int {
	return len(e.Index)
}

// FilterCCD keeps, for each pixel, the first segment covering the window. Pixels
// without such a segment are dropped, so Len() <= len(results).
func FilterCCD(results []Result, info config.CCDInfo) (*Extraction, error) {
	bands := info.Bands.Sorted()
	perPixel := make([][]Segment, len(results))

	err := parallel.ParallelizeErr("change.FilterCCD", len(results), parallelThreshold, func(start, end int) error {
		for i := start; i < end; i++ {
			s, ok, err := filter(results[i], bands, info)
			if err != nil {
				return errors.Wrapf(err, "pixel %d", i)
			}
			if ok {
				perPixel[i] = []Segment{s}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stack(perPixel, bands, info.CoefCount), nil
}

// UnpackCCD emits one row per segment of every pixel, without temporal filtering.
// A pixel with several segments contributes several rows sharing the same Index.
func UnpackCCD(results []Result, info config.CCDInfo) (*Extraction, error) {
	bands := info.Bands.Sorted()
	perPixel := make([][]Segment, len(results))

	err := parallel.ParallelizeErr("change.UnpackCCD", len(results), parallelThreshold, func(start, end int) error {
		for i := start; i < end; i++ {
			segments, err := unpack(results[i], bands, info.CoefCount)
			if err != nil {
				return errors.Wrapf(err, "pixel %d", i)
			}
			perPixel[i] = segments
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stack(perPixel, bands, info.CoefCount), nil
}

func stack(perPixel [][]Segment, bands []string, coefCount int) *Extraction {
	ext := &Extraction{Bands: bands, CoefCount: coefCount}

	rows := 0
	for _, segs := range perPixel {
		rows += len(segs)
	}
	if rows == 0 {
		return ext
	}

	coefWidth := len(bands) * coefCount
	coefData := make([]float64, 0, rows*coefWidth)
	rmseData := make([]float64, 0, rows*len(bands))
	ext.Index = make([]int, 0, rows)
	ext.Spans = make([]Span, 0, rows)

	for pixel, segs := range perPixel {
		for _, s := range segs {
			coefData = append(coefData, s.Coefs...)
			rmseData = append(rmseData, s.RMSE...)
			ext.Index = append(ext.Index, pixel)
			ext.Spans = append(ext.Spans, s.Span)
		}
	}

	ext.Coefs = mat.NewDense(rows, coefWidth, coefData)
	ext.RMSE = mat.NewDense(rows, len(bands), rmseData)
	return ext
}
