// Package features assembles the classifier's independent variables from change
// models, terrain covariates and QA summaries, and runs the training and
// inference paths around an external classifier.
//
// Every feature row has the same column layout:
//
//	[coefficients][rmse][terrain covariates][cloud_prob][snow_prob][water_prob]
//
// Coefficients are band-major: for each band in key order, coefCount-1 curve
// coefficients followed by the intercept. Training and inference must share a
// Layout or predictions are silently wrong, so both paths assert its width.
package features

import (
	"strconv"

	"github.com/YuminosukeSato/landcover/config"
)

// qaColumns are the QA summary columns closing every row.
var qaColumns = []string{"cloud_prob", "snow_prob", "water_prob"}

// Layout fixes the column order of the feature matrix.
type Layout struct {
	Bands     []string
	CoefCount int
	Terrain   []string
}

// NewLayout builds the layout for the bands of info and the given terrain covariates, in that order.
func NewLayout(info config.CCDInfo, terrain ...string) Layout {
	return Layout{
		Bands:     info.Bands.Sorted(),
		CoefCount: info.CoefCount,
		Terrain:   append([]string(nil), terrain...),
	}
}

// Width returns the number of feature columns.
func (l Layout) Width() int {
	return len(l.Bands)*l.CoefCount + len(l.Bands) + len(l.Terrain) + len(qaColumns)
}

// Names returns one name per column, in column order.
func (l Layout) Names() []string {
	names := make([]string, 0, l.Width())
	for _, b := range l.Bands {
		for k := 1; k < l.CoefCount; k++ {
			names = append(names, b+"_coef"+strconv.Itoa(k))
		}
		names = append(names, b+"_intercept")
	}
	for _, b := range l.Bands {
		names = append(names, b+"_rmse")
	}
	names = append(names, l.Terrain...)
	return append(names, qaColumns...)
}
