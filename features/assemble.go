package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/landcover/change"
	"github.com/YuminosukeSato/landcover/pkg/errors"
	"github.com/YuminosukeSato/landcover/qa"
)

// Covariate is a static per-pixel variable such as elevation or slope.
// Values is indexed by pixel, like the change results and the QA rows.
type Covariate struct {
	Name   string
	Values []float64
}

// Assemble builds one feature row per extraction row. Row i reads the terrain
// values and QA probabilities of pixel ext.Index[i], so a pixel contributing
// several segments has its covariates repeated on each of them.
//
// terrain must follow layout.Terrain exactly.
func Assemble(ext *change.Extraction, terrain []Covariate, probs *qa.Probabilities, layout Layout) (*mat.Dense, error) {
	const op = "features.Assemble"

	if ext == nil || probs == nil {
		return nil, errors.NewValueError(op, "extraction and QA probabilities are required")
	}
	if ext.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	if err := checkLayout(ext, terrain, layout); err != nil {
		return nil, err
	}

	pixels := probs.Len()
	for _, c := range terrain {
		if len(c.Values) != pixels {
			return nil, errors.NewDimensionError(op+"["+c.Name+"]", pixels, len(c.Values), 0)
		}
	}
	for _, p := range ext.Index {
		if p < 0 || p >= pixels {
			return nil, errors.NewValueError(op, fmt.Sprintf("pixel index %d outside [0, %d)", p, pixels))
		}
	}

	_, coefCols := ext.Coefs.Dims()
	_, rmseCols := ext.RMSE.Dims()
	width := coefCols + rmseCols + len(terrain) + len(qaColumns)
	if width != layout.Width() {
		return nil, errors.NewDimensionError(op, layout.Width(), width, 1)
	}

	rows := ext.Len()
	X := mat.NewDense(rows, width, nil)
	for i, p := range ext.Index {
		row := X.RawRowView(i)
		col := copy(row, ext.Coefs.RawRowView(i))
		col += copy(row[col:], ext.RMSE.RawRowView(i))
		for _, c := range terrain {
			row[col] = c.Values[p]
			col++
		}
		row[col], row[col+1], row[col+2] = probs.At(p)
	}

	if err := errors.CheckMatrix(op, X, rows, width); err != nil {
		return nil, err
	}
	return X, nil
}

func checkLayout(ext *change.Extraction, terrain []Covariate, layout Layout) error {
	if len(ext.Bands) != len(layout.Bands) {
		return errors.NewValidationError("layout.bands", "band count differs from the extraction", ext.Bands)
	}
	for i, b := range layout.Bands {
		if ext.Bands[i] != b {
			return errors.NewValidationError("layout.bands", fmt.Sprintf("column %d expects band %q", i, b), ext.Bands[i])
		}
	}
	if ext.CoefCount != layout.CoefCount {
		return errors.NewDimensionError("features.Assemble[coef_count]", layout.CoefCount, ext.CoefCount, 1)
	}

	if len(terrain) != len(layout.Terrain) {
		return errors.NewValidationError("layout.terrain", "covariate count differs from the layout", len(terrain))
	}
	for i, name := range layout.Terrain {
		if terrain[i].Name != name {
			return errors.NewValidationError("layout.terrain", fmt.Sprintf("position %d expects %q", i, name), terrain[i].Name)
		}
	}
	return nil
}
