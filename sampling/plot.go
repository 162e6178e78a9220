package sampling

import (
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// SaveClassBalancePlot writes a bar chart of the rows taken per class next to
// each class quota. The image format follows the extension of path.
func SaveClassBalancePlot(sel *Selection, path string) error {
	if sel == nil || len(sel.Classes) == 0 {
		return errors.Wrap(errors.ErrEmptySelection, "nothing to plot")
	}

	counts := make(plotter.Values, len(sel.Counts))
	quotas := make(plotter.Values, len(sel.Quotas))
	names := make([]string, len(sel.Classes))
	for i, c := range sel.Classes {
		counts[i] = float64(sel.Counts[i])
		quotas[i] = float64(sel.Quotas[i])
		names[i] = strconv.Itoa(c)
	}

	p := plot.New()
	p.Title.Text = "Training rows per class"
	p.X.Label.Text = "class"
	p.Y.Label.Text = "rows"

	width := vg.Points(12)
	taken, err := plotter.NewBarChart(counts, width)
	if err != nil {
		return errors.Wrap(err, "failed to build count bars")
	}
	taken.Offset = -width / 2
	taken.LineStyle.Width = vg.Length(0)
	taken.Color = color.Gray{Y: 96}

	quota, err := plotter.NewBarChart(quotas, width)
	if err != nil {
		return errors.Wrap(err, "failed to build quota bars")
	}
	quota.Offset = width / 2
	quota.LineStyle.Width = vg.Length(1)

	p.Add(taken, quota)
	p.Legend.Add("taken", taken)
	p.Legend.Add("quota", quota)
	p.Legend.Top = true
	p.NominalX(names...)

	if err := p.Save(4*vg.Inch, 3*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save class balance plot to %s", path)
	}
	return nil
}
