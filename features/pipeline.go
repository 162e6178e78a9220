package features

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/landcover/change"
	"github.com/YuminosukeSato/landcover/config"
	"github.com/YuminosukeSato/landcover/core/model"
	"github.com/YuminosukeSato/landcover/pkg/errors"
	"github.com/YuminosukeSato/landcover/pkg/log"
	"github.com/YuminosukeSato/landcover/qa"
	"github.com/YuminosukeSato/landcover/sampling"
)

// Inputs are the per-pixel data of one batch. QA, Results and every
// covariate in Terrain are indexed by the same pixel position.
type Inputs struct {
	QA      [][]int
	Results []change.Result
	Terrain []Covariate
}

func (in Inputs) pixels(op string) (int, error) {
	n := len(in.Results)
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if len(in.QA) != n {
		return 0, errors.NewDimensionError(op+"[qa]", n, len(in.QA), 0)
	}
	return n, nil
}

// TrainingSet is the sampled training data handed to the classifier.
type TrainingSet struct {
	X *mat.Dense
	Y *mat.VecDense

	// Labels are the recoded labels of the selected rows, parallel to Y.
	Labels []int
	// Pixels holds the source pixel of each row.
	Pixels    []int
	Selection *sampling.Selection
}

// SegmentPrediction is the class probability vector of one change-model segment.
type SegmentPrediction struct {
	Pixel       int
	StartDay    int
	EndDay      int
	ClassValues []int
	ClassProbs  []float64
}

// Pipeline runs the training and inference paths with a fixed configuration and Layout.
type Pipeline struct {
	params config.Params
	layout Layout
	logger log.Logger
	state  *model.StateManager
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// NewPipeline validates params and fixes the layout for the named terrain covariates.
func NewPipeline(params config.Params, terrain []string, opts ...Option) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		params: params,
		layout: NewLayout(params.CCD, terrain...),
		logger: log.Nop(),
		state:  model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(log.ComponentKey, "features")
	return p, nil
}

// Layout returns the column layout shared by training and inference.
func (p *Pipeline) Layout() Layout {
	return p.layout
}

// IsTrained reports whether Train has succeeded.
func (p *Pipeline) IsTrained() bool {
	return p.state.IsFitted()
}

// BuildTrainingSet assembles one row per pixel whose change model covers the
// configured window, recodes the labels of those pixels and keeps a stratified
// sample of the rows. labels is indexed by pixel.
func (p *Pipeline) BuildTrainingSet(in Inputs, labels []int, gen sampling.Generator) (*TrainingSet, error) {
	const op = "features.BuildTrainingSet"
	start := time.Now()
	logger := p.logger.With(log.PhaseKey, log.PhaseTraining)

	n, err := in.pixels(op)
	if err != nil {
		return nil, err
	}
	if len(labels) != n {
		return nil, errors.NewDimensionError(op+"[labels]", n, len(labels), 0)
	}

	probs, err := qa.QualityStats(in.QA, p.params.QA)
	if err != nil {
		logger.Error("QA decoding failed", log.OperationKey, log.OperationQualityStats, log.ErrorCodeKey, log.ErrorUnrecognizedQA, "error", err)
		return nil, err
	}

	ext, err := change.FilterCCD(in.Results, p.params.CCD)
	if err != nil {
		logger.Error("change model extraction failed", log.OperationKey, log.OperationFilterCCD, log.ErrorCodeKey, log.ErrorMissingBand, "error", err)
		return nil, err
	}
	logger.Debug("change models filtered",
		log.OperationKey, log.OperationFilterCCD,
		log.PixelsKey, n,
		log.SegmentsKey, ext.Len(),
		log.CoverageKey, []int{p.params.CCD.BeginDay, p.params.CCD.EndDay},
	)
	if ext.Len() == 0 {
		return nil, errors.Wrapf(errors.ErrEmptySelection, "no pixel covers [%d, %d]", p.params.CCD.BeginDay, p.params.CCD.EndDay)
	}

	X, err := Assemble(ext, in.Terrain, probs, p.layout)
	if err != nil {
		return nil, err
	}

	retained := make([]int, ext.Len())
	for i, px := range ext.Index {
		retained[i] = labels[px]
	}
	retained = sampling.ReclassTarget(retained, p.params.RF.Recode)

	sel, err := sampling.Sample(retained, p.params.RF, gen)
	if err != nil {
		logger.Error("stratified sampling failed", log.OperationKey, log.OperationSample, log.ErrorCodeKey, log.ErrorEmptySelection, "error", err)
		return nil, err
	}

	width := p.layout.Width()
	rows := len(sel.Indices)
	ts := &TrainingSet{
		X:         mat.NewDense(rows, width, nil),
		Y:         mat.NewVecDense(rows, nil),
		Labels:    make([]int, rows),
		Pixels:    make([]int, rows),
		Selection: sel,
	}
	for k, idx := range sel.Indices {
		ts.X.SetRow(k, X.RawRowView(idx))
		ts.Y.SetVec(k, float64(retained[idx]))
		ts.Labels[k] = retained[idx]
		ts.Pixels[k] = ext.Index[idx]
	}

	logger.Info("training set assembled",
		log.OperationKey, log.OperationSample,
		log.SamplesKey, rows,
		log.FeaturesKey, width,
		log.ClassesKey, len(sel.Classes),
		log.ExcludedKey, ext.Len()-countIncluded(retained, p.params.RF),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return ts, nil
}

func countIncluded(labels []int, rf config.RFInfo) int {
	excluded := rf.Excluded()
	n := 0
	for _, l := range labels {
		if _, ok := excluded[l]; !ok {
			n++
		}
	}
	return n
}

// Train fits clf on ts and records the feature width used by Classify.
func (p *Pipeline) Train(clf model.Classifier, ts *TrainingSet) error {
	const op = "features.Train"
	if ts == nil || ts.X == nil {
		return errors.NewValueError(op, "training set is empty")
	}
	rows, cols := ts.X.Dims()
	if cols != p.layout.Width() {
		return errors.NewDimensionError(op, p.layout.Width(), cols, 1)
	}

	start := time.Now()
	if err := clf.Fit(ts.X, ts.Y); err != nil {
		p.logger.Error("classifier fit failed", log.OperationKey, log.OperationFit, "error", err)
		return errors.NewModelError(op, "fit failed", err)
	}
	p.state.SetFitted(cols, rows)

	p.logger.Info("classifier trained",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, len(clf.Classes()),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Classify predicts every change-model segment of every pixel in in, without
// temporal filtering. Predictions follow the order of the results and, within
// a pixel, the order of its segments.
func (p *Pipeline) Classify(clf model.Classifier, in Inputs) ([]SegmentPrediction, error) {
	const op = "features.Classify"
	if err := p.state.RequireFitted("Pipeline", "Classify"); err != nil {
		return nil, err
	}
	logger := p.logger.With(log.PhaseKey, log.PhaseInference)

	n, err := in.pixels(op)
	if err != nil {
		return nil, err
	}
	probs, err := qa.QualityStats(in.QA, p.params.QA)
	if err != nil {
		logger.Error("QA decoding failed", log.OperationKey, log.OperationQualityStats, log.ErrorCodeKey, log.ErrorUnrecognizedQA, "error", err)
		return nil, err
	}
	ext, err := change.UnpackCCD(in.Results, p.params.CCD)
	if err != nil {
		logger.Error("change model extraction failed", log.OperationKey, log.OperationUnpackCCD, log.ErrorCodeKey, log.ErrorMissingBand, "error", err)
		return nil, err
	}
	if ext.Len() == 0 {
		logger.Warn("no change-model segments to classify", log.PixelsKey, n)
		return nil, nil
	}

	X, err := Assemble(ext, in.Terrain, probs, p.layout)
	if err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := p.state.CheckFeatures(op, cols); err != nil {
		logger.Error("feature width differs from training", log.ErrorCodeKey, log.ErrorDimensionMismatch, "error", err)
		return nil, err
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		logger.Error("classifier prediction failed", log.OperationKey, log.OperationPredictProba, "error", err)
		return nil, errors.NewModelError(op, "predict_proba failed", err)
	}
	classes := clf.Classes()
	pr, pc := proba.Dims()
	if pr != rows {
		return nil, errors.NewDimensionError(op+"[predict_proba]", rows, pr, 0)
	}
	if pc != len(classes) {
		return nil, errors.NewDimensionError(op+"[predict_proba]", len(classes), pc, 1)
	}

	preds := make([]SegmentPrediction, rows)
	for i := range preds {
		preds[i] = SegmentPrediction{
			Pixel:       ext.Index[i],
			StartDay:    ext.Spans[i].StartDay,
			EndDay:      ext.Spans[i].EndDay,
			ClassValues: slices.Clone(classes),
			ClassProbs:  mat.Row(nil, i, proba),
		}
	}

	logger.Info("segments classified",
		log.OperationKey, log.OperationPredictProba,
		log.PixelsKey, n,
		log.SegmentsKey, rows,
		log.ClassesKey, len(classes),
	)
	return preds, nil
}
