// Package config holds the typed processing parameters for the QA decoder,
// the change-model extractor and the stratified sampler. Each section is
// validated once when it is loaded and then passed explicitly to the
// component that needs it.
package config

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// maxBitOffset keeps 1<<offset inside a non-negative int64 word.
const maxBitOffset = 62

// QAInfo maps each QA category to its bit offset in the packed quality word.
// NaN is the sentinel written to cells no category matched.
type QAInfo struct {
	Fill   int `yaml:"fill"`
	Clear  int `yaml:"clear"`
	Water  int `yaml:"water"`
	Shadow int `yaml:"shadow"`
	Snow   int `yaml:"snow"`
	Cloud  int `yaml:"cloud"`
	NaN    int `yaml:"nan"`
}

// Hierarchy returns the category offsets from lowest to highest precedence:
// clear < water < snow < shadow < cloud < fill.
func (q QAInfo) Hierarchy() []int {
	return []int{q.Clear, q.Water, q.Snow, q.Shadow, q.Cloud, q.Fill}
}

// Validate checks that offsets are distinct single-bit positions and that NaN collides with none of them.
func (q QAInfo) Validate() error {
	named := []struct {
		name   string
		offset int
	}{
		{"qa.clear", q.Clear},
		{"qa.water", q.Water},
		{"qa.snow", q.Snow},
		{"qa.shadow", q.Shadow},
		{"qa.cloud", q.Cloud},
		{"qa.fill", q.Fill},
	}
	seen := make(map[int]string, len(named))
	for _, n := range named {
		if n.offset < 0 || n.offset > maxBitOffset {
			return errors.NewValidationError(n.name, fmt.Sprintf("bit offset must be in [0, %d]", maxBitOffset), n.offset)
		}
		if other, dup := seen[n.offset]; dup {
			return errors.NewValidationError(n.name, "bit offset already used by "+other, n.offset)
		}
		seen[n.offset] = n.name
	}
	if other, dup := seen[q.NaN]; dup {
		return errors.NewValidationError("qa.nan", "sentinel collides with "+other, q.NaN)
	}
	return nil
}

// Bands maps an ordering key to a band name.
type Bands map[int]string

// Sorted returns band names ordered by their integer key.
// This order fixes the column layout of every coefficient and RMSE vector.
func (b Bands) Sorted() []string {
	keys := make([]int, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = b[k]
	}
	return names
}

// CCDInfo describes the change-detection output and the required coverage window.
type CCDInfo struct {
	BeginDay  int   `yaml:"begin_day"`
	EndDay    int   `yaml:"end_day"`
	Bands     Bands `yaml:"bands"`
	CoefCount int   `yaml:"coef_count"` // per band, including the intercept
}

// Validate checks the coverage window, the band ordering and the coefficient count.
func (c CCDInfo) Validate() error {
	if c.BeginDay > c.EndDay {
		return errors.NewValidationError("ccd.begin_day", "must not be after ccd.end_day", c.BeginDay)
	}
	if c.CoefCount < 1 {
		return errors.NewValidationError("ccd.coef_count", "must include at least the intercept", c.CoefCount)
	}
	if len(c.Bands) == 0 {
		return errors.NewValidationError("ccd.bands", "at least one band is required", c.Bands)
	}
	seen := make(map[string]int, len(c.Bands))
	for k, name := range c.Bands {
		if name == "" {
			return errors.NewValidationError("ccd.bands", fmt.Sprintf("band %d has no name", k), c.Bands)
		}
		if other, dup := seen[name]; dup {
			return errors.NewValidationError("ccd.bands", fmt.Sprintf("band %q listed under keys %d and %d", name, other, k), c.Bands)
		}
		seen[name] = k
	}
	return nil
}

// RFInfo holds the training-set sampling parameters and the classifier size.
type RFInfo struct {
	TargetSamples int         `yaml:"target_samples"`
	ClassMin      int         `yaml:"class_min"`
	ClassMax      int         `yaml:"class_max"`
	TrainExclude  []int       `yaml:"train_exclude"`
	Estimators    int         `yaml:"estimators"`
	Recode        map[int]int `yaml:"recode"` // applied to labels before sampling
	Seed          uint64      `yaml:"seed"`
}

// Validate checks the quota bounds and sizes.
func (r RFInfo) Validate() error {
	if r.TargetSamples <= 0 {
		return errors.NewValidationError("rf.target_samples", "must be positive", r.TargetSamples)
	}
	if r.ClassMin < 0 {
		return errors.NewValidationError("rf.class_min", "must not be negative", r.ClassMin)
	}
	if r.ClassMax < r.ClassMin {
		return errors.NewValidationError("rf.class_max", "must be >= rf.class_min", r.ClassMax)
	}
	if r.Estimators <= 0 {
		return errors.NewValidationError("rf.estimators", "must be positive", r.Estimators)
	}
	return nil
}

// Excluded returns TrainExclude as a set.
func (r RFInfo) Excluded() map[int]struct{} {
	set := make(map[int]struct{}, len(r.TrainExclude))
	for _, c := range r.TrainExclude {
		set[c] = struct{}{}
	}
	return set
}

// Params groups every section consumed by the pipeline.
type Params struct {
	QA       QAInfo
	CCD      CCDInfo
	RF       RFInfo
	LogLevel string
}

// Validate validates every section.
func (p Params) Validate() error {
	if err := p.QA.Validate(); err != nil {
		return err
	}
	if err := p.CCD.Validate(); err != nil {
		return err
	}
	return p.RF.Validate()
}
