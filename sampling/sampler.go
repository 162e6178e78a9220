// Package sampling selects class-balanced training rows from a label vector.
package sampling

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/landcover/config"
	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// Selection is the outcome of Sample. Indices are grouped by class in ascending
// class order; Classes, Quotas and Counts are parallel per-class slices.
type Selection struct {
	Indices []int
	Classes []int
	Quotas  []int
	Counts  []int
}

// ClassStats returns the distinct labels in ascending order and the fraction of
// rows carrying each one. Rows with exclude[i] set are left out of both; a nil
// exclude keeps every row.
func ClassStats(labels []int, exclude []bool) ([]int, []float64) {
	counts := make(map[int]int)
	total := 0
	for i, l := range labels {
		if exclude != nil && exclude[i] {
			continue
		}
		counts[l]++
		total++
	}

	classes := make([]int, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	proportions := make([]float64, len(classes))
	if total == 0 {
		return classes, proportions
	}
	for i, c := range classes {
		proportions[i] = float64(counts[c]) / float64(total)
	}
	return classes, proportions
}

// Sample draws a stratified subset of row indices. Each class not listed in
// rf.TrainExclude gets a quota of ceil(rf.TargetSamples * proportion) clamped
// into [rf.ClassMin, rf.ClassMax]; its rows are permuted with gen and the first
// quota of them kept. A class with fewer rows than its quota contributes all of
// them and an UndersampledClassWarning is emitted.
func Sample(labels []int, rf config.RFInfo, gen Generator) (*Selection, error) {
	excluded := rf.Excluded()
	mask := make([]bool, len(labels))
	byClass := make(map[int][]int)
	for i, l := range labels {
		if _, ok := excluded[l]; ok {
			mask[i] = true
			continue
		}
		byClass[l] = append(byClass[l], i)
	}

	classes, proportions := ClassStats(labels, mask)
	sel := &Selection{
		Classes: classes,
		Quotas:  make([]int, len(classes)),
		Counts:  make([]int, len(classes)),
	}

	for i, class := range classes {
		quota := clamp(int(math.Ceil(float64(rf.TargetSamples)*proportions[i])), rf.ClassMin, rf.ClassMax)
		sel.Quotas[i] = quota

		rows := byClass[class]
		take := quota
		if take > len(rows) {
			errors.Warn(errors.NewUndersampledClassWarning(class, quota, len(rows)))
			take = len(rows)
		}
		if take == 0 {
			continue
		}

		sel.Indices = append(sel.Indices, gen.Permute(rows)[:take]...)
		sel.Counts[i] = take
	}

	if len(sel.Indices) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptySelection, "%d labels, %d classes after exclusion", len(labels), len(classes))
	}
	return sel, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
