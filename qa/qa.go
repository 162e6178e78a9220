// Package qa decodes bit-packed per-observation quality words into thematic
// categories and summarizes them into per-sample cloud, snow and water probabilities.
package qa

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/landcover/config"
	"github.com/YuminosukeSato/landcover/core/parallel"
	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// smoothing keeps the snow and water ratios defined for rows without clear or water observations.
const smoothing = 0.01

// parallelThreshold is the row count above which rows are processed concurrently.
const parallelThreshold = 4096

// Decode resolves each packed word in quality to the offset of a single category.
//
// Categories are applied in the order clear, water, snow, shadow, cloud, fill; a later
// category overwrites an earlier one when both bits are set, so fill wins over everything
// and cloud wins over shadow, snow, water and clear.
//
// A cell that matches no category fails the whole call with *errors.UnrecognizedQAValueError
// listing the distinct raw words.
func Decode(quality [][]int, info config.QAInfo) ([][]int, error) {
	out := make([][]int, len(quality))
	unknown := make([][]int, len(quality))
	hierarchy := info.Hierarchy()

	parallel.ParallelizeWithThreshold(len(quality), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i], unknown[i] = decodeRow(quality[i], hierarchy, info.NaN)
		}
	})

	var bad []int
	for _, u := range unknown {
		bad = append(bad, u...)
	}
	if len(bad) > 0 {
		return nil, errors.NewUnrecognizedQAValueError(bad)
	}
	return out, nil
}

func decodeRow(row []int, hierarchy []int, nan int) (decoded []int, unknown []int) {
	decoded = make([]int, len(row))
	for j, word := range row {
		decoded[j] = nan
		for _, offset := range hierarchy {
			if word&(1<<offset) != 0 {
				decoded[j] = offset
			}
		}
		if decoded[j] == nan {
			unknown = append(unknown, word)
		}
	}
	return decoded, unknown
}

// Probabilities holds one value per sample row for each QA summary.
type Probabilities struct {
	Cloud *mat.VecDense
	Snow  *mat.VecDense
	Water *mat.VecDense
}

// Len returns the number of samples.
func (p *Probabilities) Len() int {
	return p.Cloud.Len()
}

// At returns the cloud, snow and water probability of sample i.
func (p *Probabilities) At(i int) (cloud, snow, water float64) {
	return p.Cloud.AtVec(i), p.Snow.AtVec(i), p.Water.AtVec(i)
}

// QualityStats decodes quality and computes, per row:
//
//	cloud = n(cloud) / n(not fill)
//	snow  = n(snow)  / (n(clear or water) + n(snow) + 0.01)
//	water = n(water) / (n(clear or water) + 0.01)
//
// A row made only of fill has no observations; its cloud probability is 0.
func QualityStats(quality [][]int, info config.QAInfo) (*Probabilities, error) {
	if len(quality) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "qa.QualityStats")
	}
	decoded, err := Decode(quality, info)
	if err != nil {
		return nil, err
	}

	n := len(decoded)
	cloud := make([]float64, n)
	snow := make([]float64, n)
	water := make([]float64, n)

	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			var total, clearWater, cloudN, snowN, waterN float64
			for _, c := range decoded[i] {
				if c != info.Fill {
					total++
				}
				switch c {
				case info.Clear:
					clearWater++
				case info.Water:
					clearWater++
					waterN++
				case info.Cloud:
					cloudN++
				case info.Snow:
					snowN++
				}
			}
			cloud[i] = errors.SafeDivide(cloudN, total)
			snow[i] = snowN / (clearWater + snowN + smoothing)
			water[i] = waterN / (clearWater + smoothing)
		}
	})

	return &Probabilities{
		Cloud: mat.NewVecDense(n, cloud),
		Snow:  mat.NewVecDense(n, snow),
		Water: mat.NewVecDense(n, water),
	}, nil
}
