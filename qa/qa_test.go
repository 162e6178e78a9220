package qa

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/landcover/config"
	"github.com/YuminosukeSato/landcover/pkg/errors"
)

func ardInfo() config.QAInfo {
	return config.Default().QA
}

func TestDecode_SingleBitRoundTrip(t *testing.T) {
	info := ardInfo()

	for _, offset := range info.Hierarchy() {
		word := 1 << offset
		got, err := Decode([][]int{{word}}, info)
		if err != nil {
			t.Fatalf("Decode(%d) returned error: %v", word, err)
		}
		if got[0][0] != offset {
			t.Errorf("Decode(%d) = %d, want %d", word, got[0][0], offset)
		}
	}
}

func TestDecode_Hierarchy(t *testing.T) {
	info := ardInfo()
	bit := func(offsets ...int) int {
		w := 0
		for _, o := range offsets {
			w |= 1 << o
		}
		return w
	}

	tests := []struct {
		name string
		word int
		want int
	}{
		{"cloud over clear", bit(info.Cloud, info.Clear), info.Cloud},
		{"fill over cloud", bit(info.Fill, info.Cloud), info.Fill},
		{"shadow over snow", bit(info.Shadow, info.Snow), info.Shadow},
		{"snow over water", bit(info.Snow, info.Water), info.Snow},
		{"water over clear", bit(info.Water, info.Clear), info.Water},
		{"fill over all", bit(info.Hierarchy()...), info.Fill},
		{"unrelated high bits ignored", bit(info.Clear, 9, 10), info.Clear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([][]int{{tt.word}}, info)
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if got[0][0] != tt.want {
				t.Errorf("Decode(%d) = %d, want %d", tt.word, got[0][0], tt.want)
			}
		})
	}
}

func TestDecode_UnrecognizedValue(t *testing.T) {
	info := ardInfo()

	_, err := Decode([][]int{
		{2, 64, 2},
		{128, 64, 32},
	}, info)
	if err == nil {
		t.Fatal("Expected error for words without hierarchy bits")
	}

	var qaErr *errors.UnrecognizedQAValueError
	if !errors.As(err, &qaErr) {
		t.Fatalf("Expected UnrecognizedQAValueError, got %T", err)
	}
	if len(qaErr.Values) != 2 || qaErr.Values[0] != 64 || qaErr.Values[1] != 128 {
		t.Errorf("Values = %v, want [64 128]", qaErr.Values)
	}
}

func TestDecode_NoBitsSet(t *testing.T) {
	_, err := Decode([][]int{{0}}, ardInfo())

	var qaErr *errors.UnrecognizedQAValueError
	if !errors.As(err, &qaErr) {
		t.Fatalf("Expected UnrecognizedQAValueError, got %v", err)
	}
	if len(qaErr.Values) != 1 || qaErr.Values[0] != 0 {
		t.Errorf("Values = %v, want [0]", qaErr.Values)
	}
}

func TestQualityStats(t *testing.T) {
	info := ardInfo()

	qa := [][]int{
		{32, 32, 32, 32},
		{32, 32, 1, 1},
		{16, 16, 16, 16},
		{4, 4, 4, 4},
		{2, 32, 32, 2},
		{2, 4, 16, 32},
		{2, 2, 2, 2},
	}

	wantCloud := []float64{1, 1, 0, 0, .50, .25, 0}
	wantSnow := []float64{0, 0, 4 / 4.01, 0, 0, 1 / 3.01, 0}
	wantWater := []float64{0, 0, 0, 4 / 4.01, 0, 1 / 2.01, 0}

	probs, err := QualityStats(qa, info)
	if err != nil {
		t.Fatalf("QualityStats returned error: %v", err)
	}
	if probs.Len() != len(qa) {
		t.Fatalf("Len() = %d, want %d", probs.Len(), len(qa))
	}

	for i := range qa {
		cloud, snow, water := probs.At(i)
		if math.Abs(cloud-wantCloud[i]) > 1e-12 {
			t.Errorf("row %d: cloud = %v, want %v", i, cloud, wantCloud[i])
		}
		if math.Abs(snow-wantSnow[i]) > 1e-12 {
			t.Errorf("row %d: snow = %v, want %v", i, snow, wantSnow[i])
		}
		if math.Abs(water-wantWater[i]) > 1e-12 {
			t.Errorf("row %d: water = %v, want %v", i, water, wantWater[i])
		}
	}
}

func TestQualityStats_AllFillRow(t *testing.T) {
	probs, err := QualityStats([][]int{{1, 1, 1}}, ardInfo())
	if err != nil {
		t.Fatalf("QualityStats returned error: %v", err)
	}

	cloud, snow, water := probs.At(0)
	if cloud != 0 || snow != 0 || water != 0 {
		t.Errorf("all-fill row = (%v, %v, %v), want zeros", cloud, snow, water)
	}
	if math.IsNaN(cloud) {
		t.Error("cloud probability must not be NaN")
	}
}

func TestQualityStats_Errors(t *testing.T) {
	if _, err := QualityStats(nil, ardInfo()); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("Expected ErrEmptyData, got %v", err)
	}
	if _, err := QualityStats([][]int{{2, 0}}, ardInfo()); err == nil {
		t.Error("Expected decode error to propagate")
	}
}

func TestQualityStats_ParallelMatchesSequential(t *testing.T) {
	info := ardInfo()
	words := []int{2, 4, 16, 32, 1, 8}

	rows := parallelThreshold + 17
	qa := make([][]int, rows)
	for i := range qa {
		qa[i] = []int{words[i%6], words[(i+1)%6], words[(i*7)%6], 2}
	}

	probs, err := QualityStats(qa, info)
	if err != nil {
		t.Fatalf("QualityStats returned error: %v", err)
	}
	for _, i := range []int{0, 5, rows / 2, rows - 1} {
		single, err := QualityStats(qa[i:i+1], info)
		if err != nil {
			t.Fatalf("QualityStats returned error: %v", err)
		}
		c1, s1, w1 := probs.At(i)
		c2, s2, w2 := single.At(0)
		if c1 != c2 || s1 != s2 || w1 != w2 {
			t.Errorf("row %d differs between batch and single-row call", i)
		}
	}
}
