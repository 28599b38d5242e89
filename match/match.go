// Package match turns an image's color histogram into percentage-weighted
// matches against a reference palette.
package match

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/mmuldo/kaleidoscope/palette"
)

// parallelThreshold is the smallest histogram worth fanning out.
const parallelThreshold = 64

// ErrNegativeCount is returned for an observation with a count below zero.
var ErrNegativeCount = errors.New("negative occurrence count")

// Observation is one quantized color and the number of pixels it covers.
type Observation struct {
	Color palette.Color
	Count int
}

// Record is the final report for one observed color.
type Record struct {
	Original  palette.Color
	Matched   palette.Color
	Distance  float64
	Frequency float64 // percent of all counted pixels, one decimal
}

// OriginalHex returns the canonical hex of the observed color.
func (r Record) OriginalHex() string { return palette.SanitizeHex(r.Original.Hex()) }

// MatchedHex returns the canonical hex of the matched palette color.
func (r Record) MatchedHex() string { return palette.SanitizeHex(r.Matched.Hex()) }

// Result is ordered by descending occurrence count.
type Result []Record

type countedRecord struct {
	Record
	count int
}

type byCount []countedRecord

func (crs byCount) Len() int           { return len(crs) }
func (crs byCount) Less(i, j int) bool { return crs[i].count > crs[j].count }
func (crs byCount) Swap(i, j int)      { crs[i], crs[j] = crs[j], crs[i] }

// Aggregator matches observations against a palette. Workers above one
// spreads matching over goroutines for large histograms; results do not
// depend on it.
type Aggregator struct {
	Workers int
}

// Process runs the default, single-worker Aggregator.
func Process(obs []Observation, p *palette.Palette) (Result, error) {
	return (&Aggregator{}).Process(context.Background(), obs, p)
}

// Process matches every observation, orders them by count (input order on
// ties) and converts counts to percentages. Nothing is returned on error.
func (a *Aggregator) Process(ctx context.Context, obs []Observation, p *palette.Palette) (Result, error) {
	if p.Len() == 0 {
		return nil, palette.ErrEmptyPalette
	}
	if len(obs) == 0 {
		return Result{}, nil
	}
	for i, o := range obs {
		if o.Count < 0 {
			return nil, fmt.Errorf("observation %d (%s): %w", i, o.Color, ErrNegativeCount)
		}
	}
	if e := ctx.Err(); e != nil {
		return nil, e
	}

	crs, e := a.matchAll(obs, p)
	if e != nil {
		return nil, e
	}
	if e := ctx.Err(); e != nil {
		return nil, e
	}

	sort.Stable(byCount(crs))

	total := 0.0 // float so the division below does not truncate
	for _, cr := range crs {
		total += float64(cr.count)
	}
	if total == 0 {
		return Result{}, nil
	}

	res := make(Result, len(crs))
	for i, cr := range crs {
		cr.Frequency = percentage(cr.count, total)
		res[i] = cr.Record
	}
	return res, nil
}

func (a *Aggregator) matchAll(obs []Observation, p *palette.Palette) ([]countedRecord, error) {
	crs := make([]countedRecord, len(obs))

	workers := a.Workers
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	if workers <= 1 || len(obs) < parallelThreshold {
		for i, o := range obs {
			cr, e := matchOne(o, p)
			if e != nil {
				return nil, e
			}
			crs[i] = cr
		}
		return crs, nil
	}

	// each worker owns a contiguous slice of indexes, so input order survives
	var wg sync.WaitGroup
	errs := make([]error, workers)
	chunk := (len(obs) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > len(obs) {
			hi = len(obs)
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				cr, e := matchOne(obs[i], p)
				if e != nil {
					errs[w] = e
					return
				}
				crs[i] = cr
			}
		}(w, lo, hi)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return crs, nil
}

func matchOne(o Observation, p *palette.Palette) (countedRecord, error) {
	m, e := p.FindClosestTo(o.Color)
	if e != nil {
		return countedRecord{}, e
	}
	return countedRecord{
		Record: Record{
			Original: o.Color,
			Matched:  m,
			Distance: o.Color.DistanceFrom(m),
		},
		count: o.Count,
	}, nil
}

// percentage rounds half away from zero to one decimal place.
func percentage(count int, total float64) float64 {
	return math.Round(float64(count)/total*100.0*10) / 10
}
