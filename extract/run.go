package extract

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/mmuldo/kaleidoscope/match"
	"github.com/mmuldo/kaleidoscope/store"
)

// Step is a stage of a Generate run.
type Step int

// Steps run in this order; StepFailed is terminal.
const (
	StepStart Step = iota
	StepValidateConfig
	StepClearPriorResults
	StepFetchHistogram
	StepAggregate
	StepPersist
	StepDone
	StepFailed
)

var stepNames = [...]string{
	StepStart:             "start",
	StepValidateConfig:    "validate config",
	StepClearPriorResults: "clear prior results",
	StepFetchHistogram:    "fetch histogram",
	StepAggregate:         "aggregate",
	StepPersist:           "persist",
	StepDone:              "done",
	StepFailed:            "failed",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// run holds the state of one Generate call.
type run struct {
	p       *Pipeline
	owner   Owner
	locator string
	logger  hclog.Logger

	step   Step
	store  store.Store
	obs    []match.Observation
	result match.Result
}

func (r *run) exec(ctx context.Context) (match.Result, error) {
	steps := []struct {
		step Step
		fn   func(context.Context) error
	}{
		{StepValidateConfig, r.validate},
		{StepClearPriorResults, r.clear},
		{StepFetchHistogram, r.fetch},
		{StepAggregate, r.aggregate},
		{StepPersist, r.persist},
	}

	r.logger.Info("generating colors", "image", r.locator)
	for _, s := range steps {
		r.step = s.step
		if e := ctx.Err(); e != nil {
			return nil, r.fail(e)
		}
		if e := s.fn(ctx); e != nil {
			if s.step == StepPersist {
				r.discard(ctx)
			}
			return nil, r.fail(e)
		}
	}

	r.step = StepDone
	r.logger.Info("generated colors", "records", len(r.result))
	return r.result, nil
}

// discard removes rows a failed persist step already wrote, so the owner
// is left with no rows rather than a partial set.
func (r *run) discard(ctx context.Context) {
	if e := r.store.DeleteAll(context.WithoutCancel(ctx), r.owner.ID); e != nil {
		r.logger.Error("removing partial colors failed", "error", e)
	}
}

func (r *run) fail(e error) error {
	se := &StepError{Owner: r.owner, Step: r.step, Err: e}
	r.step = StepFailed
	if se.Step == StepValidateConfig && errors.Is(e, ErrNoColorsConfigured) {
		r.logger.Error("no colors configured", "error", e)
	} else {
		r.logger.Error("generating colors failed", "step", se.Step.String(), "error", e)
	}
	return se
}

func (r *run) validate(context.Context) error {
	if r.p.settings.Palette.Len() == 0 {
		return ErrNoColorsConfigured
	}
	s, e := r.p.stores.Lookup(r.owner.Kind)
	if e != nil {
		return e
	}
	r.store = s
	return nil
}

func (r *run) clear(ctx context.Context) error {
	r.logger.Info("deleting colors")
	return r.store.DeleteAll(ctx, r.owner.ID)
}

func (r *run) fetch(ctx context.Context) error {
	obs, e := r.p.images.Histogram(ctx, r.locator, r.p.settings.NumberOfColors, r.p.settings.Method)
	if e != nil {
		return e
	}
	r.logger.Debug("fetched histogram", "colors", len(obs))
	r.obs = obs
	return nil
}

func (r *run) aggregate(ctx context.Context) error {
	res, e := r.p.agg.Process(ctx, r.obs, r.p.settings.Palette)
	if e != nil {
		return e
	}
	r.result = res
	return nil
}

func (r *run) persist(ctx context.Context) error {
	for _, rec := range r.result {
		row := store.Row{
			OriginalColor:  rec.OriginalHex(),
			ReferenceColor: rec.MatchedHex(),
			Frequency:      rec.Frequency,
			Distance:       rec.Distance,
		}
		if e := r.store.Create(ctx, r.owner.ID, row); e != nil {
			return e
		}
	}
	return nil
}
