// Package extract runs a color extraction for one owning entity: it clears
// the owner's previous results, reduces an image to a color histogram,
// matches it against the palette and stores the new records.
package extract

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/mmuldo/kaleidoscope/image"
	"github.com/mmuldo/kaleidoscope/match"
	"github.com/mmuldo/kaleidoscope/palette"
	"github.com/mmuldo/kaleidoscope/store"
)

// ErrNoColorsConfigured is returned when a run starts without a palette.
var ErrNoColorsConfigured = errors.New("no colors are configured")

// Histogrammer reports the quantized colors of an image and their pixel counts.
type Histogrammer interface {
	Histogram(ctx context.Context, locator string, num int, m image.Method) ([]match.Observation, error)
}

// Owner identifies the entity results belong to. Kind selects the store.
type Owner struct {
	Kind string
	ID   string
}

func (o Owner) String() string { return o.Kind + "/" + o.ID }

// Settings is the part of the configuration a pipeline needs.
type Settings struct {
	Palette        *palette.Palette
	NumberOfColors int
	Method         image.Method
	Workers        int
}

// Pipeline generates and destroys color records. It is safe for concurrent
// use; runs for the same owner are serialized.
type Pipeline struct {
	settings Settings
	images   Histogrammer
	stores   *store.Registry
	agg      *match.Aggregator
	logger   hclog.Logger

	mu    sync.Mutex
	locks map[Owner]*ownerLock
}

// ownerLock is dropped from Pipeline.locks once nobody holds or waits on it.
type ownerLock struct {
	sync.Mutex
	refs int
}

// New creates a Pipeline. A nil logger discards output.
func New(s Settings, images Histogrammer, stores *store.Registry, logger hclog.Logger) *Pipeline {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Pipeline{
		settings: s,
		images:   images,
		stores:   stores,
		agg:      &match.Aggregator{Workers: s.Workers},
		logger:   logger,
		locks:    make(map[Owner]*ownerLock),
	}
}

func (p *Pipeline) lock(o Owner) func() {
	p.mu.Lock()
	l, ok := p.locks[o]
	if !ok {
		l = &ownerLock{}
		p.locks[o] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, o)
		}
		p.mu.Unlock()
	}
}

// Generate replaces the stored color records of owner with those computed
// from the image at locator and returns them.
//
// A missing palette fails before anything is touched. Any later failure
// leaves the owner with no records, since prior records are cleared first.
func (p *Pipeline) Generate(ctx context.Context, owner Owner, locator string) (match.Result, error) {
	// unknown kinds fail validation without touching a store, so they need no lock
	if _, e := p.stores.Lookup(owner.Kind); e == nil {
		defer p.lock(owner)()
	}

	r := &run{p: p, owner: owner, locator: locator, logger: p.logger.With("kind", owner.Kind, "owner", owner.ID)}
	return r.exec(ctx)
}

// Destroy removes every stored color record of owner.
func (p *Pipeline) Destroy(ctx context.Context, owner Owner) error {
	logger := p.logger.With("kind", owner.Kind, "owner", owner.ID)
	s, e := p.stores.Lookup(owner.Kind)
	if e != nil {
		logger.Error("deleting colors failed", "error", e)
		return &StepError{Owner: owner, Step: StepClearPriorResults, Err: e}
	}
	defer p.lock(owner)()

	logger.Info("deleting colors")
	if e := s.DeleteAll(ctx, owner.ID); e != nil {
		logger.Error("deleting colors failed", "error", e)
		return &StepError{Owner: owner, Step: StepClearPriorResults, Err: e}
	}
	return nil
}

// Records returns the stored rows of owner.
func (p *Pipeline) Records(ctx context.Context, owner Owner) ([]store.Row, error) {
	s, e := p.stores.Lookup(owner.Kind)
	if e != nil {
		return nil, e
	}
	return s.List(ctx, owner.ID)
}

// StepError wraps a failure with the run step it happened in.
type StepError struct {
	Owner Owner
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Owner, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
