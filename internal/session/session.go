// Package session owns the lifetime of one catalog view: fetching, normalizing
// and exposing the controller's state to concurrent readers.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/catalog"
	"storefront/internal/commerce"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/normalizer"
)

// Session errors.
var (
	ErrStale  = errors.New("load superseded by a newer request")
	ErrClosed = errors.New("session closed")
)

// State is the lifecycle of the record set.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Options configures a Session.
type Options struct {
	PageSize  int
	MaxPrice  float64
	FetchSize int
}

// Session holds one catalog view. Every Load bumps a generation counter and
// cancels the previous fetch; results of older generations are discarded.
type Session struct {
	ID uuid.UUID

	fetcher   commerce.Fetcher
	processor *normalizer.Processor
	logger    *logger.Logger
	fetchSize int

	mu         sync.Mutex
	ctrl       *catalog.Controller
	state      State
	err        error
	category   string
	report     normalizer.Report
	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// New creates an idle session.
func New(fetcher commerce.Fetcher, processor *normalizer.Processor, opts Options, log *logger.Logger) *Session {
	if log == nil {
		log = logger.NewNop()
	}

	if processor == nil {
		processor = normalizer.NewProcessor()
	}

	if opts.FetchSize <= 0 {
		opts.FetchSize = 50
	}

	id := uuid.New()

	return &Session{
		ID:        id,
		fetcher:   fetcher,
		processor: processor,
		logger:    log.With("session", id.String()),
		fetchSize: opts.FetchSize,
		ctrl:      catalog.NewController(opts.PageSize, opts.MaxPrice),
		state:     StateIdle,
	}
}

// Load fetches the category and installs its records. While loading the view is
// empty. A Load superseded by a later one returns ErrStale and changes nothing.
func (s *Session) Load(ctx context.Context, category string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.generation++
	gen := s.generation

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if category != s.category {
		s.ctrl.SetPage(1)
	}

	s.category = category
	s.state = StateLoading
	s.err = nil
	s.ctrl.SetRecords(nil)
	s.mu.Unlock()

	defer cancel()

	s.logger.Debug("loading category", "category", category, "generation", gen)

	raws, err := s.fetcher.FetchCategoryProducts(ctx, category, s.fetchSize)

	var batch *normalizer.Batch
	if err == nil {
		batch = s.processor.Process(raws)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.closed {
		s.logger.Debug("discarding stale load", "category", category, "generation", gen)
		return ErrStale
	}

	s.cancel = nil

	if err != nil {
		s.state = StateFailed
		s.err = err
		s.logger.Error("failed to load category", "category", category, "error", err)

		return fmt.Errorf("failed to load %s: %w", category, err)
	}

	s.ctrl.SetRecords(batch.Records)
	s.report = batch.Report
	s.state = StateReady

	s.logger.Info("category loaded",
		"category", category,
		"records", batch.Report.Kept,
		"dropped", batch.Report.Dropped,
		"defaulted", batch.Report.Defaulted)

	return nil
}

// Apply replaces filters, sort and page with the query's and returns the new view.
func (s *Session) Apply(q catalog.Query) catalog.View {
	return s.Update(func(c *catalog.Controller) { c.Apply(q) })
}

// Update runs fn against the controller under the session lock and returns the new view.
func (s *Session) Update(fn func(*catalog.Controller)) catalog.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.ctrl)

	return s.ctrl.View()
}

// View returns the current listing.
func (s *Session) View() catalog.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctrl.View()
}

// Records returns the full normalized record set.
func (s *Session) Records() []models.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctrl.Records()
}

// State returns the lifecycle state and, when failed, the fetch error.
func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state, s.err
}

// Category returns the category of the latest Load.
func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.category
}

// Report returns the normalization counts of the installed record set.
func (s *Session) Report() normalizer.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.report
}

// Close cancels any in-flight load. Later Loads return ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.closed = true
}
