package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cv-site/internal/model"
	"cv-site/internal/parser"
	"cv-site/internal/render"

	"go.uber.org/zap"
)

// ErrNotLoaded is reported before the first Load completes.
var ErrNotLoaded = errors.New("cv not loaded")

// Source yields the raw CV XML.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// State is one immutable load result. Exactly one of CV and Err is set.
type State struct {
	CV       *model.CV
	Sections []render.SectionConfig
	// Warnings are schema violations that did not stop the load.
	Warnings []string
	Err      error
	LoadedAt time.Time
}

// CVService runs fetch, parse, validate and plan, and publishes the result
// for concurrent readers.
type CVService struct {
	source Source
	parser *parser.Parser
	logger *zap.Logger

	loadMu sync.Mutex
	state  atomic.Pointer[State]
}

func NewCVService(source Source, p *parser.Parser, logger *zap.Logger) *CVService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if p == nil {
		p = parser.New(logger)
	}
	return &CVService{source: source, parser: p, logger: logger}
}

// Load replaces the held state. On failure the previous CV is dropped and
// the error is kept until the next successful load.
func (s *CVService) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	st, err := s.build(ctx)
	if err != nil {
		s.state.Store(&State{Err: err, LoadedAt: time.Now()})
		s.logger.Error("cv load failed", zap.Error(err))
		return err
	}
	s.state.Store(st)
	s.logger.Info("cv loaded",
		zap.String("name", st.CV.PersonalInfo.Name),
		zap.Int("sections", len(st.Sections)),
		zap.Int("warnings", len(st.Warnings)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Reload is a full Load.
func (s *CVService) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *CVService) build(ctx context.Context) (*State, error) {
	data, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cv: %w", err)
	}
	cv, err := s.parser.Parse(data)
	if err != nil {
		return nil, err
	}

	st := &State{CV: cv, Sections: render.Sections(cv), LoadedAt: time.Now()}
	if err := model.Validate(cv); err != nil {
		var se *model.SchemaError
		if !errors.As(err, &se) {
			return nil, fmt.Errorf("validate cv: %w", err)
		}
		st.Warnings = se.Problems
		for _, p := range se.Problems {
			s.logger.Warn("cv schema warning", zap.String("problem", p))
		}
	}
	return st, nil
}

// Current returns the latest state, never nil.
func (s *CVService) Current() *State {
	if st := s.state.Load(); st != nil {
		return st
	}
	return &State{Err: ErrNotLoaded}
}

func (s *CVService) CV() (*model.CV, error) {
	st := s.Current()
	return st.CV, st.Err
}

func (s *CVService) Sections() ([]render.SectionConfig, error) {
	st := s.Current()
	return st.Sections, st.Err
}

func (s *CVService) PersonalInfoFields() ([]render.FieldConfig, error) {
	st := s.Current()
	if st.Err != nil {
		return nil, st.Err
	}
	return render.PersonalInfoFields(st.CV.PersonalInfo), nil
}

// SectionFields returns the bound fields of every record in a section.
func (s *CVService) SectionFields(key render.SectionKey) ([][]render.Field, error) {
	st := s.Current()
	if st.Err != nil {
		return nil, st.Err
	}
	return render.SectionFields(st.CV, key), nil
}
