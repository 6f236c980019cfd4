package geography

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Service loads both candidates' datasets and builds the comparison table.
type Service struct {
	cfgMu sync.RWMutex
	cfg   Config

	logger *log.Logger
}

// NewService constructs a service with the given configuration. logger may be nil.
func NewService(cfg Config, logger *log.Logger) (*Service, error) {
	cfg.ApplyDefaults()
	if err := validateLabels(cfg.CandidateA.Label, cfg.CandidateB.Label); err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, logger: logger}, nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration.
func (s *Service) UpdateConfig(cfg Config) error {
	cfg.ApplyDefaults()
	if err := validateLabels(cfg.CandidateA.Label, cfg.CandidateB.Label); err != nil {
		return err
	}
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
	return nil
}

// CompareFiles loads the datasets configured for both candidates and compares them.
func (s *Service) CompareFiles(ctx context.Context) (Table, error) {
	cfg := s.Config()
	if strings.TrimSpace(cfg.CandidateA.Path) == "" || strings.TrimSpace(cfg.CandidateB.Path) == "" {
		return Table{}, errors.New("both candidate input files are required")
	}
	datasets, err := s.loadBoth(ctx, cfg)
	if err != nil {
		return Table{}, err
	}
	return s.CompareDatasets(datasets[0], datasets[1])
}

// CompareDatasets counts locations in both datasets and joins the results.
func (s *Service) CompareDatasets(a, b *Dataset) (Table, error) {
	cfg := s.Config()
	distA, err := s.count(cfg, cfg.CandidateA.Label, a)
	if err != nil {
		return Table{}, err
	}
	distB, err := s.count(cfg, cfg.CandidateB.Label, b)
	if err != nil {
		return Table{}, err
	}
	table := CompareWithLabels(cfg.CandidateA.Label, cfg.CandidateB.Label, distA, distB)
	s.logf("Compared %d locations", len(table.Rows))
	return table, nil
}

func (s *Service) loadBoth(ctx context.Context, cfg Config) ([2]*Dataset, error) {
	var out [2]*Dataset
	candidates := [2]CandidateConfig{cfg.CandidateA, cfg.CandidateB}
	opts := cfg.LoadOptions()
	load := func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := candidates[i]
		ds, stats, err := LoadDataset(c.Path, opts)
		if err != nil {
			return fmt.Errorf("load %s: %w", c.Label, err)
		}
		s.logf("Loaded %s: %d rows, %d bad rows skipped", c.Label, stats.Rows, stats.Skipped)
		out[i] = ds
		return nil
	}
	if !cfg.RunParallel() {
		for i := range candidates {
			if err := load(ctx, i); err != nil {
				return out, err
			}
		}
		return out, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for i := range candidates {
		i := i
		g.Go(func() error { return load(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

func (s *Service) count(cfg Config, label string, ds *Dataset) (Distribution, error) {
	col, err := ResolveLocationColumn(ds.Columns(), cfg.LocationColumn, cfg.LocationHint)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", label, err)
	}
	dist, err := CountLocations(ds, col)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", label, err)
	}
	s.logf("Counted %s: column %q, %d locations from %d rows", label, col, len(dist), dist.Total())
	return dist, nil
}

func validateLabels(a, b string) error {
	reserved := map[string]struct{}{"location": {}, "diff": {}, "total": {}}
	for _, label := range []string{a, b} {
		if _, ok := reserved[label]; ok {
			return fmt.Errorf("candidate label %q clashes with an output column", label)
		}
	}
	if a == b {
		return fmt.Errorf("candidate labels must differ, both are %q", a)
	}
	return nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
