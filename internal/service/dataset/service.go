package dataset

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/generator"
	"github.com/torgprom/econdash/internal/repository/csvstore"
	"github.com/torgprom/econdash/internal/service/analytics"
)

// Service owns the dataset lifecycle: initial load-or-generate on startup and
// wholesale regeneration on demand.
type Service struct {
	store     *csvstore.Store
	analytics *analytics.Service
	defaults  generator.Params
	logger    *zap.Logger
}

// NewService wires the lifecycle service.
func NewService(store *csvstore.Store, analyticsSvc *analytics.Service, defaults generator.Params, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		analytics: analyticsSvc,
		defaults:  defaults,
		logger:    logger,
	}
}

// Init loads the persisted dataset, generating a fresh one when the CSV files
// are missing or unreadable.
func (s *Service) Init(ctx context.Context) error {
	ds, err := s.store.LoadDataset(ctx)
	if err != nil {
		if !errors.Is(err, csvstore.ErrNoData) {
			s.logger.Warn("persisted dataset unreadable, regenerating", zap.Error(err))
		} else {
			s.logger.Info("no persisted dataset, generating")
		}
		return s.Regenerate(ctx, s.defaults)
	}

	s.analytics.Replace(ds)
	return nil
}

// Regenerate builds a new dataset, persists it and swaps it into the
// analytics service. All prior records are discarded.
func (s *Service) Regenerate(ctx context.Context, params generator.Params) error {
	if params.Days == 0 {
		params.Days = s.defaults.Days
	}
	if params.RecordsPerDay == 0 {
		params.RecordsPerDay = s.defaults.RecordsPerDay
	}

	gen := generator.New(params, s.logger)
	ds, err := gen.Generate(params)
	if err != nil {
		return err
	}

	if err := s.store.SaveDataset(ctx, ds); err != nil {
		return fmt.Errorf("persist regenerated dataset: %w", err)
	}

	s.analytics.Replace(ds)
	return nil
}

// Defaults returns the configured default generation parameters.
func (s *Service) Defaults() generator.Params { return s.defaults }
