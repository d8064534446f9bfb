package services

import (
	"context"
	"errors"
	"time"

	"supramolecular/application/ports"
	"supramolecular/domain/config"
	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/fitting"
	pkgerrors "supramolecular/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// FitService runs optimisations for the command and query handlers. It bounds
// how many fits run at once and how long each may take.
type FitService struct {
	registry *fitting.Registry
	sem      *semaphore.Weighted
	settings fitting.Settings
	timeout  time.Duration
	tracer   ports.Tracer
	metrics  ports.Metrics
	logger   *zap.Logger
}

// NewFitService creates a new fit service
func NewFitService(
	registry *fitting.Registry,
	cfg *config.DomainConfig,
	tracer ports.Tracer,
	metrics ports.Metrics,
	logger *zap.Logger,
) *FitService {
	settings := fitting.DefaultSettings()
	settings.MaxIterations = cfg.MaxIterations
	settings.MaxFuncEvaluations = cfg.MaxFuncEvaluations
	settings.ConvergenceRelative = cfg.ConvergenceRelative
	settings.ConvergenceIterations = cfg.ConvergenceIterations
	settings.SimplexSize = cfg.SimplexSize

	return &FitService{
		registry: registry,
		sem:      semaphore.NewWeighted(int64(cfg.MaxConcurrentFits)),
		settings: settings,
		timeout:  cfg.FitTimeout,
		tracer:   tracer,
		metrics:  metrics,
		logger:   logger,
	}
}

// Registry returns the fitter registry the service resolves names against
func (s *FitService) Registry() *fitting.Registry {
	return s.registry
}

// Function resolves a fitter and checks the parameter count
func (s *FitService) Function(name valueobjects.FitterName, params []float64) (*fitting.Function, error) {
	f, err := s.registry.Select(name)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	if len(params) != f.ParamCount() {
		return nil, pkgerrors.NewValidationErrorf("%s takes %d parameters (%v), got %d",
			name, f.ParamCount(), f.ParamNames, len(params))
	}
	return f, nil
}

// Fit optimises the binding constants of fitter against data from guess
func (s *FitService) Fit(ctx context.Context, name valueobjects.FitterName, data *entities.Dataset, guess []float64) (*fitting.Result, error) {
	f, err := s.Function(name, guess)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, s.contextError(name, err)
	}
	defer s.sem.Release(1)

	s.metrics.Increment(ports.MetricFitsTotal, name.String())
	start := time.Now()

	var result *fitting.Result
	err = s.tracer.TraceFunction(ctx, "fit."+name.String(), func(ctx context.Context) error {
		s.tracer.AddAnnotation(ctx, "data_id", data.ID().String())
		var fitErr error
		result, fitErr = f.Fit(ctx, inputFor(data), guess, s.settings)
		return fitErr
	})
	s.metrics.Observe(ports.MetricFitDuration, name.String(), time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, s.contextError(name, ctxErr)
		}
		if errors.Is(err, fitting.ErrParamCount) {
			return nil, pkgerrors.NewValidationError(err.Error())
		}
		s.metrics.Increment(ports.MetricFitsFailed, name.String())
		s.logger.Warn("Fit failed",
			zap.String("fitter", name.String()),
			zap.String("data_id", data.ID().String()),
			zap.Float64s("guess", guess),
			zap.Error(err),
		)
		return nil, pkgerrors.NewFitError(name.String(), err)
	}

	s.logger.Debug("Fit completed",
		zap.String("fitter", name.String()),
		zap.String("data_id", data.ID().String()),
		zap.Float64s("params", result.Params),
		zap.Float64("rss", result.RSS),
		zap.Int("iterations", result.Iterations),
		zap.String("status", result.Status),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// Evaluate solves the linear step at fixed binding constants, used to rebuild
// a stored fit without optimising again.
func (s *FitService) Evaluate(name valueobjects.FitterName, data *entities.Dataset, params []float64) (*fitting.LstsqResult, error) {
	f, err := s.Function(name, params)
	if err != nil {
		return nil, err
	}
	res, err := f.Lstsq(params, inputFor(data))
	if err != nil {
		return nil, pkgerrors.NewFitError(name.String(), err)
	}
	return res, nil
}

func (s *FitService) contextError(name valueobjects.FitterName, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		s.metrics.Increment(ports.MetricFitsTimedOut, name.String())
		return pkgerrors.NewTimeoutError("fit").WithCause(err)
	}
	return err
}

func inputFor(data *entities.Dataset) fitting.Input {
	return fitting.Input{H0: data.H0(), G0: data.G0(), Y: data.Y()}
}
