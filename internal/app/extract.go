package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dns-analytics/internal/extractors"
	"dns-analytics/internal/shared/configs"
	"dns-analytics/internal/shared/filestorages"
	"dns-analytics/internal/shared/loggers"
	"dns-analytics/internal/shared/svcerrors"
	"dns-analytics/internal/stores"
)

// Extract wires the feature extraction command: binary record and stats
// streams in, one CSV feature row per query out.
type Extract struct {
	config       *configs.Config
	logger       loggers.Logger
	recordStore  stores.RecordStore
	featureStore stores.FeatureRowStore
	service      extractors.ExtractionService
}

// NewExtract creates and initializes the extraction application.
func NewExtract(config *configs.Config) (*Extract, error) {
	logger, err := newLogger(config, "extract")
	if err != nil {
		return nil, err
	}

	storage, err := filestorages.NewFileStorage(config.Storage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	opts := extractors.ExtractOptions{
		Payload:         config.Extraction.Payload,
		TimeWindowSecs:  config.Extraction.TimeWindowSecs,
		FixedWindowSize: config.Extraction.FixedWindowSize,
	}
	service, svcErr := extractors.NewExtractionService(opts, config.Extraction.Workers, config.Extraction.InlineWriteThreshold)
	if svcErr != nil {
		return nil, svcErr
	}

	return &Extract{
		config:       config,
		logger:       logger,
		recordStore:  stores.NewRecordStore(storage),
		featureStore: stores.NewFeatureRowStore(storage),
		service:      service,
	}, nil
}

// Run executes one extraction pass over the configured record streams.
func (a *Extract) Run(ctx context.Context) *svcerrors.ServiceError {
	start := time.Now()
	ctx = a.logger.WithContext(ctx)
	cfg := a.config.Extraction

	stats, err := a.recordStore.LoadStats(ctx, cfg.StatsKey)
	if err != nil {
		return a.fail("APP_9000", "cannot load primary domain stats", err)
	}
	records, err := a.recordStore.LoadRecords(ctx, cfg.RecordsKey)
	if err != nil {
		return a.fail("APP_9001", "cannot load record stream", err)
	}
	if !a.config.Log.Quiet {
		a.logger.Info().
			Int("records", len(records)).
			Int("primary_domains", len(stats)).
			Msg("extracting features")
	}

	opts := extractors.ExtractOptions{
		Payload:         cfg.Payload,
		TimeWindowSecs:  cfg.TimeWindowSecs,
		FixedWindowSize: cfg.FixedWindowSize,
	}
	sink, err := a.featureStore.OpenRowWriter(ctx, cfg.FeaturesKey, opts.Modes(), cfg.Gzip, a.config.Storage.AllowOverwrite)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileAlreadyExists) {
			return a.fail("APP_1001", "feature output already exists", err)
		}
		return a.fail("APP_9002", "cannot open feature output", err)
	}

	if svcErr := a.service.Extract(ctx, records, stats, sink); svcErr != nil {
		_ = sink.Close()
		a.logError(svcErr)
		return svcErr
	}
	if err := sink.Close(); err != nil {
		return a.fail("APP_9003", "cannot finalize feature output", err)
	}

	a.logger.Info().
		Int("records", len(records)).
		Int("primary_domains", len(stats)).
		Dur(loggers.FieldDuration, time.Since(start)).
		Msg("extraction finished")
	return nil
}

func (a *Extract) fail(code, message string, cause error) *svcerrors.ServiceError {
	var svcErr *svcerrors.ServiceError
	if errors.Is(cause, filestorages.ErrFileAlreadyExists) {
		svcErr = svcerrors.NewResourceConflictError(code, message, cause)
	} else {
		svcErr = svcerrors.NewInternalError(code, fmt.Errorf("%s: %w", message, cause))
	}
	a.logError(svcErr)
	return svcErr
}

func (a *Extract) logError(svcErr *svcerrors.ServiceError) {
	a.logger.Error().
		Str(loggers.FieldErrorCode, svcErr.Code).
		Err(svcErr.Cause).
		Msg(svcErr.Message)
}
