package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"dns-analytics/internal/preprocessors"
	"dns-analytics/internal/shared/configs"
	"dns-analytics/internal/shared/filestorages"
	"dns-analytics/internal/shared/loggers"
	"dns-analytics/internal/shared/svcerrors"
	"dns-analytics/internal/shared/ulid"
	"dns-analytics/internal/stores"
)

const appName = "dns-analytics"

// Preprocess wires the preprocessing command: raw query log in, binary
// record and stats streams out.
type Preprocess struct {
	config  *configs.Config
	logger  loggers.Logger
	service preprocessors.PreprocessService
}

// NewPreprocess creates and initializes the preprocessing application.
func NewPreprocess(config *configs.Config) (*Preprocess, error) {
	logger, err := newLogger(config, "preprocess")
	if err != nil {
		return nil, err
	}

	storage, err := filestorages.NewFileStorage(config.Storage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	recordStore := stores.NewRecordStore(storage)
	service := preprocessors.NewPreprocessService(
		recordStore,
		config.Preprocess.RecordsKey,
		config.Preprocess.StatsKey,
		config.Storage.AllowOverwrite,
		config.Log.Quiet,
	)

	return &Preprocess{config: config, logger: logger, service: service}, nil
}

// Run executes one preprocessing pass over the configured input file.
func (a *Preprocess) Run(ctx context.Context) *svcerrors.ServiceError {
	start := time.Now()
	ctx = a.logger.WithContext(ctx)

	input, err := os.Open(a.config.Preprocess.InputFile)
	if err != nil {
		return svcerrors.NewInvalidArgumentError("APP_1000",
			fmt.Sprintf("cannot open input file %q", a.config.Preprocess.InputFile), err)
	}
	defer func() { _ = input.Close() }()

	if !a.config.Log.Quiet {
		a.logger.Info().
			Str(loggers.FieldInputFile, a.config.Preprocess.InputFile).
			Msg("processing log entries")
	}

	summary, svcErr := a.service.Run(ctx, input)
	if svcErr != nil {
		a.logger.Error().
			Str(loggers.FieldErrorCode, svcErr.Code).
			Err(svcErr.Cause).
			Msg(svcErr.Message)
		return svcErr
	}

	event := a.logger.Info().
		Uint64("input_lines", summary.LinesRead).
		Uint64("output_records", summary.RecordsWritten).
		Int("primary_domains", summary.PrimaryDomains).
		Dur(loggers.FieldDuration, time.Since(start))
	for reason, count := range summary.DroppedByReason {
		event = event.Uint64("dropped_"+reason, count)
	}
	event.Msg("preprocessing finished")
	return nil
}

// newLogger builds the root logger shared by both commands, tagged with
// the app, the component and a fresh run id.
func newLogger(config *configs.Config, component string) (loggers.Logger, error) {
	logger, err := loggers.New(config.Log.Level)
	if err != nil {
		return logger, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logger.With().
		Str(loggers.FieldApp, appName).
		Str(loggers.FieldComponent, component).
		Str(loggers.FieldRunID, ulid.NewULID()).
		Logger()
	return logger, nil
}
