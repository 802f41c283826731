package extractors

import (
	"fmt"

	"dns-analytics/internal/shared/svcerrors"
)

const (
	codeNoFeatureMode  = "EXT_1000"
	codeInvalidWindow  = "EXT_1001"
	codeSinkWriteError = "EXT_9000"
)

// errNoFeatureMode returns an error when a run enables no feature mode.
func errNoFeatureMode() *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeNoFeatureMode, "no feature mode selected for extraction", nil)
}

// errInvalidWindow returns an error for out-of-range window parameters.
func errInvalidWindow(message string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidWindow, message, nil)
}

// errSinkWriteFailed returns an error when writing rows to the sink
// fails. Sink failures are fatal for the whole run.
func errSinkWriteFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeSinkWriteError, fmt.Errorf("sinkWriteFailed: %w", cause))
}
