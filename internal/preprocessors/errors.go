package preprocessors

import (
	"errors"
	"fmt"

	"dns-analytics/internal/shared/filestorages"
	"dns-analytics/internal/shared/svcerrors"
)

const (
	codeOutputExists     = "PRE_1000"
	codeInputReadFailed  = "PRE_9000"
	codeRecordStoreError = "PRE_9001"
	codeStatsStoreError  = "PRE_9002"
)

// errInputReadFailed returns an error when reading the raw log fails.
func errInputReadFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInputReadFailed, fmt.Errorf("inputReadFailed: %w", cause))
}

// errRecordStoreFailed returns an error when writing the record stream
// fails. An existing output with overwrite disabled maps to a conflict.
func errRecordStoreFailed(cause error) *svcerrors.ServiceError {
	if errors.Is(cause, filestorages.ErrFileAlreadyExists) {
		return svcerrors.NewResourceConflictError(codeOutputExists, "record output already exists", cause)
	}
	return svcerrors.NewInternalError(codeRecordStoreError, fmt.Errorf("recordStoreFailed: %w", cause))
}

// errStatsStoreFailed returns an error when writing the stats stream fails.
func errStatsStoreFailed(cause error) *svcerrors.ServiceError {
	if errors.Is(cause, filestorages.ErrFileAlreadyExists) {
		return svcerrors.NewResourceConflictError(codeOutputExists, "stats output already exists", cause)
	}
	return svcerrors.NewInternalError(codeStatsStoreError, fmt.Errorf("statsStoreFailed: %w", cause))
}
