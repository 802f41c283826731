package parsers

import "errors"

// Parse-stage errors act as filters: the offending line or query is
// dropped and counted, never surfaced to the caller as a failure.
var (
	// DNS query filters.
	ErrQueryLength      = errors.New("query shorter than minimum length")
	ErrInvalidDNSName   = errors.New("invalid dns name")
	ErrUnknownSuffix    = errors.New("unknown public suffix")
	ErrReservedSuffix   = errors.New("reserved suffix")
	ErrNoLabels         = errors.New("no labels before primary domain")
	ErrInvalidPrimary   = errors.New("invalid primary domain")
	ErrNoStorageChannel = errors.New("query carries no storage channel")

	// Log line filters.
	ErrSepNotFound      = errors.New("field separator not found")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidQuery     = errors.New("invalid query field")
)

// DropReason maps a filter error to a stable metric label.
func DropReason(err error) string {
	switch {
	case errors.Is(err, ErrQueryLength):
		return "query_length"
	case errors.Is(err, ErrInvalidDNSName):
		return "invalid_dns_name"
	case errors.Is(err, ErrUnknownSuffix):
		return "unknown_suffix"
	case errors.Is(err, ErrReservedSuffix):
		return "reserved_suffix"
	case errors.Is(err, ErrNoLabels):
		return "no_labels"
	case errors.Is(err, ErrInvalidPrimary):
		return "invalid_primary"
	case errors.Is(err, ErrNoStorageChannel):
		return "no_storage_channel"
	case errors.Is(err, ErrSepNotFound):
		return "sep_not_found"
	case errors.Is(err, ErrInvalidTimestamp):
		return "invalid_timestamp"
	case errors.Is(err, ErrInvalidQuery):
		return "invalid_query"
	default:
		return "unknown"
	}
}
