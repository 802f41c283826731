package parsers

import (
	"bytes"
	"math"
	"strconv"
)

// LogFieldSep is the separator between timestamp and query in query logs.
const LogFieldSep byte = '\t'

// ParseLogLine splits one raw log line of the form {TS}{SEP}{QUERY}{LF}
// into a finite float64 timestamp and the escape-decoded query bytes.
// A missing trailing newline rejects the line; a carriage return before
// the newline is tolerated.
func ParseLogLine(line []byte, sep byte) (float64, []byte, error) {
	sepIdx := bytes.IndexByte(line, sep)
	if sepIdx < 0 {
		return 0, nil, ErrSepNotFound
	}

	tsField := line[:sepIdx]
	query := line[sepIdx+1:]

	if len(query) == 0 || query[len(query)-1] != '\n' {
		return 0, nil, ErrInvalidQuery
	}
	query = query[:len(query)-1]
	if len(query) > 0 && query[len(query)-1] == '\r' {
		query = query[:len(query)-1]
	}

	ts, err := strconv.ParseFloat(string(tsField), 64)
	if err != nil || math.IsNaN(ts) || math.IsInf(ts, 0) {
		return 0, nil, ErrInvalidTimestamp
	}

	return ts, decodeByteEscapes(query), nil
}
