package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	FieldReason = "reason"

	Namespace     = "dns_analytics"
	SubPreprocess = "preprocess"
	SubExtraction = "extraction"
	SubStore      = "store"
)

// CounterOpts is a type alias for prometheus.CounterOpts.
type CounterOpts = prometheus.CounterOpts

// NewCounter creates a new Counter with the given CounterOpts.
// It is automatically registered with the default prometheus registry.
var NewCounter = promauto.NewCounter

// NewCounterVec creates a new CounterVec with the given CounterOpts and label names.
// It is automatically registered with the default prometheus registry.
var NewCounterVec = promauto.NewCounterVec
