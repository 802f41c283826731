package preprocessors

import (
	"bufio"
	"context"
	"io"
	"sort"

	"dns-analytics/internal/models"
	"dns-analytics/internal/parsers"
	"dns-analytics/internal/shared/loggers"
	"dns-analytics/internal/shared/svcerrors"
	"dns-analytics/internal/stores"
)

// progressInterval is the line interval between progress log messages.
const progressInterval = 1_000_000

// Summary reports what one preprocessing run did. Dropped lines are
// counted per filter reason but otherwise silent.
type Summary struct {
	LinesRead       uint64
	RecordsWritten  uint64
	PrimaryDomains  int
	DroppedByReason map[string]uint64
}

//go:generate mockgen -source=preprocess_service.go -destination=./mocks/preprocess_service_mock.go -package=mocks

// PreprocessService turns a raw query log into the binary record stream
// and primary-domain stats consumed by the extraction stage.
type PreprocessService interface {
	Run(ctx context.Context, input io.Reader) (*Summary, *svcerrors.ServiceError)
}

type preprocessService struct {
	recordStore    stores.RecordStore
	recordsKey     string
	statsKey       string
	allowOverwrite bool
	quiet          bool
}

func NewPreprocessService(recordStore stores.RecordStore, recordsKey, statsKey string, allowOverwrite, quiet bool) PreprocessService {
	return &preprocessService{
		recordStore:    recordStore,
		recordsKey:     recordsKey,
		statsKey:       statsKey,
		allowOverwrite: allowOverwrite,
		quiet:          quiet,
	}
}

func (s *preprocessService) Run(ctx context.Context, input io.Reader) (*Summary, *svcerrors.ServiceError) {
	logger := loggers.Ctx(ctx)

	writer, err := s.recordStore.OpenRecordWriter(ctx, s.recordsKey, s.allowOverwrite)
	if err != nil {
		return nil, errRecordStoreFailed(err)
	}

	summary := &Summary{DroppedByReason: make(map[string]uint64)}

	// Primary domain string -> stats; ids assigned in first-seen order.
	primStats := make(map[string]*models.PrimaryDomainStats)
	var recordID uint32
	var primID uint32

	reader := bufio.NewReader(input)
	for {
		// Lines keep their trailing newline: the decoder requires it and
		// rejects an unterminated final line.
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			summary.LinesRead++
			if err := s.processLine(line, summary, primStats, &recordID, &primID, writer); err != nil {
				_ = writer.Close()
				return nil, errRecordStoreFailed(err)
			}
			if !s.quiet && summary.LinesRead%progressInterval == 0 {
				logger.Info().
					Uint64("lines", summary.LinesRead).
					Uint64("records", summary.RecordsWritten).
					Msg("preprocessing progress")
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = writer.Close()
			return nil, errInputReadFailed(readErr)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, errRecordStoreFailed(err)
	}

	// Export stats ordered by id for a deterministic stream.
	stats := make([]models.PrimaryDomainStats, 0, len(primStats))
	for _, entry := range primStats {
		stats = append(stats, *entry)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].ID < stats[j].ID })

	if err := s.recordStore.PutStats(ctx, s.statsKey, stats, s.allowOverwrite); err != nil {
		return nil, errStatsStoreFailed(err)
	}

	summary.PrimaryDomains = len(primStats)
	return summary, nil
}

// processLine runs the filter chain over one raw line and appends the
// resulting record, if any. Parse failures only count; write failures
// are fatal and returned.
func (s *preprocessService) processLine(line []byte, summary *Summary, primStats map[string]*models.PrimaryDomainStats, recordID, primID *uint32, writer stores.RecordWriter) error {
	ts, query, err := parsers.ParseLogLine(line, parsers.LogFieldSep)
	if err != nil {
		s.drop(summary, err)
		return nil
	}

	// FILTER: timestamps before the epoch are clock noise.
	if ts < 0 {
		summary.DroppedByReason["negative_timestamp"]++
		metricLinesDroppedTotal.WithLabelValues("negative_timestamp").Inc()
		return nil
	}

	prim, payload, err := parsers.ParseQuery(query)
	if err != nil {
		s.drop(summary, err)
		return nil
	}

	entry, ok := primStats[prim]
	if !ok {
		entry = &models.PrimaryDomainStats{ID: *primID, Length: uint8(len(prim))}
		primStats[prim] = entry
		*primID++
	}

	record := models.LogRecord{
		ID:        *recordID,
		PrimID:    entry.ID,
		Timestamp: ts,
		Payload:   payload,
	}
	if err := writer.Write(&record); err != nil {
		return err
	}

	entry.Count++
	*recordID++
	summary.RecordsWritten++
	metricRecordsWrittenTotal.Inc()
	return nil
}

func (s *preprocessService) drop(summary *Summary, err error) {
	reason := parsers.DropReason(err)
	summary.DroppedByReason[reason]++
	metricLinesDroppedTotal.WithLabelValues(reason).Inc()
}
