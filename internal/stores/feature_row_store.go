package stores

import (
	"context"
	"encoding/csv"
	"io"
	"sync"

	"dns-analytics/internal/models"
	"dns-analytics/internal/shared/filestorages"

	"github.com/klauspost/compress/gzip"
)

//go:generate mockgen -source=feature_row_store.go -destination=./mocks/feature_row_store_mock.go -package=mocks

// FeatureRowWriter is the sink for emitted feature rows. WriteRows is
// safe for concurrent use; extraction workers write large domains
// directly while holding the sink only per batch.
type FeatureRowWriter interface {
	WriteRows(rows []models.FeatureRow) error
	Close() error
}

// FeatureRowStore opens CSV row sinks, optionally gzip-compressed.
type FeatureRowStore interface {
	OpenRowWriter(ctx context.Context, key string, modes models.FeatureModes, compress, allowOverwrite bool) (FeatureRowWriter, error)
}

type featureRowStore struct {
	storage filestorages.FileStorage
}

func NewFeatureRowStore(storage filestorages.FileStorage) FeatureRowStore {
	return &featureRowStore{storage: storage}
}

func (s *featureRowStore) OpenRowWriter(ctx context.Context, key string, modes models.FeatureModes, compress, allowOverwrite bool) (FeatureRowWriter, error) {
	file, err := s.storage.Create(ctx, key, filestorages.PutOptions{AllowOverwrite: allowOverwrite})
	if err != nil {
		return nil, err
	}

	writer := &featureRowWriter{file: file, modes: modes}

	var out io.Writer = file
	if compress {
		// Fast compression; the CSV is bulky but repetitive.
		gz, err := gzip.NewWriterLevel(file, gzip.BestSpeed)
		if err != nil {
			_ = file.Close()
			return nil, err
		}
		writer.gz = gz
		out = gz
	}
	writer.csv = csv.NewWriter(out)

	if err := writer.csv.Write(modes.Header()); err != nil {
		_ = writer.Close()
		return nil, err
	}
	return writer, nil
}

type featureRowWriter struct {
	mu    sync.Mutex
	modes models.FeatureModes
	csv   *csv.Writer
	gz    *gzip.Writer
	file  io.WriteCloser
}

func (w *featureRowWriter) WriteRows(rows []models.FeatureRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range rows {
		if err := w.csv.Write(rows[i].Record(w.modes)); err != nil {
			return err
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}

func (w *featureRowWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.csv.Flush()
	err := w.csv.Error()
	if w.gz != nil {
		if gzErr := w.gz.Close(); err == nil {
			err = gzErr
		}
	}
	if closeErr := w.file.Close(); err == nil {
		err = closeErr
	}
	return err
}
