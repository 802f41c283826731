package stores

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"dns-analytics/internal/models"
	"dns-analytics/internal/shared/filestorages"
)

// ErrCorruptRecordStream marks a record stream that ends in the middle of
// a record.
var ErrCorruptRecordStream = errors.New("corrupt record stream")

// The upstream record streams are sequences of self-delimited binary
// records, little-endian:
//
//	LogRecord:           id:u32  prim_id:u32  ts:f64  payload
//	Payload:             label_count:u8  (len:u8 label-bytes)*  payload_len:u8
//	PrimaryDomainStats:  id:u32  length:u8  count:u32

//go:generate mockgen -source=record_store.go -destination=./mocks/record_store_mock.go -package=mocks

// RecordWriter appends log records to an open stream. Not safe for
// concurrent use; preprocessing is single-threaded.
type RecordWriter interface {
	Write(record *models.LogRecord) error
	Close() error
}

// RecordStore persists and loads the intermediate record streams between
// the preprocessing and extraction stages.
type RecordStore interface {
	OpenRecordWriter(ctx context.Context, key string, allowOverwrite bool) (RecordWriter, error)
	LoadRecords(ctx context.Context, key string) ([]models.LogRecord, error)
	PutStats(ctx context.Context, key string, stats []models.PrimaryDomainStats, allowOverwrite bool) error
	LoadStats(ctx context.Context, key string) (map[uint32]models.PrimaryDomainStats, error)
}

type recordStore struct {
	storage filestorages.FileStorage
}

func NewRecordStore(storage filestorages.FileStorage) RecordStore {
	return &recordStore{storage: storage}
}

func (s *recordStore) OpenRecordWriter(ctx context.Context, key string, allowOverwrite bool) (RecordWriter, error) {
	file, err := s.storage.Create(ctx, key, filestorages.PutOptions{AllowOverwrite: allowOverwrite})
	if err != nil {
		return nil, err
	}
	return &recordWriter{file: file, buf: bufio.NewWriter(file)}, nil
}

func (s *recordStore) LoadRecords(ctx context.Context, key string) ([]models.LogRecord, error) {
	file, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	reader := bufio.NewReader(file)
	var records []models.LogRecord
	for {
		record, err := decodeRecord(reader)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrCorruptRecordStream, len(records), err)
		}
		records = append(records, record)
	}
}

func (s *recordStore) PutStats(ctx context.Context, key string, stats []models.PrimaryDomainStats, allowOverwrite bool) error {
	var buf bytes.Buffer
	scratch := make([]byte, 4)
	for _, entry := range stats {
		binary.LittleEndian.PutUint32(scratch, entry.ID)
		buf.Write(scratch)
		buf.WriteByte(entry.Length)
		binary.LittleEndian.PutUint32(scratch, entry.Count)
		buf.Write(scratch)
	}
	_, err := s.storage.Put(ctx, key, &buf, filestorages.PutOptions{AllowOverwrite: allowOverwrite})
	return err
}

func (s *recordStore) LoadStats(ctx context.Context, key string) (map[uint32]models.PrimaryDomainStats, error) {
	file, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	reader := bufio.NewReader(file)
	stats := make(map[uint32]models.PrimaryDomainStats)
	for {
		id, err := readUint32(reader)
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: stats entry %d: %w", ErrCorruptRecordStream, len(stats), err)
		}
		length, err := reader.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: stats entry %d: %w", ErrCorruptRecordStream, len(stats), noEOF(err))
		}
		count, err := readUint32(reader)
		if err != nil {
			return nil, fmt.Errorf("%w: stats entry %d: %w", ErrCorruptRecordStream, len(stats), noEOF(err))
		}
		stats[id] = models.PrimaryDomainStats{ID: id, Length: length, Count: count}
	}
}

type recordWriter struct {
	file io.WriteCloser
	buf  *bufio.Writer
}

func (w *recordWriter) Write(record *models.LogRecord) error {
	var scratch [8]byte

	binary.LittleEndian.PutUint32(scratch[:4], record.ID)
	if _, err := w.buf.Write(scratch[:4]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(scratch[:4], record.PrimID)
	if _, err := w.buf.Write(scratch[:4]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(scratch[:8], math.Float64bits(record.Timestamp))
	if _, err := w.buf.Write(scratch[:8]); err != nil {
		return err
	}

	payload := record.Payload
	if err := w.buf.WriteByte(uint8(len(payload.Labels))); err != nil {
		return err
	}
	for _, label := range payload.Labels {
		if err := w.buf.WriteByte(uint8(len(label))); err != nil {
			return err
		}
		if _, err := w.buf.WriteString(label); err != nil {
			return err
		}
	}
	return w.buf.WriteByte(uint8(payload.EncodedLen))
}

func (w *recordWriter) Close() error {
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func decodeRecord(r *bufio.Reader) (models.LogRecord, error) {
	var record models.LogRecord

	id, err := readUint32(r)
	if err != nil {
		// EOF on the first field is a clean end of stream.
		return record, err
	}
	primID, err := readUint32(r)
	if err != nil {
		return record, noEOF(err)
	}
	tsBits, err := readUint64(r)
	if err != nil {
		return record, noEOF(err)
	}

	labelCount, err := r.ReadByte()
	if err != nil {
		return record, noEOF(err)
	}
	labels := make([]string, labelCount)
	for i := range labels {
		labelLen, err := r.ReadByte()
		if err != nil {
			return record, noEOF(err)
		}
		label := make([]byte, labelLen)
		if _, err := io.ReadFull(r, label); err != nil {
			return record, noEOF(err)
		}
		labels[i] = string(label)
	}
	payloadLen, err := r.ReadByte()
	if err != nil {
		return record, noEOF(err)
	}

	record.ID = id
	record.PrimID = primID
	record.Timestamp = math.Float64frombits(tsBits)
	record.Payload = &models.Payload{Labels: labels, EncodedLen: int(payloadLen)}
	return record, nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// noEOF upgrades an end-of-stream inside a record to an unexpected EOF so
// it is reported as corruption, not a clean end.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
