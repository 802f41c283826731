package stores

import (
	"bytes"
	"context"
	"io"
	"testing"

	"dns-analytics/internal/models"
	"dns-analytics/internal/shared/filestorages"
	"dns-analytics/internal/shared/filestorages/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bufWriteCloser struct {
	*bytes.Buffer
}

func (b *bufWriteCloser) Close() error { return nil }

func testRecords() []models.LogRecord {
	return []models.LogRecord{
		{
			ID:        0,
			PrimID:    0,
			Timestamp: 1766929395.5,
			Payload:   &models.Payload{Labels: []string{"abcd", "ef"}, EncodedLen: 7},
		},
		{
			ID:        1,
			PrimID:    3,
			Timestamp: 1766929396.25,
			Payload:   &models.Payload{Labels: []string{"x"}, EncodedLen: 1},
		},
	}
}

func TestRecordStore_WriteLoadRoundtrip(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewRecordStore(mockFileStorage)
	ctx := context.Background()

	var buf bytes.Buffer
	mockFileStorage.EXPECT().
		Create(ctx, "streams/records.bin", filestorages.PutOptions{AllowOverwrite: false}).
		Return(&bufWriteCloser{&buf}, nil)

	writer, err := store.OpenRecordWriter(ctx, "streams/records.bin", false)
	require.NoError(t, err)

	records := testRecords()
	for i := range records {
		require.NoError(t, writer.Write(&records[i]))
	}
	require.NoError(t, writer.Close())

	mockFileStorage.EXPECT().
		Get(ctx, "streams/records.bin").
		Return(io.NopCloser(bytes.NewReader(buf.Bytes())), nil)

	loaded, err := store.LoadRecords(ctx, "streams/records.bin")
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestRecordStore_LoadRecords_EmptyStream(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewRecordStore(mockFileStorage)
	ctx := context.Background()

	mockFileStorage.EXPECT().
		Get(ctx, "streams/records.bin").
		Return(io.NopCloser(bytes.NewReader(nil)), nil)

	loaded, err := store.LoadRecords(ctx, "streams/records.bin")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRecordStore_LoadRecords_TruncatedStream(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewRecordStore(mockFileStorage)
	ctx := context.Background()

	var buf bytes.Buffer
	mockFileStorage.EXPECT().
		Create(ctx, "streams/records.bin", gomock.Any()).
		Return(&bufWriteCloser{&buf}, nil)

	writer, err := store.OpenRecordWriter(ctx, "streams/records.bin", false)
	require.NoError(t, err)
	records := testRecords()
	for i := range records {
		require.NoError(t, writer.Write(&records[i]))
	}
	require.NoError(t, writer.Close())

	truncated := buf.Bytes()[:buf.Len()-3]
	mockFileStorage.EXPECT().
		Get(ctx, "streams/records.bin").
		Return(io.NopCloser(bytes.NewReader(truncated)), nil)

	loaded, err := store.LoadRecords(ctx, "streams/records.bin")
	assert.Nil(t, loaded)
	assert.ErrorIs(t, err, ErrCorruptRecordStream)
}

func TestRecordStore_PutStats_Encoding(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewRecordStore(mockFileStorage)
	ctx := context.Background()

	stats := []models.PrimaryDomainStats{
		{ID: 1, Length: 10, Count: 3},
	}

	mockFileStorage.EXPECT().
		Put(ctx, "streams/stats.bin", gomock.Any(), filestorages.PutOptions{AllowOverwrite: true}).
		DoAndReturn(func(ctx context.Context, key string, r io.Reader, opts filestorages.PutOptions) (*filestorages.PutResult, error) {
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, []byte{
				0x01, 0x00, 0x00, 0x00, // id
				0x0a,                   // length
				0x03, 0x00, 0x00, 0x00, // count
			}, data)
			return &filestorages.PutResult{FileKey: key}, nil
		})

	err := store.PutStats(ctx, "streams/stats.bin", stats, true)
	assert.NoError(t, err)
}

func TestRecordStore_StatsRoundtrip(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewRecordStore(mockFileStorage)
	ctx := context.Background()

	stats := []models.PrimaryDomainStats{
		{ID: 0, Length: 10, Count: 2},
		{ID: 1, Length: 17, Count: 1000},
	}

	var stored []byte
	mockFileStorage.EXPECT().
		Put(ctx, "streams/stats.bin", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, key string, r io.Reader, opts filestorages.PutOptions) (*filestorages.PutResult, error) {
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			stored = data
			return &filestorages.PutResult{FileKey: key}, nil
		})

	require.NoError(t, store.PutStats(ctx, "streams/stats.bin", stats, false))

	mockFileStorage.EXPECT().
		Get(ctx, "streams/stats.bin").
		Return(io.NopCloser(bytes.NewReader(stored)), nil)

	loaded, err := store.LoadStats(ctx, "streams/stats.bin")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, stats[0], loaded[0])
	assert.Equal(t, stats[1], loaded[1])
}

func TestRecordStore_LoadStats_TruncatedStream(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewRecordStore(mockFileStorage)
	ctx := context.Background()

	// Five bytes: a full id plus the length, count missing.
	mockFileStorage.EXPECT().
		Get(ctx, "streams/stats.bin").
		Return(io.NopCloser(bytes.NewReader([]byte{0, 0, 0, 0, 10})), nil)

	loaded, err := store.LoadStats(ctx, "streams/stats.bin")
	assert.Nil(t, loaded)
	assert.ErrorIs(t, err, ErrCorruptRecordStream)
}
