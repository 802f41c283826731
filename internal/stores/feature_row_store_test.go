package stores

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"dns-analytics/internal/models"
	"dns-analytics/internal/shared/filestorages"
	"dns-analytics/internal/shared/filestorages/mocks"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func payloadRow(id uint32) models.FeatureRow {
	return models.FeatureRow{
		ID: id,
		Payload: &models.PayloadFeatureVector{
			ID:             id,
			NUnique:        4,
			RatioUnique:    1.0,
			NLabels:        1,
			AvgLabelLength: 4,
			MaxLabelLength: 4,
			Entropy:        2.0,
			FillRatio:      0.5,
		},
	}
}

func TestFeatureRowStore_WritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewFeatureRowStore(mockFileStorage)
	ctx := context.Background()

	var buf bytes.Buffer
	mockFileStorage.EXPECT().
		Create(ctx, "features/features.csv", filestorages.PutOptions{AllowOverwrite: false}).
		Return(&bufWriteCloser{&buf}, nil)

	modes := models.FeatureModes{Payload: true}
	writer, err := store.OpenRowWriter(ctx, "features/features.csv", modes, false, false)
	require.NoError(t, err)

	require.NoError(t, writer.WriteRows([]models.FeatureRow{payloadRow(0), payloadRow(1)}))
	require.NoError(t, writer.Close())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, modes.Header(), rows[0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "1", rows[2][0])
	assert.Equal(t, "0.5", rows[1][9])
}

func TestFeatureRowStore_GzipOutput(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewFeatureRowStore(mockFileStorage)
	ctx := context.Background()

	var buf bytes.Buffer
	mockFileStorage.EXPECT().
		Create(ctx, "features/features.csv.gz", gomock.Any()).
		Return(&bufWriteCloser{&buf}, nil)

	modes := models.FeatureModes{FixedWindow: true}
	writer, err := store.OpenRowWriter(ctx, "features/features.csv.gz", modes, true, false)
	require.NoError(t, err)

	row := models.FeatureRow{ID: 0, FixedWindow: &models.FixedWindowFeatureVector{ID: 0}}
	require.NoError(t, writer.WriteRows([]models.FeatureRow{row}))
	require.NoError(t, writer.Close())

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	rows, err := csv.NewReader(gz).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, modes.Header(), rows[0])
}

func TestFeatureRowStore_EmptyRunStillWritesHeader(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewFeatureRowStore(mockFileStorage)
	ctx := context.Background()

	var buf bytes.Buffer
	mockFileStorage.EXPECT().
		Create(ctx, "features/features.csv", gomock.Any()).
		Return(&bufWriteCloser{&buf}, nil)

	modes := models.FeatureModes{TimeWindow: true}
	writer, err := store.OpenRowWriter(ctx, "features/features.csv", modes, false, false)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, modes.Header(), rows[0])
}

func TestFeatureRowStore_ExistingOutputRefused(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewFeatureRowStore(mockFileStorage)
	ctx := context.Background()

	mockFileStorage.EXPECT().
		Create(ctx, "features/features.csv", filestorages.PutOptions{AllowOverwrite: false}).
		Return(nil, filestorages.ErrFileAlreadyExists)

	writer, err := store.OpenRowWriter(ctx, "features/features.csv", models.FeatureModes{Payload: true}, false, false)
	assert.Nil(t, writer)
	assert.ErrorIs(t, err, filestorages.ErrFileAlreadyExists)
}
