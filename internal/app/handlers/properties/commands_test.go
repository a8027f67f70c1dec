package properties

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/app/uow"
	"staykit/internal/domain/property"
	"staykit/internal/infra/storage/memory"
)

var testNow = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }

// runInUnit mirrors the transaction middleware: begin, inject, commit on
// success, roll back on error.
func runInUnit(t *testing.T, store *memory.Store, fn func(ctx context.Context) error) error {
	t.Helper()
	unit, err := memory.NewFactory(store).Begin(context.Background())
	require.NoError(t, err)
	ctx := uow.WithUnit(context.Background(), unit)
	if err := fn(ctx); err != nil {
		require.NoError(t, unit.Rollback(context.Background()))
		return err
	}
	require.NoError(t, unit.Commit(context.Background()))
	return nil
}

func createListing(t *testing.T, store *memory.Store, hostID string) PropertyResult {
	t.Helper()
	handler := NewCreatePropertyHandler(appoutbox.JSONEventEncoder{}, testNow)
	var result PropertyResult
	err := runInUnit(t, store, func(ctx context.Context) error {
		var err error
		result, err = handler.Handle(ctx, CreatePropertyCommand{
			HostID:    hostID,
			Name:      "Canal House",
			Location:  "Amsterdam",
			Address:   "Prinsengracht 263",
			MaxGuests: 4,
			Rates: RatesInput{
				Currency:       "EUR",
				BasePriceCents: 12000,
				MinimumNights:  2,
			},
		})
		return err
	})
	require.NoError(t, err)
	return result
}

func TestCreateProperty_StartsAsDraft(t *testing.T) {
	store := memory.NewStore()
	result := createListing(t, store, "host-1")

	assert.NotEmpty(t, result.PropertyID)
	assert.Equal(t, string(property.StateDraft), result.State)

	saved, err := memory.NewPropertyRepository(store).ByID(context.Background(), property.PropertyID(result.PropertyID))
	require.NoError(t, err)
	assert.Equal(t, int64(12000), saved.Rates.BasePrice.Amount)
	assert.Equal(t, 2, saved.MinimumNights)
	assert.Equal(t, "15:00", saved.CheckInTime)
	assert.Equal(t, "11:00", saved.CheckOutTime)
}

func TestActivateProperty_PublishesListing(t *testing.T) {
	store := memory.NewStore()
	created := createListing(t, store, "host-1")

	handler := NewActivatePropertyHandler(appoutbox.JSONEventEncoder{}, testNow)
	err := runInUnit(t, store, func(ctx context.Context) error {
		result, err := handler.Handle(ctx, ActivatePropertyCommand{PropertyID: created.PropertyID, HostID: "host-1"})
		if err != nil {
			return err
		}
		assert.Equal(t, string(property.StateActive), result.State)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateRates_ReplacesRateCard(t *testing.T) {
	store := memory.NewStore()
	created := createListing(t, store, "host-1")

	weekend := int64(18000)
	fee := int64(4000)
	handler := NewUpdateRatesHandler(appoutbox.JSONEventEncoder{}, testNow)
	err := runInUnit(t, store, func(ctx context.Context) error {
		_, err := handler.Handle(ctx, UpdateRatesCommand{
			PropertyID: created.PropertyID,
			HostID:     "host-1",
			Rates: RatesInput{
				Currency:         "EUR",
				BasePriceCents:   14000,
				WeekendCents:     &weekend,
				CleaningFeeCents: &fee,
				MinimumNights:    3,
			},
		})
		return err
	})
	require.NoError(t, err)

	saved, err := memory.NewPropertyRepository(store).ByID(context.Background(), property.PropertyID(created.PropertyID))
	require.NoError(t, err)
	assert.Equal(t, int64(14000), saved.Rates.BasePrice.Amount)
	require.NotNil(t, saved.Rates.WeekendPrice)
	assert.Equal(t, int64(18000), saved.Rates.WeekendPrice.Amount)
	require.NotNil(t, saved.Rates.CleaningFee)
	assert.Equal(t, int64(4000), saved.Rates.CleaningFee.Amount)
	assert.Equal(t, 3, saved.MinimumNights)
}

func TestUpdateRates_DeniesForeignHost(t *testing.T) {
	store := memory.NewStore()
	created := createListing(t, store, "host-1")

	handler := NewUpdateRatesHandler(appoutbox.JSONEventEncoder{}, testNow)
	err := runInUnit(t, store, func(ctx context.Context) error {
		_, err := handler.Handle(ctx, UpdateRatesCommand{
			PropertyID: created.PropertyID,
			HostID:     "host-2",
			Rates:      RatesInput{Currency: "EUR", BasePriceCents: 1},
		})
		return err
	})
	assert.ErrorIs(t, err, property.ErrNotOwnedByHost)
}

type fakeMedia struct {
	uploaded []string
	err      error
}

func (f *fakeMedia) Upload(ctx context.Context, name, contentType string, data io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploaded = append(f.uploaded, name)
	return "https://cdn.example.com/" + name, nil
}

func TestAddPhoto_UploadsAndAppendsURL(t *testing.T) {
	store := memory.NewStore()
	created := createListing(t, store, "host-1")

	media := &fakeMedia{}
	handler := NewAddPhotoHandler(media, testNow)
	var result AddPhotoResult
	err := runInUnit(t, store, func(ctx context.Context) error {
		var err error
		result, err = handler.Handle(ctx, AddPhotoCommand{
			PropertyID:  created.PropertyID,
			HostID:      "host-1",
			FileName:    "living-room.jpg",
			ContentType: "image/jpeg",
			Size:        3,
			Data:        bytes.NewReader([]byte("img")),
		})
		return err
	})
	require.NoError(t, err)
	require.Len(t, media.uploaded, 1)
	assert.Contains(t, media.uploaded[0], "properties/"+created.PropertyID+"/")
	assert.Contains(t, media.uploaded[0], "living-room.jpg")

	saved, err := memory.NewPropertyRepository(store).ByID(context.Background(), property.PropertyID(created.PropertyID))
	require.NoError(t, err)
	require.Len(t, saved.Photos, 1)
	assert.Equal(t, result.URL, saved.Photos[0])
}

func TestAddPhoto_UploadFailureSavesNothing(t *testing.T) {
	store := memory.NewStore()
	created := createListing(t, store, "host-1")

	handler := NewAddPhotoHandler(&fakeMedia{err: errors.New("bucket unreachable")}, testNow)
	err := runInUnit(t, store, func(ctx context.Context) error {
		_, err := handler.Handle(ctx, AddPhotoCommand{
			PropertyID:  created.PropertyID,
			HostID:      "host-1",
			FileName:    "a.jpg",
			ContentType: "image/jpeg",
			Size:        1,
			Data:        bytes.NewReader([]byte("x")),
		})
		return err
	})
	require.Error(t, err)

	saved, lookupErr := memory.NewPropertyRepository(store).ByID(context.Background(), property.PropertyID(created.PropertyID))
	require.NoError(t, lookupErr)
	assert.Empty(t, saved.Photos)
}
