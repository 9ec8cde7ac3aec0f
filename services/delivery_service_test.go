package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGeocoder struct {
	lat, lon float64
	err      error
}

func (s stubGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	return s.lat, s.lon, nil
}

const (
	testOriginLat = -34.6037
	testOriginLon = -58.3816
)

func newDeliveryService(geocoder Geocoder, settings *SettingsService) *DeliveryService {
	return &DeliveryService{
		Geocoder: geocoder,
		Settings: settings,
		Origin: func(ctx context.Context) (float64, float64) {
			return testOriginLat, testOriginLon
		},
		RadiusBlocks: 30,
		BlockMeters:  80,
		DefaultFee:   500,
	}
}

func TestCheckDeliveryNotRequested(t *testing.T) {
	db := newTestDB(t)
	ds := newDeliveryService(stubGeocoder{}, NewSettingsService(db))

	decision := ds.CheckDelivery(context.Background(), 1, "", false)
	assert.False(t, decision.IsDelivery)
	assert.Equal(t, OutcomePickupRequested, decision.Outcome)
	assert.Zero(t, decision.Fee)
}

func TestCheckDeliveryWithinRadius(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Cerca SRL")

	// 0.018 degrees of latitude is about 25 blocks from the origin.
	geocoder := stubGeocoder{lat: testOriginLat + 0.018, lon: testOriginLon}
	ds := newDeliveryService(geocoder, NewSettingsService(db))

	decision := ds.CheckDelivery(context.Background(), company.ID, "Av. Corrientes 1000", true)
	assert.True(t, decision.IsDelivery)
	assert.Equal(t, OutcomeDelivery, decision.Outcome)
	assert.Equal(t, 500.0, decision.Fee)
	assert.InDelta(t, 25.0, decision.Blocks, 0.1)
	assert.NotNil(t, decision.Lat)
	assert.NotNil(t, decision.Lon)
}

func TestCheckDeliveryOutOfRadius(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Lejos SRL")

	// 0.03 degrees of latitude is roughly 42 blocks, past the 30 block
	// radius.
	geocoder := stubGeocoder{lat: testOriginLat + 0.03, lon: testOriginLon}
	ds := newDeliveryService(geocoder, NewSettingsService(db))

	decision := ds.CheckDelivery(context.Background(), company.ID, "Av. Lejana 9999", true)
	assert.False(t, decision.IsDelivery)
	assert.Equal(t, OutcomePickupOutOfRange, decision.Outcome)
	assert.Zero(t, decision.Fee)
	assert.Greater(t, decision.Blocks, 30.0)
}

func TestCheckDeliveryGeocodeFailure(t *testing.T) {
	db := newTestDB(t)
	ds := newDeliveryService(stubGeocoder{err: errors.New("upstream timeout")}, NewSettingsService(db))

	decision := ds.CheckDelivery(context.Background(), 1, "no existe 0", true)
	assert.False(t, decision.IsDelivery)
	assert.Equal(t, OutcomePickupUnresolved, decision.Outcome)
	assert.Zero(t, decision.Fee)
}

func TestCheckDeliveryCompanyFeeOverride(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Tarifa SRL")
	settings := NewSettingsService(db)
	assert.NoError(t, settings.Set("delivery_fee", "750", &company.ID))

	geocoder := stubGeocoder{lat: testOriginLat + 0.018, lon: testOriginLon}
	ds := newDeliveryService(geocoder, settings)

	decision := ds.CheckDelivery(context.Background(), company.ID, "Av. Corrientes 1000", true)
	assert.True(t, decision.IsDelivery)
	assert.Equal(t, 750.0, decision.Fee)
}

func TestCheckDeliveryIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Repetible SRL")

	geocoder := stubGeocoder{lat: testOriginLat + 0.018, lon: testOriginLon}
	ds := newDeliveryService(geocoder, NewSettingsService(db))

	first := ds.CheckDelivery(context.Background(), company.ID, "Av. Corrientes 1000", true)
	second := ds.CheckDelivery(context.Background(), company.ID, "Av. Corrientes 1000", true)
	assert.Equal(t, first, second)
}
