package services

import (
	"context"
	"fmt"

	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/utils"
)

// Delivery decision outcomes. An order that does not qualify is never
// rejected, it degrades to pickup with no fee.
const (
	OutcomeDelivery          = "delivery"
	OutcomePickupRequested   = "pickup_requested"
	OutcomePickupUnresolved  = "pickup_address_unresolved"
	OutcomePickupOutOfRange  = "pickup_out_of_range"
)

type DeliveryDecision struct {
	IsDelivery bool     `json:"is_delivery"`
	Fee        float64  `json:"fee"`
	Outcome    string   `json:"outcome"`
	Reason     string   `json:"reason"`
	Blocks     float64  `json:"blocks,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
}

// DeliveryService decides whether an order qualifies for delivery and what
// fee applies. The decision is a pure function of the inputs and the
// current configuration.
type DeliveryService struct {
	Geocoder Geocoder
	Settings *SettingsService

	// Origin returns the branch coordinates deliveries are measured from.
	Origin func(ctx context.Context) (lat, lon float64)

	RadiusBlocks float64
	BlockMeters  float64
	DefaultFee   float64
}

func NewDeliveryService(geocoder Geocoder, settings *SettingsService, maps *MapsService, radiusBlocks, blockMeters, defaultFee float64) *DeliveryService {
	return &DeliveryService{
		Geocoder:     geocoder,
		Settings:     settings,
		Origin:       maps.Origin,
		RadiusBlocks: radiusBlocks,
		BlockMeters:  blockMeters,
		DefaultFee:   defaultFee,
	}
}

// CheckDelivery resolves the requested address and applies the delivery
// radius. Geocoding failure and out-of-range addresses both degrade to
// pickup; the outcome distinguishes why.
func (ds *DeliveryService) CheckDelivery(ctx context.Context, companyID uint, address string, requested bool) DeliveryDecision {
	if !requested {
		return DeliveryDecision{
			Outcome: OutcomePickupRequested,
			Reason:  "order will be picked up at the branch",
		}
	}

	lat, lon, err := ds.Geocoder.Geocode(ctx, address)
	if err != nil {
		utils.InfoLogger.Printf("Address %q could not be resolved, falling back to pickup: %v", address, err)
		return DeliveryDecision{
			Outcome: OutcomePickupUnresolved,
			Reason:  "the delivery address could not be validated, the order will be picked up at the branch",
		}
	}

	originLat, originLon := ds.Origin(ctx)
	blocks := BlockDistance(originLat, originLon, lat, lon, ds.BlockMeters)

	if blocks > ds.RadiusBlocks {
		return DeliveryDecision{
			Outcome: OutcomePickupOutOfRange,
			Reason:  fmt.Sprintf("the address is %.2f blocks away, outside the %.0f block delivery radius; the order will be picked up at the branch", blocks, ds.RadiusBlocks),
			Blocks:  blocks,
			Lat:     &lat,
			Lon:     &lon,
		}
	}

	fee := ds.Settings.GetFloat(models.SettingDeliveryFee, &companyID, ds.DefaultFee)
	return DeliveryDecision{
		IsDelivery: true,
		Fee:        fee,
		Outcome:    OutcomeDelivery,
		Reason:     fmt.Sprintf("the address is %.2f blocks away, within the delivery radius", blocks),
		Blocks:     blocks,
		Lat:        &lat,
		Lon:        &lon,
	}
}
