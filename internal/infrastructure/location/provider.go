package location

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/coopandina/teller/internal/domain/model"
)

// EnvProvider reads a GPS fix from the TELLER_LATITUDE and TELLER_LONGITUDE
// environment variables, set by the device shell that launches the service.
// It implements port.LocationProvider; an absent or malformed fix is an
// error callers may ignore.
type EnvProvider struct{}

// NewEnvProvider creates an EnvProvider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// CurrentLocation returns the configured fix, or an error when none is set.
func (p *EnvProvider) CurrentLocation(ctx context.Context) (model.Coordinates, error) {
	latRaw, lngRaw := os.Getenv("TELLER_LATITUDE"), os.Getenv("TELLER_LONGITUDE")
	if latRaw == "" || lngRaw == "" {
		return model.Coordinates{}, fmt.Errorf("no GPS fix available")
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("parse longitude: %w", err)
	}

	return model.Coordinates{Latitude: lat, Longitude: lng}, nil
}
