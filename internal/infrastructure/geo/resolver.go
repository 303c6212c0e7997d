// Package geo resolves client IPs to coarse locations using a MaxMind
// GeoIP2 database.
package geo

import (
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"

	"github.com/granada-os/backend/internal/domain/analytics"
	infraconfig "github.com/granada-os/backend/internal/infrastructure/config"
)

// ErrUnavailable is returned when no GeoIP database is loaded
var ErrUnavailable = errors.New("geoip resolver unavailable")

var _ analytics.GeoResolver = (*Resolver)(nil)
var _ analytics.GeoResolver = (*NoopResolver)(nil)

// Resolver looks up country and city for an IP in a GeoIP2 City database
type Resolver struct {
	reader *geoip2.Reader
}

// NewResolver builds the resolver selected by configuration. When geo
// resolution is disabled or no database path is configured, a
// NoopResolver is returned and analytics snapshots carry no location.
func NewResolver(cfg *infraconfig.GeoConfig, logger *zap.Logger) (analytics.GeoResolver, error) {
	if cfg == nil || !cfg.Enabled || cfg.DatabasePath == "" {
		return &NoopResolver{}, nil
	}

	reader, err := geoip2.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database: %w", err)
	}

	if logger != nil {
		logger.Info("GeoIP resolver initialized", zap.String("database", cfg.DatabasePath))
	}
	return &Resolver{reader: reader}, nil
}

// Resolve returns the location for the given IP. Unknown IPs resolve
// to an empty location rather than an error.
func (r *Resolver) Resolve(ip string) (analytics.Location, error) {
	if r == nil || r.reader == nil {
		return analytics.Location{}, ErrUnavailable
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return analytics.Location{}, fmt.Errorf("invalid ip %q", ip)
	}

	record, err := r.reader.City(parsed)
	if err != nil {
		return analytics.Location{}, fmt.Errorf("failed to look up ip: %w", err)
	}
	if record == nil {
		return analytics.Location{}, nil
	}

	return analytics.Location{
		Country: record.Country.Names["en"],
		City:    record.City.Names["en"],
	}, nil
}

// Close closes the underlying database reader
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}

// NoopResolver resolves every IP to an empty location
type NoopResolver struct{}

// Resolve always returns an empty location
func (NoopResolver) Resolve(ip string) (analytics.Location, error) {
	return analytics.Location{}, nil
}
