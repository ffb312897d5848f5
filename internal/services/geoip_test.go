package services

import (
	"testing"

	"vidgate/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestGeoIPService_Fallbacks(t *testing.T) {
	logger := newTestLogger()

	t.Run("No Database Configured", func(t *testing.T) {
		s := NewGeoIPService(config.Config{}, logger)
		s.Init()
		assert.Equal(t, "Unknown", s.Country("8.8.8.8"))
	})

	t.Run("Database File Missing", func(t *testing.T) {
		s := NewGeoIPService(config.Config{GeoIPDBPath: "/nonexistent/geo.mmdb"}, logger)
		s.Init()
		assert.Equal(t, "Unknown", s.Country("8.8.8.8"))
	})

	t.Run("Invalid Address", func(t *testing.T) {
		s := NewGeoIPService(config.Config{}, logger)
		assert.Equal(t, "Unknown", s.Country("not-an-ip"))
	})

	t.Run("Close Is Idempotent", func(t *testing.T) {
		s := NewGeoIPService(config.Config{}, logger)
		s.Close()
		s.Close()
	})
}
