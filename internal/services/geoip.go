package services

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"vidgate/internal/config"

	"github.com/oschwald/geoip2-golang"
)

// GeoIPService resolves visitor countries from a local MaxMind database.
// Lookups degrade to "Unknown" when the database is missing or unreadable.
type GeoIPService struct {
	cfg    config.Config
	logger *slog.Logger
	mu     sync.RWMutex
	reader *geoip2.Reader
}

func NewGeoIPService(cfg config.Config, logger *slog.Logger) *GeoIPService {
	return &GeoIPService{cfg: cfg, logger: logger}
}

// Init opens the configured database if present. Safe to call in a goroutine.
func (s *GeoIPService) Init() {
	path := s.cfg.GeoIPDBPath
	if path == "" {
		s.logger.Warn("GeoIP: no database path configured, lookups disabled")
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.logger.Warn("GeoIP: database not found, lookups disabled", "path", path)
		return
	}

	reader, err := geoip2.Open(path)
	if err != nil {
		s.logger.Error("GeoIP: failed to open database", "path", path, "error", err)
		return
	}

	s.mu.Lock()
	s.reader = reader
	s.mu.Unlock()
	s.logger.Info("GeoIP: database loaded", "path", path)
}

// Country returns the country name for an address, or "Unknown".
func (s *GeoIPService) Country(ipStr string) string {
	s.mu.RLock()
	reader := s.reader
	s.mu.RUnlock()

	if reader == nil {
		return "Unknown"
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "Unknown"
	}

	record, err := reader.Country(ip)
	if err != nil || record.Country.Names["en"] == "" {
		return "Unknown"
	}
	return record.Country.Names["en"]
}

func (s *GeoIPService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader != nil {
		s.reader.Close()
		s.reader = nil
	}
}
