package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"vidgate/internal/config"
	"vidgate/internal/models"
	"vidgate/internal/services"
	"vidgate/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testBrowserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func setupTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.AutoMigrate(
		&models.User{}, &models.Link{}, &models.GlobalSettings{},
		&models.RedirectURL{}, &models.TimedRedirectURL{}, &models.Script{},
		&models.Visit{}, &models.DailyStat{}, &models.OnlineSession{},
		&models.AuditLog{},
	)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{
		SessionSecret: "test-secret-12345678901234567890123456789012",
		CleanupSecret: "cleanup-secret",
	}

	audit := services.NewAuditService(db, logger)
	geoIP := services.NewGeoIPService(cfg, logger)
	visits := services.NewVisitService(db, logger, geoIP)
	links := services.NewLinkService(db, nil, logger, audit)
	settings := services.NewSettingsService(db, logger)
	scripts := services.NewScriptService(db, logger)
	dashboard := services.NewDashboardService(db, nil, logger)

	history := services.NewMemoryHistoryStore()
	smart := services.NewSmartEvaluator(history, logger)
	pipeline := services.NewRedirectPipeline(services.NewLuckyEvaluator(), smart, logger)
	cleanup := services.NewCleanupService(visits, history, logger)

	h := NewHandler(cfg, logger, db, nil, links, settings, scripts, visits, dashboard, audit, cleanup, pipeline, smart)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil)
}

// doJSON issues a JSON request with an optional API key.
func doJSON(r *gin.Engine, method, path string, body interface{}, apiKey string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testBrowserUA)
	req.RemoteAddr = "203.0.113.10:52100"
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func urlWithID(format string, id uint) string {
	return fmt.Sprintf(format, id)
}

func doRaw(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("User-Agent", testBrowserUA)
	req.RemoteAddr = "203.0.113.10:52100"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// createTestUser inserts a user and returns it with a usable API key.
func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	hash, _ := utils.HashPassword("password123")
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		APIKey:       utils.GenerateAPIKey(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createTestLink(t *testing.T, db *gorm.DB, userID uint, slug string) *models.Link {
	t.Helper()
	link := models.Link{
		UserID:   userID,
		Slug:     slug,
		VideoURL: "https://cdn.example/video.mp4",
	}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("create link: %v", err)
	}
	return &link
}
