package services

import (
	"context"
	"strings"
	"testing"

	"vidgate/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestLinkService(t *testing.T) (*LinkService, *gorm.DB) {
	db := newTestDB(t)
	logger := newTestLogger()
	audit := NewAuditService(db, logger)
	return NewLinkService(db, nil, logger, audit), db
}

func TestLinkService_CreateLink(t *testing.T) {
	s, db := newTestLinkService(t)

	link, err := s.CreateLink(CreateLinkDTO{
		UserID:          1,
		VideoURL:        "https://cdn.example/v.webm",
		RedirectEnabled: true,
		TelegramURL:     "https://t.me/chan",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, link.Slug)
	assert.True(t, strings.HasSuffix(link.Slug, "mp4"))
	assert.True(t, link.RedirectEnabled)

	var stored models.Link
	assert.NoError(t, db.Where("slug = ?", link.Slug).First(&stored).Error)
}

func TestLinkService_CreateLink_RetriesOnCollision(t *testing.T) {
	s, _ := newTestLinkService(t)

	// Force the first generated slug to collide
	_, err := s.CreateLink(CreateLinkDTO{UserID: 1, VideoURL: "https://v.example/a"})
	assert.NoError(t, err)

	calls := 0
	taken := ""
	s.db.Model(&models.Link{}).Select("slug").First(&taken)
	s.slugGenerator = func() string {
		calls++
		if calls == 1 {
			return taken
		}
		return "fresh" + "mp4"
	}

	link, err := s.CreateLink(CreateLinkDTO{UserID: 1, VideoURL: "https://v.example/b"})
	assert.NoError(t, err)
	assert.Equal(t, "freshmp4", link.Slug)
	assert.Equal(t, 2, calls)
}

func TestLinkService_GetBySlug(t *testing.T) {
	s, db := newTestLinkService(t)
	db.Create(&models.Link{UserID: 1, Slug: "abcdemp4", VideoURL: "https://v.example/x"})

	t.Run("Found", func(t *testing.T) {
		link, err := s.GetBySlug(context.Background(), "abcdemp4")
		assert.NoError(t, err)
		assert.Equal(t, "https://v.example/x", link.VideoURL)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := s.GetBySlug(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})
}

func TestLinkService_UpdateLink(t *testing.T) {
	s, db := newTestLinkService(t)
	link := models.Link{UserID: 1, Slug: "abcdemp4", VideoURL: "https://v.example/x"}
	db.Create(&link)

	newVideo := "https://v.example/y"
	enabled := true
	_, err := s.UpdateLink(context.Background(), 1, link.ID, UpdateLinkDTO{
		VideoURL:        &newVideo,
		RedirectEnabled: &enabled,
	})
	assert.NoError(t, err)

	var got models.Link
	db.First(&got, link.ID)
	assert.Equal(t, "https://v.example/y", got.VideoURL)
	assert.True(t, got.RedirectEnabled)
	assert.Equal(t, "abcdemp4", got.Slug) // slug immutable

	t.Run("Wrong Owner", func(t *testing.T) {
		_, err := s.UpdateLink(context.Background(), 99, link.ID, UpdateLinkDTO{VideoURL: &newVideo})
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})
}

func TestLinkService_DeleteLink(t *testing.T) {
	s, db := newTestLinkService(t)
	link := models.Link{UserID: 1, Slug: "abcdemp4", VideoURL: "https://v.example/x"}
	db.Create(&link)

	assert.ErrorIs(t, s.DeleteLink(context.Background(), 2, link.ID), ErrLinkNotFound)
	assert.NoError(t, s.DeleteLink(context.Background(), 1, link.ID))

	var count int64
	db.Model(&models.Link{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestLinkService_RandomSlug(t *testing.T) {
	s, db := newTestLinkService(t)

	t.Run("No Links", func(t *testing.T) {
		_, err := s.RandomSlug(context.Background(), "")
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})

	db.Create(&models.Link{UserID: 1, Slug: "aaaaamp4", VideoURL: "https://v.example/a"})
	db.Create(&models.Link{UserID: 1, Slug: "bbbbbmp4", VideoURL: "https://v.example/b"})

	t.Run("Excludes Current", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			slug, err := s.RandomSlug(context.Background(), "aaaaamp4")
			assert.NoError(t, err)
			assert.Equal(t, "bbbbbmp4", slug)
		}
	})

	t.Run("Only Current Exists", func(t *testing.T) {
		db.Where("slug = ?", "bbbbbmp4").Delete(&models.Link{})
		_, err := s.RandomSlug(context.Background(), "aaaaamp4")
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})
}
