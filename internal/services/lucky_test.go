package services

import (
	"fmt"
	"testing"
	"time"

	"vidgate/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestLuckyEvaluator_RandomMode(t *testing.T) {
	now := time.Now()
	urls := []string{"https://a.example", "https://b.example"}

	t.Run("Disabled Never Redirects", func(t *testing.T) {
		e := NewLuckyEvaluator()
		d := e.Evaluate(LuckySettings{Enabled: false, Percentage: 100, Mode: models.LuckyModeRandom}, urls, "1.2.3.4", now)
		assert.False(t, d.Redirect)
	})

	t.Run("Empty URL List Never Redirects", func(t *testing.T) {
		e := NewLuckyEvaluator()
		d := e.Evaluate(LuckySettings{Enabled: true, Percentage: 100, Mode: models.LuckyModeRandom}, nil, "1.2.3.4", now)
		assert.False(t, d.Redirect)
	})

	t.Run("Percentage 100 Always Redirects", func(t *testing.T) {
		e := NewLuckyEvaluator()
		for i := 0; i < 50; i++ {
			d := e.Evaluate(LuckySettings{Enabled: true, Percentage: 100, Mode: models.LuckyModeRandom}, []string{"https://a.example"}, "1.2.3.4", now)
			assert.True(t, d.Redirect)
			assert.Equal(t, "https://a.example", d.URL)
			assert.Equal(t, "lucky", d.Source)
		}
	})

	t.Run("Percentage 0 Never Redirects", func(t *testing.T) {
		e := NewLuckyEvaluator()
		for i := 0; i < 50; i++ {
			d := e.Evaluate(LuckySettings{Enabled: true, Percentage: 0, Mode: models.LuckyModeRandom}, urls, "1.2.3.4", now)
			assert.False(t, d.Redirect)
		}
	})

	t.Run("Boundary Draw", func(t *testing.T) {
		e := &LuckyEvaluator{draw: func() int { return 29 }, pick: func(u []string) string { return u[0] }}
		assert.True(t, e.Evaluate(LuckySettings{Enabled: true, Percentage: 30, Mode: models.LuckyModeRandom}, urls, "x", now).Redirect)

		e.draw = func() int { return 30 }
		assert.False(t, e.Evaluate(LuckySettings{Enabled: true, Percentage: 30, Mode: models.LuckyModeRandom}, urls, "x", now).Redirect)
	})

	t.Run("Observed Rate Converges", func(t *testing.T) {
		e := NewLuckyEvaluator()
		settings := LuckySettings{Enabled: true, Percentage: 30, Mode: models.LuckyModeRandom}

		hits := 0
		const n = 20000
		for i := 0; i < n; i++ {
			if e.Evaluate(settings, urls, "1.2.3.4", now).Redirect {
				hits++
			}
		}
		rate := float64(hits) / float64(n)
		assert.InDelta(t, 0.30, rate, 0.03)
	})
}

func TestLuckyEvaluator_DailyMode(t *testing.T) {
	urls := []string{"https://a.example"}
	settings := LuckySettings{Enabled: true, Percentage: 50, Mode: models.LuckyModeDaily}
	e := NewLuckyEvaluator()

	t.Run("Deterministic Within A Day", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		first := e.Evaluate(settings, urls, "203.0.113.7", now)
		for i := 0; i < 20; i++ {
			again := e.Evaluate(settings, urls, "203.0.113.7", now.Add(time.Duration(i)*time.Minute))
			assert.Equal(t, first.Redirect, again.Redirect)
		}
	})

	t.Run("Can Change The Next Day", func(t *testing.T) {
		// Over many visitors, outcomes must not be identical across two days.
		day1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		day2 := day1.Add(24 * time.Hour)

		changed := false
		for i := 0; i < 200; i++ {
			visitor := fmt.Sprintf("198.51.100.%d", i)
			if e.Evaluate(settings, urls, visitor, day1).Redirect != e.Evaluate(settings, urls, visitor, day2).Redirect {
				changed = true
				break
			}
		}
		assert.True(t, changed)
	})

	t.Run("Roughly Uniform Across Visitors", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		hits := 0
		const n = 10000
		for i := 0; i < n; i++ {
			if e.Evaluate(settings, urls, fmt.Sprintf("visitor-%d", i), now).Redirect {
				hits++
			}
		}
		rate := float64(hits) / float64(n)
		assert.InDelta(t, 0.50, rate, 0.05)
	})
}

func TestEffectiveLuckySettings(t *testing.T) {
	global := &models.GlobalSettings{LuckyEnabled: true, LuckyPercentage: 25, LuckyMode: models.LuckyModeDaily}

	t.Run("Global Settings Apply Without Override", func(t *testing.T) {
		link := &models.Link{}
		s := EffectiveLuckySettings(link, global)
		assert.True(t, s.Enabled)
		assert.Equal(t, 25, s.Percentage)
		assert.Equal(t, models.LuckyModeDaily, s.Mode)
	})

	t.Run("Link Override Replaces Global", func(t *testing.T) {
		link := &models.Link{LuckyEnabled: true, LuckyPercentage: 80, LuckyMode: models.LuckyModeRandom}
		s := EffectiveLuckySettings(link, global)
		assert.True(t, s.Enabled)
		assert.Equal(t, 80, s.Percentage)
		assert.Equal(t, models.LuckyModeRandom, s.Mode)
	})

	t.Run("Override Defaults To Random Mode", func(t *testing.T) {
		link := &models.Link{LuckyEnabled: true, LuckyPercentage: 10}
		s := EffectiveLuckySettings(link, global)
		assert.Equal(t, models.LuckyModeRandom, s.Mode)
	})

	t.Run("Nil Global Without Override Disables", func(t *testing.T) {
		s := EffectiveLuckySettings(&models.Link{}, nil)
		assert.False(t, s.Enabled)
	})
}
