package services

import (
	"hash/fnv"
	"time"

	"vidgate/internal/models"
	"vidgate/pkg/utils"
)

// LuckySettings is the effective lucky-redirect configuration for one visit,
// resolved from the account's GlobalSettings or a per-link override.
type LuckySettings struct {
	Enabled    bool
	Percentage int
	Mode       string // models.LuckyModeRandom | models.LuckyModeDaily
}

// Decision is the outcome of a single redirect evaluator.
type Decision struct {
	Redirect bool   `json:"redirect"`
	URL      string `json:"url,omitempty"`
	Source   string `json:"source,omitempty"` // "lucky" | "smart" | "final"
}

// LuckyEvaluator decides whether a given visit is redirected based on a
// configured percentage. The draw function is injectable for tests.
type LuckyEvaluator struct {
	draw func() int // uniform [0,100)
	pick func([]string) string
}

func NewLuckyEvaluator() *LuckyEvaluator {
	return &LuckyEvaluator{
		draw: utils.RandomPercent,
		pick: utils.PickRandom,
	}
}

// EffectiveLuckySettings resolves the settings for a link: a link with its own
// lucky override enabled fully replaces the account-level settings.
func EffectiveLuckySettings(link *models.Link, global *models.GlobalSettings) LuckySettings {
	if link != nil && link.LuckyEnabled {
		mode := link.LuckyMode
		if mode == "" {
			mode = models.LuckyModeRandom
		}
		return LuckySettings{Enabled: true, Percentage: link.LuckyPercentage, Mode: mode}
	}
	if global == nil {
		return LuckySettings{}
	}
	return LuckySettings{
		Enabled:    global.LuckyEnabled,
		Percentage: global.LuckyPercentage,
		Mode:       global.LuckyMode,
	}
}

// Evaluate returns a redirect decision for this visit. Empty URL lists never
// redirect regardless of the configured percentage.
func (e *LuckyEvaluator) Evaluate(settings LuckySettings, urls []string, visitorID string, now time.Time) Decision {
	if !settings.Enabled || len(urls) == 0 {
		return Decision{}
	}

	pct := settings.Percentage
	if pct <= 0 {
		return Decision{}
	}
	if pct > 100 {
		pct = 100
	}

	var value int
	if settings.Mode == models.LuckyModeDaily {
		value = dailyBucket(visitorID, now)
	} else {
		value = e.draw()
	}

	if value >= pct {
		return Decision{}
	}

	return Decision{Redirect: true, URL: e.pick(urls), Source: "lucky"}
}

// dailyBucket reduces (visitor, UTC date) to a stable value in [0,100). The
// same visitor gets the same bucket all day; the bucket changes with the date.
func dailyBucket(visitorID string, now time.Time) int {
	h := fnv.New32a()
	h.Write([]byte(visitorID))
	h.Write([]byte{'|'})
	h.Write([]byte(now.UTC().Format("2006-01-02")))
	return int(h.Sum32() % 100)
}
