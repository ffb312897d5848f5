package services

import (
	"vidgate/internal/models"
)

const defaultTimedDelaySeconds = 5

// TimedPlan tells the landing client whether to start a countdown and where
// it may land. The countdown itself runs client-side and is cancelled by
// navigation or by an earlier redirect.
type TimedPlan struct {
	Enabled      bool     `json:"enabled"`
	DelaySeconds int      `json:"delay_seconds,omitempty"`
	URLs         []string `json:"urls,omitempty"`
}

// EvaluateTimed builds the countdown plan from the account's global settings
// and the timed URL list. An empty list disables the feature.
func EvaluateTimed(global *models.GlobalSettings, urls []string) TimedPlan {
	if global == nil || !global.TimedRedirectEnabled || len(urls) == 0 {
		return TimedPlan{}
	}

	delay := global.TimedRedirectDelay
	if delay <= 0 {
		delay = defaultTimedDelaySeconds
	}

	return TimedPlan{Enabled: true, DelaySeconds: delay, URLs: urls}
}
