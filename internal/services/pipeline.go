package services

import (
	"context"
	"log/slog"
	"time"

	"vidgate/internal/models"
	"vidgate/pkg/utils"
)

// VisitContext carries everything a single visit needs for redirect
// evaluation. Settings are fetched per request and passed in explicitly; the
// evaluators hold no per-account state.
type VisitContext struct {
	Link        *models.Link
	Global      *models.GlobalSettings
	VisitorID   string // source address
	PrimaryURLs []string
	TimedURLs   []string
	Now         time.Time
}

// RedirectOutcome is the pipeline result for one visit. At most one of
// Decision and Timed is active: a fired decision suppresses the countdown.
type RedirectOutcome struct {
	Decision Decision  `json:"decision"`
	Timed    TimedPlan `json:"timed"`
}

// RedirectPipeline runs the evaluators in precedence order (lucky, then
// smart), short-circuiting on the first hit. The timed plan is attached only
// when nothing fired.
type RedirectPipeline struct {
	lucky  *LuckyEvaluator
	smart  *SmartEvaluator
	logger *slog.Logger
}

func NewRedirectPipeline(lucky *LuckyEvaluator, smart *SmartEvaluator, logger *slog.Logger) *RedirectPipeline {
	return &RedirectPipeline{lucky: lucky, smart: smart, logger: logger}
}

func (p *RedirectPipeline) Evaluate(ctx context.Context, visit VisitContext) RedirectOutcome {
	settings := EffectiveLuckySettings(visit.Link, visit.Global)
	if d := p.lucky.Evaluate(settings, visit.PrimaryURLs, visit.VisitorID, visit.Now); d.Redirect {
		return RedirectOutcome{Decision: d}
	}

	if visit.Link != nil && visit.Link.RedirectEnabled {
		if d := p.smart.Evaluate(ctx, visit.VisitorID, visit.PrimaryURLs); d.Redirect {
			return RedirectOutcome{Decision: d}
		}
	}

	return RedirectOutcome{Timed: EvaluateTimed(visit.Global, visit.TimedURLs)}
}

// EvaluateFinalRedirect is the end-of-playback fallback: a uniform random pick
// from the primary list, only when the link's redirect flag is on and nothing
// fired earlier (the client guarantees the latter).
func EvaluateFinalRedirect(link *models.Link, urls []string) Decision {
	if link == nil || !link.RedirectEnabled || len(urls) == 0 {
		return Decision{}
	}
	return Decision{Redirect: true, URL: utils.PickRandom(urls), Source: "final"}
}
