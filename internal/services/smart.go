package services

import (
	"context"
	"log/slog"
	"time"

	"vidgate/pkg/utils"
)

const (
	// An address is redirected at most smartRedirectCap times per window.
	smartRedirectCap    = 2
	smartRedirectWindow = 5 * time.Minute
)

// SmartEvaluator issues history-capped redirects keyed by source address:
// fresh → redirected-once → redirected-twice (terminal until expiry).
type SmartEvaluator struct {
	store  HistoryStore
	logger *slog.Logger
	pick   func([]string) string
}

func NewSmartEvaluator(store HistoryStore, logger *slog.Logger) *SmartEvaluator {
	return &SmartEvaluator{
		store:  store,
		logger: logger,
		pick:   utils.PickRandom,
	}
}

// Evaluate decides whether the address gets redirected and to where. Store
// failures retry once and then fail closed: the visitor sees content.
func (e *SmartEvaluator) Evaluate(ctx context.Context, addr string, urls []string) Decision {
	if len(urls) == 0 || addr == "" {
		return Decision{}
	}

	count, err := e.store.Bump(ctx, addr, smartRedirectWindow)
	if err != nil {
		count, err = e.store.Bump(ctx, addr, smartRedirectWindow)
	}
	if err != nil {
		e.logger.Warn("smart redirect history unavailable, skipping redirect", "error", err)
		return Decision{}
	}

	if count > smartRedirectCap {
		return Decision{}
	}

	last, err := e.store.LastURL(ctx, addr)
	if err != nil {
		e.logger.Warn("failed to read last redirect url", "error", err)
		last = ""
	}

	url := e.pickPreferDifferent(urls, last)
	if err := e.store.SetLastURL(ctx, addr, url, smartRedirectWindow); err != nil {
		e.logger.Warn("failed to record last redirect url", "error", err)
	}

	return Decision{Redirect: true, URL: url, Source: "smart"}
}

// pickPreferDifferent picks a random URL, avoiding last when more than one
// destination is available.
func (e *SmartEvaluator) pickPreferDifferent(urls []string, last string) string {
	if last == "" || len(urls) < 2 {
		return e.pick(urls)
	}

	others := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != last {
			others = append(others, u)
		}
	}
	if len(others) == 0 {
		return e.pick(urls)
	}
	return e.pick(others)
}
