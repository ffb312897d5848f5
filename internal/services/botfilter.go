package services

import (
	"strings"
)

// Deny-list of known non-human agents. Entries are product tokens rather than
// bare words like "bot" so that genuine browser UAs are never caught.
var botPatterns = []string{
	// Social preview fetchers
	"facebookexternalhit", "facebot", "facebookplatform",
	"twitterbot", "linkedinbot",
	"slackbot-linkexpanding", "discordbot", "telegrambot", "vkshare", "pinterestbot",
	// HTTP libraries
	"curl/", "wget/", "python-requests", "python-urllib", "scrapy", "httpclient", "java/", "okhttp", "axios/",
	// Automation frameworks
	"headlesschrome", "phantomjs", "selenium", "webdriver",
	// SEO / scraping crawlers
	"ahrefsbot", "semrushbot", "mj12bot", "dotbot", "blexbot", "yandexbot", "baiduspider",
	"sogou", "exabot", "ia_archiver", "archive.org_bot", "petalbot", "dataforseobot", "siteauditbot", "screaming frog",
	// AI crawlers
	"gptbot", "chatgpt-user", "ccbot", "anthropic-ai", "claude-web", "bytespider", "amazonbot", "meta-externalagent",
	// Ad bots
	"mediapartners-google", "adsbot-google", "storebot-google",
}

// Major search-engine crawlers keep seeing pages for indexing even when a
// deny-list term would also match.
var allowedBots = []string{
	"googlebot", "bingbot", "applebot", "duckduckbot",
}

// IsBot classifies a user agent string. It is total: empty or implausibly
// short input counts as a bot.
func IsBot(userAgent string) bool {
	if len(userAgent) < 10 {
		return true
	}

	lower := strings.ToLower(userAgent)

	for _, allowed := range allowedBots {
		if strings.Contains(lower, allowed) {
			return false
		}
	}

	for _, pattern := range botPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}
