package utils

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const slugCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// Public slugs end in "mp4" so they read like plain video files.
const slugSuffix = "mp4"

var (
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMu     sync.Mutex
)

// GenerateSlug returns a random 5-character string followed by the "mp4"
// suffix, e.g. "k3x9amp4".
func GenerateSlug() string {
	randMu.Lock()
	defer randMu.Unlock()
	b := make([]byte, 5)
	for i := range b {
		b[i] = slugCharset[seededRand.Intn(len(slugCharset))]
	}
	return string(b) + slugSuffix
}

// RandomPercent draws a uniform value in [0,100).
func RandomPercent() int {
	randMu.Lock()
	defer randMu.Unlock()
	return seededRand.Intn(100)
}

// PickRandom returns a uniformly random element of urls, or "" when empty.
func PickRandom(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	randMu.Lock()
	defer randMu.Unlock()
	return urls[seededRand.Intn(len(urls))]
}

// GenerateAPIKey generates a UUID string to be used as an API key.
func GenerateAPIKey() string {
	return uuid.NewString()
}

// GenerateSessionID generates a visitor session token handed to the landing
// page client; the client echoes it back on tracking calls.
func GenerateSessionID() string {
	return uuid.NewString()
}
