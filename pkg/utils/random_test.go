package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		slug := GenerateSlug()
		assert.Len(t, slug, 8)
		assert.True(t, strings.HasSuffix(slug, "mp4"))
		for _, c := range slug {
			assert.Contains(t, slugCharset, string(c))
		}
		seen[slug] = true
	}
	// 100 draws over a 36^5 space should not collide into a single value
	assert.Greater(t, len(seen), 1)
}

func TestRandomPercent(t *testing.T) {
	for i := 0; i < 1000; i++ {
		p := RandomPercent()
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, 100)
	}
}

func TestPickRandom(t *testing.T) {
	assert.Equal(t, "", PickRandom(nil))
	assert.Equal(t, "a", PickRandom([]string{"a"}))

	urls := []string{"a", "b", "c"}
	for i := 0; i < 100; i++ {
		assert.Contains(t, urls, PickRandom(urls))
	}
}

func TestGenerateAPIKey(t *testing.T) {
	k1 := GenerateAPIKey()
	k2 := GenerateAPIKey()
	assert.Len(t, k1, 36)
	assert.NotEqual(t, k1, k2)
}
