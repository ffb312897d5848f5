package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "links", Link{}.TableName())
	assert.Equal(t, "global_settings", GlobalSettings{}.TableName())
	assert.Equal(t, "redirect_urls", RedirectURL{}.TableName())
	assert.Equal(t, "timed_redirect_urls", TimedRedirectURL{}.TableName())
	assert.Equal(t, "daily_stats", DailyStat{}.TableName())
	assert.Equal(t, "online_sessions", OnlineSession{}.TableName())
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}
