package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	os.Setenv("PORT", "0") // Random port
	os.Setenv("DATABASE_URL", "sqlite://file::memory:?cache=shared")
	os.Setenv("REDIS_URL", "localhost:1")
	os.Setenv("APP_ENV", "local")

	defer os.Unsetenv("PORT")
	defer os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("REDIS_URL")
	defer os.Unsetenv("APP_ENV")

	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)
	go func() {
		errChan <- Run(ctx)
	}()

	// Wait a bit for startup
	time.Sleep(1 * time.Second)

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not exit in time")
	}
}

func TestRun_DBError(t *testing.T) {
	os.Setenv("DATABASE_URL", "unsupported://db")
	defer os.Unsetenv("DATABASE_URL")

	err := Run(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize database")
}

func TestRun_MigrationError(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost:1")
	os.Setenv("REDIS_URL", "localhost:1")
	defer os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("REDIS_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := Run(ctx)
	assert.Error(t, err)
}
