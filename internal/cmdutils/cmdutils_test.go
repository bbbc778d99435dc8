package cmdutils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openkcm/common-sdk/pkg/health"
	"github.com/stretchr/testify/assert"

	"github.com/shopfront/storefront-manager/internal/config"
)

func TestCobraCommand(t *testing.T) {
	businessFunc := func(ctx context.Context, cfg *config.Config) error {
		return nil
	}

	wrapperFunc := func(ctx context.Context, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
		return fn(ctx, cfg)
	}

	t.Run("creates command with correct properties", func(t *testing.T) {
		cmd := CobraCommand("test-cmd", "short desc", "long description", "v1.0.0", wrapperFunc, businessFunc)

		assert.Equal(t, "test-cmd", cmd.Use)
		assert.Equal(t, "short desc", cmd.Short)
		assert.Equal(t, "long description", cmd.Long)
		assert.NotNil(t, cmd.RunE)
	})

	t.Run("RunE returns error when config loading fails", func(t *testing.T) {
		cmd := CobraCommand("test", "short", "long", "v1.0.0", wrapperFunc, businessFunc)

		// Execute will fail because no config file exists
		err := cmd.Execute()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "loading config")
	})
}

func TestStatusListener(t *testing.T) {
	t.Run("handles state with check states", func(t *testing.T) {
		state := health.State{
			Status: "degraded",
			CheckState: map[string]health.CheckState{
				"database": {
					Status: "up",
					Result: nil,
				},
				"cache": {
					Status: "down",
					Result: errors.New("connection refused"),
				},
			},
		}

		assert.NotPanics(t, func() {
			statusListener(context.Background(), state)
		})
	})
}

func TestStartStatusServer(t *testing.T) {
	t.Run("returns error when connection string creation fails", func(t *testing.T) {
		cfg := &config.Config{
			Database: config.Database{
				Name: "",
				Port: "",
			},
		}
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := startStatusServer(ctx, cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "making connection string from config")
	})
}
