package app_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jantrick/jantrick/config"
	"github.com/jantrick/jantrick/pkg/app"
	"github.com/jantrick/jantrick/pkg/payment"
)

func memoryConfig() *config.Config {
	return &config.Config{
		AppEnv:         "testing",
		DBDriver:       config.DriverMemory,
		TokenSecret:    "app-test",
		SeedAdminEmail: "boss@jantrick.test",
	}
}

func TestMemoryDriver(t *testing.T) {
	ctx := context.Background()
	a, err := app.New(ctx, memoryConfig())
	require.NoError(t, err)
	defer a.Close(ctx) //nolint:errcheck

	_, err = a.Migrator()
	assert.ErrorIs(t, err, app.ErrNoDatabase)

	var out bytes.Buffer
	require.NoError(t, a.Seed(ctx, &out))

	admin, err := a.Auth().IsAdmin(ctx, "boss@jantrick.test")
	require.NoError(t, err)
	assert.True(t, admin)
}

func TestProcessorWithoutKey(t *testing.T) {
	a, err := app.New(context.Background(), memoryConfig())
	require.NoError(t, err)

	_, err = a.Processor().CreateIntent(context.Background(), 100, "inr")
	assert.ErrorIs(t, err, payment.ErrProcessor)
}

func TestProcessorWithKey(t *testing.T) {
	cfg := memoryConfig()
	cfg.PaymentSecretKey = "sk_test_123"
	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)

	assert.IsType(t, &payment.Stripe{}, a.Processor())
}

func TestBootReadsEnvironment(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "from-env")
	t.Setenv("DB_DRIVER", "memory")

	a, err := app.Boot(context.Background(), t.TempDir()+"/none.env")
	require.NoError(t, err)
	assert.Equal(t, "from-env", a.Config.TokenSecret)
	assert.NotNil(t, a.Stores.Tools)
}
