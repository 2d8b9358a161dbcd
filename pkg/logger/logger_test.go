package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jantrick/jantrick/pkg/logger"
)

func TestProductionLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)
	log.Info("order placed", "email", "buyer@example.com")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order placed", line["msg"])
	assert.Equal(t, "buyer@example.com", line["email"])
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("local", &buf)
	assert.Same(t, base, logger.WithCtx(context.Background()))

	scoped := base.With("request_id", "abc")
	ctx := logger.InjectLogger(context.Background(), scoped)
	assert.Same(t, scoped, logger.WithCtx(ctx))
}
