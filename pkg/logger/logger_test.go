package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, []interface{}{"error", err}, fields([]interface{}{err}))
	assert.Equal(t, []interface{}{"a", 1}, fields([]interface{}{"a", 1}))
	assert.Equal(t, []interface{}{"a", 1, "error", err}, fields([]interface{}{"a", 1, err}))
	assert.Empty(t, fields(nil))
}

func TestInitDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Init("production")
		Info("feed_started", "port", "8080")
		Error("failed", errors.New("boom"))
		Sync()
	})
}

func TestTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trace-1")

	assert.Equal(t, "trace-1", TraceID(ctx))
	assert.Equal(t, "", TraceID(context.Background()))
}
