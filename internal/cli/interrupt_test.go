package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInterruptHandler(t *testing.T) {
	handler := NewInterruptHandler(nil, "")
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestInterruptHandler_MessageOnce(t *testing.T) {
	output := &bytes.Buffer{}
	handler := NewInterruptHandler(output, "Saved rules are kept.")

	handler.interrupt()
	handler.interrupt()

	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, strings.Count(output.String(), "Interrupted!"))
	assert.Contains(t, output.String(), "Saved rules are kept.")
}

func TestInterruptHandler_StopCancels(t *testing.T) {
	handler := NewInterruptHandler(&bytes.Buffer{}, "")

	ctx, stop := handler.HandleInterrupts(context.Background())
	assert.NoError(t, ctx.Err())

	stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, handler.WasInterrupted())
}
