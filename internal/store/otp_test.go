package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOTPVerifyConsumesCode(t *testing.T) {
	s := NewMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "jean@example.com", "123456", time.Minute))

	assert.True(t, s.Verify(ctx, "jean@example.com", "123456"))
	// Un code est à usage unique
	assert.False(t, s.Verify(ctx, "jean@example.com", "123456"))
}

func TestMemoryOTPWrongCode(t *testing.T) {
	s := NewMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "jean@example.com", "123456", time.Minute))

	assert.False(t, s.Verify(ctx, "jean@example.com", "654321"))
	// Un essai raté ne consomme pas le code
	assert.True(t, s.Verify(ctx, "jean@example.com", "123456"))
}

func TestMemoryOTPExpired(t *testing.T) {
	s := NewMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "jean@example.com", "123456", -time.Second))

	assert.False(t, s.Verify(ctx, "jean@example.com", "123456"))
}

func TestMemoryOTPUnknownEmail(t *testing.T) {
	s := NewMemoryOTPStore()

	assert.False(t, s.Verify(context.Background(), "inconnu@example.com", "123456"))
}
