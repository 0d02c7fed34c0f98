package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRedisCache_Unreachable(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Act
	cache, err := NewRedisCache(ctx, "127.0.0.1:1", zap.NewNop())

	// Assert
	require.Error(t, err)
	assert.Nil(t, cache)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
