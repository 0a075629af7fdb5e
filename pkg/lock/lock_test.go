package lock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithUserLockWithoutRedis(t *testing.T) {
	m := NewManager(nil)

	t.Run("Runs the callback directly", func(t *testing.T) {
		called := false
		err := m.WithUserLock(context.Background(), 1, func(ctx context.Context) error {
			called = true
			return nil
		})
		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("Propagates the callback error", func(t *testing.T) {
		wantErr := errors.New("callback failed")
		err := m.WithUserLock(context.Background(), 1, func(ctx context.Context) error {
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
	})
}
