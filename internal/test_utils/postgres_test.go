package test_utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestRunRecovering(t *testing.T) {
	t.Run("provider panic becomes an error", func(t *testing.T) {
		container, err := runRecovering(func() (*postgres.PostgresContainer, error) {
			panic("rootless Docker not found")
		})

		require.Error(t, err)
		assert.Nil(t, container)
		assert.Contains(t, err.Error(), "rootless Docker not found")
	})

	t.Run("errors are passed through", func(t *testing.T) {
		failure := errors.New("pull failed")

		_, err := runRecovering(func() (*postgres.PostgresContainer, error) {
			return nil, failure
		})

		assert.ErrorIs(t, err, failure)
	})
}
