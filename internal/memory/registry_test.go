package memory_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/nutrition/internal/memory"
)

type counter struct {
	Owner string
	Value int
}

func TestRegistry(t *testing.T) {
	created := 0
	registry := memory.NewRegistry(func(accountId string) (*counter, error) {
		created++
		if accountId == "broken" {
			return nil, errors.New("cannot create")
		}
		return &counter{Owner: accountId}, nil
	})

	t.Run("accounts are isolated", func(t *testing.T) {
		require.NoError(t, registry.Write("alice", func(c *counter) error {
			c.Value = 5
			return nil
		}))
		require.NoError(t, registry.Read("bob", func(c *counter) error {
			assert.Equal(t, "bob", c.Owner)
			assert.Equal(t, 0, c.Value)
			return nil
		}))
		assert.Equal(t, 2, created)
	})

	t.Run("concurrent writers serialize", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = registry.Write("carol", func(c *counter) error {
					c.Value++
					return nil
				})
			}()
		}
		wg.Wait()
		require.NoError(t, registry.Read("carol", func(c *counter) error {
			assert.Equal(t, 50, c.Value)
			return nil
		}))
	})

	t.Run("creation failures propagate", func(t *testing.T) {
		err := registry.Read("broken", func(c *counter) error { return nil })
		assert.EqualError(t, err, "cannot create")
	})
}
