//go:build integration

package rod_test

import (
	"context"
	"testing"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/96nitishkumar/hotelscraper/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Page(t *testing.T) {
	t.Parallel()

	t.Run("relaunches the browser once the page budget is spent", func(t *testing.T) {
		t.Parallel()

		s, err := rod.OpenSession(rod.WithPageBudget(2))
		require.NoError(t, err)
		defer s.Close()

		for range 2 {
			page, err := s.Page(context.Background())
			require.NoError(t, err)
			require.NoError(t, page.Close())
		}
		assert.Equal(t, 1, s.Generation())

		page, err := s.Page(context.Background())
		require.NoError(t, err)
		require.NoError(t, page.Close())
		assert.Equal(t, 2, s.Generation())
	})

	t.Run("keeps the browser within the budget", func(t *testing.T) {
		t.Parallel()

		s, err := rod.OpenSession(rod.WithPageBudget(5))
		require.NoError(t, err)
		defer s.Close()

		pid := s.LauncherPID()
		for range 3 {
			page, err := s.Page(context.Background())
			require.NoError(t, err)
			require.NoError(t, page.Close())
		}

		assert.Equal(t, 1, s.Generation())
		assert.Equal(t, pid, s.LauncherPID())
	})

	t.Run("refuses pages after close", func(t *testing.T) {
		t.Parallel()

		s, err := rod.OpenSession()
		require.NoError(t, err)

		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		_, err = s.Page(context.Background())
		require.Error(t, err)
		assert.Equal(t, hotelscraper.EINVALID, hotelscraper.ErrorCode(err))
		assert.Zero(t, s.LauncherPID())
	})
}
