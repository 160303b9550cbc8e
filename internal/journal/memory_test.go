package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryJournal(t *testing.T) {
	jrnl := NewMemory()
	ctx := t.Context()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Time: base, Op: "connect", Detail: "127.0.0.1:443", Status: 0},
		{Time: base.Add(time.Minute), Op: "login", Status: -4, ErrText: "Login failed"},
		{Time: base.Add(2 * time.Minute), Op: "connect", Detail: "127.0.0.1:444", Status: -3},
	}
	for _, e := range entries {
		require.NoError(t, jrnl.LogOperation(ctx, e))
	}

	t.Run("all entries", func(t *testing.T) {
		got, err := jrnl.Operations(ctx, "", base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("filtered by op", func(t *testing.T) {
		got, err := jrnl.Operations(ctx, "connect", base, base.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "127.0.0.1:443", got[0].Detail)
		assert.Equal(t, "127.0.0.1:444", got[1].Detail)
	})

	t.Run("time window", func(t *testing.T) {
		got, err := jrnl.Operations(ctx, "", base.Add(30*time.Second), base.Add(90*time.Second))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "login", got[0].Op)
		assert.Equal(t, "Login failed", got[0].ErrText)
	})

	require.NoError(t, jrnl.Close())
}
