package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	all, err := pendingMigrations(0)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].version)
	assert.Equal(t, "001_generated_uis.up.sql", all[0].filename)

	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].version, all[i].version)
	}

	none, err := pendingMigrations(all[len(all)-1].version)
	require.NoError(t, err)
	assert.Empty(t, none)
}
