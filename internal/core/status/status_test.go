package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededIDs(t *testing.T) {
	tests := []struct {
		status Status
		id     ID
	}{
		{New, 5},
		{Done, 6},
		{Failed, 7},
		{Reassign, 8},
		{KIV, 9},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			id, ok := tt.status.ID()
			require.True(t, ok)
			assert.Equal(t, tt.id, id)

			back, err := FromID(id)
			require.NoError(t, err)
			assert.Equal(t, tt.status, back)
		})
	}
}

func TestTaxonomyIsClosed(t *testing.T) {
	assert.Len(t, All(), 5)
	assert.False(t, Pending.IsValid(), "pending is derived, not stored")
	assert.False(t, Status("archived").IsValid())

	_, err := FromID(42)
	assert.Error(t, err)

	_, err = Parse("archived")
	assert.ErrorContains(t, err, "invalid status")

	s, err := Parse("re-assign")
	require.NoError(t, err)
	assert.Equal(t, Reassign, s)
}

func TestMustIDPanicsOutsideTaxonomy(t *testing.T) {
	assert.Panics(t, func() { Pending.MustID() })
	assert.NotPanics(t, func() { Done.MustID() })
}
