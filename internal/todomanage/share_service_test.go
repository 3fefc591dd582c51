package todomanage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/todo"
)

func TestShareService(t *testing.T) {
	ctx := context.Background()

	t.Run("grant and revoke", func(t *testing.T) {
		app, _, tb := newTestApp(t)

		require.NoError(t, app.Shares.Grant(ctx, "alice", "bob"))

		grants, err := app.Shares.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Equal(t, "bob", grants[0].ViewerID)

		owners, err := app.Shares.SharedWith(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, owners)

		revoked, err := app.Shares.Revoke(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = app.Shares.Revoke(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.False(t, revoked)

		changes := waitPayloads[eventbus.ShareChangedPayload](t, tb, eventbus.EventShareChanged)
		assert.True(t, changes[0].Active)
	})

	t.Run("validation", func(t *testing.T) {
		app, _, _ := newTestApp(t)

		tests := []struct {
			name          string
			owner, viewer string
		}{
			{name: "self", owner: "alice", viewer: "alice"},
			{name: "empty viewer", owner: "alice", viewer: ""},
			{name: "bad owner", owner: "a b", viewer: "bob"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := app.Shares.Grant(ctx, tt.owner, tt.viewer)
				assert.True(t, todo.IsValidation(err))
			})
		}
	})
}
