package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCommands(t *testing.T) {
	api := newFakeAPI()
	_, err := api.Signup(context.Background(), "bob", "b@example.com", "h")
	require.NoError(t, err)
	a, out := newTestApp(t, api, "")
	ctx := context.Background()

	require.NoError(t, a.Groups(ctx))
	assert.Contains(t, out.String(), "(none)")

	require.NoError(t, a.MakeGroup(ctx, "eng"))
	assert.Contains(t, out.String(), "Created group eng with id 1")
	out.Reset()
	require.NoError(t, a.Groups(ctx))
	assert.Contains(t, out.String(), "1\teng\t1 members")

	assert.ErrorIs(t, a.MakeGroup(ctx, ""), common.ErrorBadRequest)

	require.NoError(t, a.MakeDM(ctx, "101"))
	assert.Error(t, a.MakeDM(ctx, "bob"))
	assert.ErrorIs(t, a.MakeDM(ctx, "999"), common.ErrorNotFound)
	out.Reset()
	require.NoError(t, a.DMs(ctx))
	assert.Contains(t, out.String(), "50\tdm\t2 members")

	assert.ErrorIs(t, a.Leave(ctx, "50"), common.ErrorBadRequest)
	require.NoError(t, a.Leave(ctx, "1"))
	require.NoError(t, a.LeaveDM(ctx, "50"))
	assert.Equal(t, []int64{1, 50}, api.left)
	assert.ErrorIs(t, a.LeaveDM(ctx, "1"), common.ErrorBadRequest)
	assert.Error(t, a.Leave(ctx, "x"))
	assert.Error(t, a.LeaveDM(ctx, "x"))

	out.Reset()
	require.NoError(t, a.DMs(ctx))
	assert.Contains(t, out.String(), "(none)")
}
