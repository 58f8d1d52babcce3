package services

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "alice")

	grp, err := f.svc.Groups.Create(f.ctx, a, "eng")
	require.NoError(t, err)

	g := f.group(t, grp.ID)
	assert.Equal(t, a, g.Owner)
	assert.Equal(t, []int64{a}, g.Members)
	assert.Equal(t, []int64{a}, g.Admins)
	assert.False(t, g.IsDM)
	require.Len(t, g.Channels, 1)
	assert.Equal(t, grp.Channels, g.Channels)

	main := f.channel(t, g.Channels[0])
	assert.Equal(t, models.MainChannelName, main.Name)
	assert.Equal(t, []int64{a}, main.Members)
	assert.False(t, main.Private)
	assert.Equal(t, grp.ID, main.Group)

	assert.Equal(t, []int64{grp.ID}, f.userGroups(t, a))

	_, err = f.svc.Groups.Create(f.ctx, a, "")
	assert.ErrorIs(t, err, common.ErrorBadRequest)
}

func TestAddMember_JoinsPublicChannels(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)

	g := f.group(t, grp.ID)
	assert.Contains(t, g.Members, b)
	assert.Contains(t, f.channel(t, g.Channels[0]).Members, b)
	assert.Equal(t, []int64{grp.ID}, f.userGroups(t, b))

	priv, err := f.svc.Groups.CreateChannel(f.ctx, a, grp.ID, "secret")
	require.NoError(t, err)
	require.NoError(t, f.svc.Channels.SetPrivate(f.ctx, a, priv.ID, true))
	pub, err := f.svc.Groups.CreateChannel(f.ctx, a, grp.ID, "random")
	require.NoError(t, err)

	c := f.signup(t, "carol")
	require.NoError(t, f.svc.Groups.AddMember(f.ctx, a, grp.ID, c))
	assert.NotContains(t, f.channel(t, priv.ID).Members, c)
	assert.Contains(t, f.channel(t, pub.ID).Members, c)
}

func TestAddMember_Errors(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)
	c := f.signup(t, "carol")

	assert.ErrorIs(t, f.svc.Groups.AddMember(f.ctx, b, grp.ID, c), common.ErrorUnauthorized)
	assert.ErrorIs(t, f.svc.Groups.AddMember(f.ctx, a, grp.ID, c+100), common.ErrorNotFound)
	assert.ErrorIs(t, f.svc.Groups.AddMember(f.ctx, a, grp.ID+100, c), common.ErrorNotFound)
}

func TestRemoveMember_Idempotent(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)

	require.NoError(t, f.svc.Groups.RemoveMember(f.ctx, a, grp.ID, b))
	before := f.group(t, grp.ID)
	beforeMain := f.channel(t, before.Channels[0])

	require.NoError(t, f.svc.Groups.RemoveMember(f.ctx, a, grp.ID, b))
	after := f.group(t, grp.ID)

	assert.Equal(t, before, after)
	assert.Equal(t, beforeMain, f.channel(t, after.Channels[0]))
	assert.NotContains(t, after.Members, b)
	assert.NotContains(t, beforeMain.Members, b)
	assert.Empty(t, f.userGroups(t, b))
}

func TestRemoveMember_DropsAdminOverlay(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)
	require.NoError(t, f.svc.Groups.AddAdmin(f.ctx, a, grp.ID, b))

	require.NoError(t, f.svc.Groups.RemoveMember(f.ctx, a, grp.ID, b))
	assert.NotContains(t, f.group(t, grp.ID).Admins, b)

	// Re-joining does not restore admin rights.
	require.NoError(t, f.svc.Groups.AddMember(f.ctx, a, grp.ID, b))
	assert.NotContains(t, f.group(t, grp.ID).Admins, b)
}

func TestRemoveMember_OwnerAlwaysDenied(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)
	require.NoError(t, f.svc.Groups.AddAdmin(f.ctx, a, grp.ID, b))

	assert.ErrorIs(t, f.svc.Groups.RemoveMember(f.ctx, b, grp.ID, a), common.ErrorUnauthorized)
	assert.ErrorIs(t, f.svc.Groups.RemoveMember(f.ctx, a, grp.ID, a), common.ErrorUnauthorized)
	assert.Contains(t, f.group(t, grp.ID).Members, a)
}

func TestRemoveMember_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)
	c := f.signup(t, "carol")
	require.NoError(t, f.svc.Groups.AddMember(f.ctx, a, grp.ID, c))

	assert.ErrorIs(t, f.svc.Groups.RemoveMember(f.ctx, b, grp.ID, c), common.ErrorUnauthorized)
	assert.Contains(t, f.group(t, grp.ID).Members, c)
}

func TestGetGroup_HidesFromNonMembers(t *testing.T) {
	f := newFixture(t)
	a, _, grp := f.eng(t)
	c := f.signup(t, "carol")

	g, err := f.svc.Groups.Get(f.ctx, a, grp.ID)
	require.NoError(t, err)
	assert.Equal(t, "eng", g.Name)

	_, err = f.svc.Groups.Get(f.ctx, c, grp.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = f.svc.Groups.Members(f.ctx, c, grp.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = f.svc.Groups.Get(f.ctx, a, grp.ID+100)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRenameGroup(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)
	require.NoError(t, f.svc.Groups.AddAdmin(f.ctx, a, grp.ID, b))

	assert.ErrorIs(t, f.svc.Groups.Rename(f.ctx, b, grp.ID, "x"), common.ErrorUnauthorized)
	assert.ErrorIs(t, f.svc.Groups.Rename(f.ctx, a, grp.ID, ""), common.ErrorBadRequest)
	require.NoError(t, f.svc.Groups.Rename(f.ctx, a, grp.ID, "core"))
	assert.Equal(t, "core", f.group(t, grp.ID).Name)
}

func TestDeleteGroup(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)
	side, err := f.svc.Groups.CreateChannel(f.ctx, a, grp.ID, "side")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Groups.Delete(f.ctx, b, grp.ID), common.ErrorUnauthorized)

	require.NoError(t, f.svc.Groups.Delete(f.ctx, a, grp.ID))

	ok, _ := f.repos.Groups().Exists(f.ctx, grp.ID)
	assert.False(t, ok)
	for _, cid := range append(grp.Channels, side.ID) {
		ok, _ := f.repos.Channels().Exists(f.ctx, cid)
		assert.False(t, ok, "channel %d", cid)
	}
	assert.NotContains(t, f.userGroups(t, a), grp.ID)
	assert.NotContains(t, f.userGroups(t, b), grp.ID)

	assert.ErrorIs(t, f.svc.Groups.Delete(f.ctx, a, grp.ID), common.ErrorNotFound)
}

func TestDeleteGroup_UnindexesLateJoiner(t *testing.T) {
	f := newFixture(t)
	a, _, grp := f.eng(t)
	c := f.signup(t, "carol")

	var joined atomic.Bool
	f.store.FailOn(func(op string) error {
		if op == "channels.Delete" && joined.CompareAndSwap(false, true) {
			require.NoError(t, f.repos.Groups().AddMember(f.ctx, grp.ID, c))
			require.NoError(t, f.repos.Memberships().AddGroup(f.ctx, c, grp.ID))
		}
		return nil
	})

	require.NoError(t, f.svc.Groups.Delete(f.ctx, a, grp.ID))
	assert.True(t, joined.Load())
	assert.NotContains(t, f.userGroups(t, c), grp.ID)
}

func TestCreate_DeletedPrincipalRejected(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "alice")
	b := f.signup(t, "bob")
	require.NoError(t, f.svc.Users.Delete(f.ctx, a))

	_, err := f.svc.Groups.Create(f.ctx, a, "ghost")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = f.svc.Groups.CreateDM(f.ctx, a, b)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Empty(t, f.userGroups(t, a))
	assert.Empty(t, f.userDMs(t, b))
}

func TestAdmins(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)
	c := f.signup(t, "carol")

	assert.ErrorIs(t, f.svc.Groups.AddAdmin(f.ctx, a, grp.ID, c), common.ErrorBadRequest)
	assert.ErrorIs(t, f.svc.Groups.AddAdmin(f.ctx, b, grp.ID, b), common.ErrorUnauthorized)

	require.NoError(t, f.svc.Groups.AddAdmin(f.ctx, a, grp.ID, b))
	admins, err := f.svc.Groups.Admins(f.ctx, b, grp.ID)
	require.NoError(t, err)
	ids := []int64{}
	for _, u := range admins {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []int64{a, b}, ids)

	// An admin is not the owner: cannot promote or demote.
	assert.ErrorIs(t, f.svc.Groups.RemoveAdmin(f.ctx, b, grp.ID, b), common.ErrorUnauthorized)
	// The owner cannot be demoted.
	assert.ErrorIs(t, f.svc.Groups.RemoveAdmin(f.ctx, a, grp.ID, a), common.ErrorUnauthorized)

	require.NoError(t, f.svc.Groups.RemoveAdmin(f.ctx, a, grp.ID, b))
	require.NoError(t, f.svc.Groups.RemoveAdmin(f.ctx, a, grp.ID, b))
	assert.Equal(t, []int64{a}, f.group(t, grp.ID).Admins)
	assert.Contains(t, f.group(t, grp.ID).Members, b)
}

func TestMembers_ReturnsUsers(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)

	users, err := f.svc.Groups.Members(f.ctx, b, grp.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a, users[0].ID)
	assert.Equal(t, "bob", users[1].Username)
}

func TestCreateDM(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "alice")
	b := f.signup(t, "bob")

	_, err := f.svc.Groups.CreateDM(f.ctx, a, a)
	assert.ErrorIs(t, err, common.ErrorBadRequest)
	_, err = f.svc.Groups.CreateDM(f.ctx, a, b+100)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	dm, err := f.svc.Groups.CreateDM(f.ctx, a, b)
	require.NoError(t, err)

	g := f.group(t, dm.ID)
	assert.True(t, g.IsDM)
	assert.Equal(t, []int64{a, b}, g.Members)
	assert.Empty(t, g.Admins)
	require.Len(t, g.Channels, 1)
	assert.Equal(t, []int64{a, b}, f.channel(t, g.Channels[0]).Members)

	assert.Equal(t, []int64{dm.ID}, f.userDMs(t, a))
	assert.Equal(t, []int64{dm.ID}, f.userDMs(t, b))
	assert.Empty(t, f.userGroups(t, a))
}

func TestDM_HasNoPrivilegedRole(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "alice")
	b := f.signup(t, "bob")
	c := f.signup(t, "carol")
	dm, err := f.svc.Groups.CreateDM(f.ctx, a, b)
	require.NoError(t, err)
	cid := dm.Channels[0]

	// The creator is the structural owner but holds no rights over the DM.
	assert.ErrorIs(t, f.svc.Groups.AddMember(f.ctx, a, dm.ID, c), common.ErrorUnauthorized)
	assert.ErrorIs(t, f.svc.Groups.Rename(f.ctx, a, dm.ID, "x"), common.ErrorUnauthorized)
	assert.ErrorIs(t, f.svc.Groups.Delete(f.ctx, a, dm.ID), common.ErrorUnauthorized)
	assert.ErrorIs(t, f.svc.Channels.Rename(f.ctx, a, cid, "x"), common.ErrorUnauthorized)
	assert.ErrorIs(t, f.svc.Channels.RemoveMember(f.ctx, a, cid, b), common.ErrorUnauthorized)
	_, err = f.svc.Groups.CreateChannel(f.ctx, a, dm.ID, "side")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// Both participants can still read it.
	_, err = f.svc.Groups.Get(f.ctx, b, dm.ID)
	assert.NoError(t, err)
	_, err = f.svc.Channels.Get(f.ctx, b, cid)
	assert.NoError(t, err)
}

func TestGroupChannels_OnlyJoined(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)

	side, err := f.svc.Groups.CreateChannel(f.ctx, a, grp.ID, "side")
	require.NoError(t, err)
	assert.Equal(t, []int64{a}, side.Members)
	assert.False(t, side.Private)

	_, err = f.svc.Groups.CreateChannel(f.ctx, b, grp.ID, "nope")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = f.svc.Groups.CreateChannel(f.ctx, a, grp.ID, "")
	assert.ErrorIs(t, err, common.ErrorBadRequest)

	chans, err := f.svc.Groups.Channels(f.ctx, a, grp.ID)
	require.NoError(t, err)
	require.Len(t, chans, 2)
	assert.Equal(t, grp.Channels[0], chans[0].ID)
	assert.Equal(t, side.ID, chans[1].ID)

	chans, err = f.svc.Groups.Channels(f.ctx, b, grp.ID)
	require.NoError(t, err)
	require.Len(t, chans, 1)
	assert.Equal(t, grp.Channels[0], chans[0].ID)

	c := f.signup(t, "carol")
	_, err = f.svc.Groups.Channels(f.ctx, c, grp.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestOwnerInvariant_HoldsAcrossOperations(t *testing.T) {
	f := newFixture(t)
	a, b, grp := f.eng(t)
	require.NoError(t, f.svc.Groups.AddAdmin(f.ctx, a, grp.ID, b))

	_ = f.svc.Groups.RemoveMember(f.ctx, b, grp.ID, a)
	_ = f.svc.Groups.RemoveAdmin(f.ctx, b, grp.ID, a)
	_ = f.svc.Users.LeaveGroup(f.ctx, a, grp.ID)
	require.NoError(t, f.svc.Groups.RemoveMember(f.ctx, a, grp.ID, b))

	g := f.group(t, grp.ID)
	assert.Contains(t, g.Members, g.Owner)
}

func TestCreateGroup_StoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "alice")
	f.store.FailOn(func(op string) error {
		if op == "channels.Create" {
			return errors.New("boom")
		}
		return nil
	})

	_, err := f.svc.Groups.Create(f.ctx, a, "eng")
	assert.ErrorIs(t, err, common.ErrorInternal)
}
