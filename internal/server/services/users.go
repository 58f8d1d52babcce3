package services

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/metrics"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/policy"
)

// UserService handles accounts: signup, login, profile updates and the
// account deletion cascade.
type UserService struct {
	g *graph
}

// decodeHash validates a client-side password hash: exactly
// common.HashLength hex characters.
func decodeHash(hash string) ([]byte, error) {
	if len(hash) != common.HashLength {
		return nil, common.ErrorBadRequest
	}
	b, err := hex.DecodeString(hash)
	if err != nil {
		return nil, common.ErrorBadRequest
	}
	return b, nil
}

// Signup creates an account. The stored hash is normalised to lower case.
func (s *UserService) Signup(ctx context.Context, name, email, hash string) (*models.User, error) {
	const op = "user.signup"

	if _, err := decodeHash(hash); err != nil {
		return nil, err
	}
	name, err := CleanUsername(name)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       s.g.nextID(),
		Username: name,
		Email:    email,
		Hash:     strings.ToLower(hash),
	}
	if err := s.g.repos.Users().Create(ctx, user); err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}

	s.g.log.Info(ctx, "user created", "user", user.ID)
	return user, nil
}

// Login checks hash against the stored one and returns a bearer token.
func (s *UserService) Login(ctx context.Context, id int64, hash string) (string, error) {
	const op = "user.login"

	candidate, err := decodeHash(hash)
	if err != nil {
		return "", err
	}

	stored, err := s.g.repos.Users().GetHash(ctx, id)
	if err != nil {
		return "", s.g.storeErr(ctx, op, err)
	}
	want, err := hex.DecodeString(stored)
	if err != nil {
		return "", s.g.storeErr(ctx, op, err)
	}

	if subtle.ConstantTimeCompare(want, candidate) != 1 {
		s.g.log.Info(ctx, "login rejected", "user", id)
		return "", common.ErrorUnauthorized
	}

	token, err := s.g.tokens.Issue(id, s.g.tokenTTL)
	if err != nil {
		s.g.log.Error(ctx, "token issue failed", "user", id, "error", err)
		return "", common.ErrorInternal
	}
	metrics.TokensIssued.Inc()
	return token, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.g.repos.Users().Get(ctx, id)
	if err != nil {
		return nil, s.g.storeErr(ctx, "user.get", err)
	}
	return u, nil
}

// Update changes the principal's own profile. An empty argument leaves the
// field as it is; both empty is a bad request.
func (s *UserService) Update(ctx context.Context, principal int64, name, email string) error {
	const op = "user.update"

	if err := s.g.authorize(principal, policy.OpUpdateUser, policy.Resource{UserID: principal}); err != nil {
		return err
	}
	if name == "" && email == "" {
		return common.ErrorBadRequest
	}

	u, err := s.g.repos.Users().Get(ctx, principal)
	if err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	if name != "" {
		if u.Username, err = CleanUsername(name); err != nil {
			return err
		}
	}
	if email != "" {
		u.Email = email
	}

	if err := s.g.repos.Users().Update(ctx, u); err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	return nil
}

// Delete removes the principal's account, then takes it out of every group
// and DM it belongs to, then clears its indices. The account row goes first;
// a retry with the same (still valid) token finishes the remaining steps.
func (s *UserService) Delete(ctx context.Context, principal int64) error {
	const op = "user.delete"

	if err := s.g.authorize(principal, policy.OpDeleteUser, policy.Resource{UserID: principal}); err != nil {
		return err
	}

	if err := s.g.repos.Users().Delete(ctx, principal); err != nil {
		return s.g.storeErr(ctx, op, err)
	}

	groups, err := s.g.repos.Memberships().Groups(ctx, principal)
	if err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	for _, gid := range groups {
		if err := s.g.removeGroupMember(ctx, gid, principal, false); err != nil {
			return err
		}
	}

	dms, err := s.g.repos.Memberships().DMs(ctx, principal)
	if err != nil {
		return s.g.storeErr(ctx, op, err)
	}
	for _, gid := range dms {
		if err := s.g.removeGroupMember(ctx, gid, principal, true); err != nil {
			return err
		}
	}

	if err := s.g.repos.Memberships().Clear(ctx, principal); err != nil {
		return s.g.storeErr(ctx, op, err)
	}

	s.g.log.Info(ctx, "user deleted", "user", principal, "groups", len(groups), "dms", len(dms))
	return nil
}

// Groups lists the (non-DM) groups the principal belongs to.
func (s *UserService) Groups(ctx context.Context, principal int64) ([]models.Group, error) {
	const op = "user.groups"

	ids, err := s.g.repos.Memberships().Groups(ctx, principal)
	if err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}
	return s.g.groups(ctx, op, ids)
}

// DMs lists the DM groups the principal belongs to.
func (s *UserService) DMs(ctx context.Context, principal int64) ([]models.Group, error) {
	const op = "user.dms"

	ids, err := s.g.repos.Memberships().DMs(ctx, principal)
	if err != nil {
		return nil, s.g.storeErr(ctx, op, err)
	}
	return s.g.groups(ctx, op, ids)
}

// LeaveGroup removes the principal from a group. The owner cannot leave it;
// leaving a group one is not in is a no-op. DMs are left through LeaveDM.
func (s *UserService) LeaveGroup(ctx context.Context, principal, gid int64) error {
	return s.leave(ctx, "user.leave_group", principal, gid, false)
}

// LeaveDM removes the principal from a DM. Either member may leave.
func (s *UserService) LeaveDM(ctx context.Context, principal, gid int64) error {
	return s.leave(ctx, "user.leave_dm", principal, gid, true)
}

func (s *UserService) leave(ctx context.Context, op string, principal, gid int64, dm bool) error {
	grp, err := s.g.group(ctx, op, gid)
	if err != nil {
		return err
	}
	if grp.IsDM != dm {
		return common.ErrorBadRequest
	}
	res := policy.Resource{UserID: principal, Target: principal, Group: grp}
	if err := s.g.authorize(principal, policy.OpLeaveGroup, res); err != nil {
		return err
	}
	return s.g.removeGroupMember(ctx, gid, principal, grp.IsDM)
}
