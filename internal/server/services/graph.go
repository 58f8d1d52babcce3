// Package services is the membership graph manager: it owns every mutation of
// users, groups, channels and messages, consults the policy evaluator before
// acting, and performs the multi-step cascades (user deletion, member removal,
// group deletion) as sequences of idempotent store calls.
//
// There are no cross-entity transactions. A cascade that fails half way
// returns common.ErrorInternal and can simply be called again; every step
// tolerates having already been applied.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/idgen"
	"github.com/dmitrijs2005/scuttlebutt/internal/logging"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/auth"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/metrics"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/policy"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/repomanager"
)

// Services groups the four services sharing one graph.
type Services struct {
	Users    *UserService
	Groups   *GroupService
	Channels *ChannelService
	Messages *MessageService
}

type Option func(*graph)

// WithIDSource replaces the process-wide id generator.
func WithIDSource(ids idgen.IDSource) Option {
	return func(g *graph) { g.ids = ids }
}

func WithLogger(l logging.Logger) Option {
	return func(g *graph) { g.log = l }
}

// WithTokenTTL sets the lifetime of tokens issued by Login.
func WithTokenTTL(ttl time.Duration) Option {
	return func(g *graph) { g.tokenTTL = ttl }
}

// New wires the services over repos.
func New(repos repomanager.RepositoryManager, tokens *auth.TokenService, opts ...Option) *Services {
	g := &graph{
		repos:    repos,
		tokens:   tokens,
		ids:      idgen.Default(),
		policy:   policy.NewEvaluator(),
		log:      logging.Nop{},
		tokenTTL: auth.DefaultTTL,
	}
	for _, opt := range opts {
		opt(g)
	}

	return &Services{
		Users:    &UserService{g: g},
		Groups:   &GroupService{g: g},
		Channels: &ChannelService{g: g},
		Messages: &MessageService{g: g},
	}
}

// graph is the state shared by the services.
type graph struct {
	repos    repomanager.RepositoryManager
	tokens   *auth.TokenService
	ids      idgen.IDSource
	policy   *policy.Evaluator
	log      logging.Logger
	tokenTTL time.Duration
}

func (g *graph) nextID() int64 {
	metrics.IDsIssued.Inc()
	return g.ids.Next()
}

// storeErr converts a repository error into the error returned to callers.
// NotFound passes through (an entity vanished between two calls); anything
// else is logged and becomes ErrorInternal.
func (g *graph) storeErr(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	metrics.StoreErrors.WithLabelValues(op).Inc()
	g.log.Error(ctx, "store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s", common.ErrorInternal, op)
}

// authorize asks the evaluator about op. Read-style operations that require
// membership fail with NotFound so that outsiders cannot probe for groups
// and channels; everything else fails with Unauthorized.
func (g *graph) authorize(principal int64, op policy.Operation, res policy.Resource) error {
	if g.policy.Authorize(principal, op, res) == policy.Allow {
		return nil
	}
	if role, _ := policy.Requirement(op); role == policy.RoleMember {
		return common.ErrorNotFound
	}
	return common.ErrorUnauthorized
}

func (g *graph) group(ctx context.Context, op string, gid int64) (*models.Group, error) {
	grp, err := g.repos.Groups().Get(ctx, gid)
	if err != nil {
		return nil, g.storeErr(ctx, op, err)
	}
	return grp, nil
}

func (g *graph) channel(ctx context.Context, op string, cid int64) (*models.Channel, error) {
	ch, err := g.repos.Channels().Get(ctx, cid)
	if err != nil {
		return nil, g.storeErr(ctx, op, err)
	}
	return ch, nil
}

// channelWithGroup loads a channel and its parent group. A channel whose
// group no longer exists is reported as not found.
func (g *graph) channelWithGroup(ctx context.Context, op string, cid int64) (*models.Channel, *models.Group, error) {
	ch, err := g.channel(ctx, op, cid)
	if err != nil {
		return nil, nil, err
	}
	grp, err := g.group(ctx, op, ch.Group)
	if err != nil {
		return nil, nil, err
	}
	return ch, grp, nil
}

func (g *graph) requireUser(ctx context.Context, op string, uid int64) error {
	ok, err := g.repos.Users().Exists(ctx, uid)
	if err != nil {
		return g.storeErr(ctx, op, err)
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

// requirePrincipal rejects a caller whose account is gone; its token can
// outlive the account.
func (g *graph) requirePrincipal(ctx context.Context, op string, principal int64) error {
	err := g.requireUser(ctx, op, principal)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUnauthorized
	}
	return err
}

// users resolves ids to accounts, skipping ids whose account is gone.
func (g *graph) users(ctx context.Context, op string, ids []int64) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := g.repos.Users().Get(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return nil, g.storeErr(ctx, op, err)
		}
		out = append(out, *u)
	}
	return out, nil
}

// groups resolves group ids, skipping groups that no longer exist.
func (g *graph) groups(ctx context.Context, op string, ids []int64) ([]models.Group, error) {
	out := make([]models.Group, 0, len(ids))
	for _, id := range ids {
		grp, err := g.repos.Groups().Get(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return nil, g.storeErr(ctx, op, err)
		}
		out = append(out, *grp)
	}
	return out, nil
}

// removeGroupMember takes uid out of group gid: the member set, every
// channel of the group, the admin overlay and the user's index. Each step is
// a set removal, so calling it again after a partial or full run is safe.
func (g *graph) removeGroupMember(ctx context.Context, gid, uid int64, dm bool) error {
	const op = "remove_group_member"
	steps := metrics.CascadeSteps.WithLabelValues(op)

	if err := g.repos.Groups().RemoveMember(ctx, gid, uid); err != nil {
		return g.storeErr(ctx, op, err)
	}
	steps.Inc()

	channels, err := g.repos.Groups().Channels(ctx, gid)
	if err != nil {
		return g.storeErr(ctx, op, err)
	}
	for _, cid := range channels {
		if err := g.repos.Channels().RemoveMember(ctx, cid, uid); err != nil {
			return g.storeErr(ctx, op, err)
		}
		steps.Inc()
	}

	if err := g.repos.Groups().RemoveAdmin(ctx, gid, uid); err != nil {
		return g.storeErr(ctx, op, err)
	}
	steps.Inc()

	if dm {
		err = g.repos.Memberships().RemoveDM(ctx, uid, gid)
	} else {
		err = g.repos.Memberships().RemoveGroup(ctx, uid, gid)
	}
	if err != nil {
		return g.storeErr(ctx, op, err)
	}
	steps.Inc()

	g.log.Debug(ctx, "group member removed", "group", gid, "user", uid)
	return nil
}
