package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

func (a *App) printGroups(groups []models.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "(none)")
		return
	}
	for _, g := range groups {
		name := g.Name
		if g.IsDM {
			name = "dm"
		}
		fmt.Fprintf(a.out, "%d\t%s\t%d members\n", g.ID, name, len(g.Members))
	}
}

func (a *App) Groups(ctx context.Context) error {
	groups, err := a.api.Groups(ctx)
	if err != nil {
		return err
	}
	a.printGroups(groups)
	return nil
}

func (a *App) DMs(ctx context.Context) error {
	dms, err := a.api.DMs(ctx)
	if err != nil {
		return err
	}
	a.printGroups(dms)
	return nil
}

func (a *App) MakeGroup(ctx context.Context, name string) error {
	g, err := a.api.CreateGroup(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created group %s with id %d\n", g.Name, g.ID)
	return nil
}

func (a *App) MakeDM(ctx context.Context, uid string) error {
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", uid)
	}
	g, err := a.api.CreateDM(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Opened DM %d\n", g.ID)
	return nil
}

func parseGroupID(gid string) (int64, error) {
	id, err := strconv.ParseInt(gid, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid group id %q", gid)
	}
	return id, nil
}

func (a *App) Leave(ctx context.Context, gid string) error {
	id, err := parseGroupID(gid)
	if err != nil {
		return err
	}
	if err := a.api.LeaveGroup(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Left", id)
	return nil
}

func (a *App) LeaveDM(ctx context.Context, gid string) error {
	id, err := parseGroupID(gid)
	if err != nil {
		return err
	}
	if err := a.api.LeaveDM(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Left DM", id)
	return nil
}
