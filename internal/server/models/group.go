package models

import "slices"

// Group is a set of members sharing channels. A DM is a group with IsDM set,
// exactly two members and a single channel.
type Group struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Owner    int64   `json:"owner"`
	Admins   []int64 `json:"admin"`
	Members  []int64 `json:"members"`
	Channels []int64 `json:"channels"`
	IsDM     bool    `json:"is_dm"`
}

func (g *Group) HasMember(uid int64) bool {
	return slices.Contains(g.Members, uid)
}

func (g *Group) HasAdmin(uid int64) bool {
	return slices.Contains(g.Admins, uid)
}

func (g *Group) HasChannel(cid int64) bool {
	return slices.Contains(g.Channels, cid)
}
