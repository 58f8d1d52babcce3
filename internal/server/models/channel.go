package models

import "slices"

// MainChannelName is the channel every group and DM starts with.
const MainChannelName = "main"

// Channel belongs to exactly one group. Threads are private channels.
type Channel struct {
	ID      int64   `json:"id"`
	Group   int64   `json:"group"`
	Name    string  `json:"name"`
	Members []int64 `json:"members"`
	Private bool    `json:"private"`
}

func (c *Channel) HasMember(uid int64) bool {
	return slices.Contains(c.Members, uid)
}
