package policy

// Operation names a mutating or reading action of the control plane.
type Operation string

const (
	OpUpdateUser Operation = "user.update"
	OpDeleteUser Operation = "user.delete"
	OpLeaveGroup Operation = "group.leave"

	OpViewGroup     Operation = "group.view"
	OpListMembers   Operation = "group.members"
	OpListAdmins    Operation = "group.admins"
	OpRenameGroup   Operation = "group.rename"
	OpDeleteGroup   Operation = "group.delete"
	OpAddGroupAdmin Operation = "group.admin.add"

	OpRemoveGroupAdmin  Operation = "group.admin.remove"
	OpAddGroupMember    Operation = "group.member.add"
	OpRemoveGroupMember Operation = "group.member.remove"
	OpCreateChannel     Operation = "group.channel.create"

	OpViewChannel         Operation = "channel.view"
	OpListChannelMembers  Operation = "channel.members"
	OpReadMessages        Operation = "channel.messages"
	OpRenameChannel       Operation = "channel.rename"
	OpPrivatizeChannel    Operation = "channel.private"
	OpDeleteChannel       Operation = "channel.delete"
	OpAddChannelMember    Operation = "channel.member.add"
	OpRemoveChannelMember Operation = "channel.member.remove"

	OpCreateThread  Operation = "message.thread"
	OpDeleteMessage Operation = "message.delete"
)

var requirements = map[Operation]Role{
	OpUpdateUser: RoleSelf,
	OpDeleteUser: RoleSelf,
	OpLeaveGroup: RoleSelf,

	OpViewGroup:         RoleMember,
	OpListMembers:       RoleMember,
	OpListAdmins:        RoleMember,
	OpRenameGroup:       RoleOwner,
	OpDeleteGroup:       RoleOwner,
	OpAddGroupAdmin:     RoleOwner,
	OpRemoveGroupAdmin:  RoleOwner,
	OpAddGroupMember:    RoleAdmin,
	OpRemoveGroupMember: RoleAdmin,
	OpCreateChannel:     RoleAdmin,

	OpViewChannel:         RoleMember,
	OpListChannelMembers:  RoleMember,
	OpReadMessages:        RoleMember,
	OpRenameChannel:       RoleAdmin,
	OpPrivatizeChannel:    RoleAdmin,
	OpDeleteChannel:       RoleAdmin,
	OpAddChannelMember:    RoleAdmin,
	OpRemoveChannelMember: RoleAdmin,

	OpCreateThread:  RoleMember,
	OpDeleteMessage: RoleAuthorOrAdmin,
}

// Requirement reports the role op demands.
func Requirement(op Operation) (Role, bool) {
	r, ok := requirements[op]
	return r, ok
}
