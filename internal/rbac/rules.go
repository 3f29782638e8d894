package rbac

// Roles from least to most privileged.
var Roles = []string{"student", "teacher", "admin"}

// RolePermissions grants permissions per role; a trailing * matches any suffix.
// Teachers inherit student permissions.
var RolePermissions = map[string][]string{
	"student": studentPerms,
	"teacher": append(append([]string(nil), studentPerms...),
		"lesson:create",
		"lesson:update_own",
		"lesson:delete_own",
		"exam:create",
		"exam:update_own",
		"exam:delete_own",
		"category:create",
		"category:update_own",
		"category:delete_own",
	),
	"admin": {
		"*", // everything
	},
}

var studentPerms = []string{
	"profile:view",
	"profile:update",
	"application:create",
	"asset:upload",
	"content:view",
}
