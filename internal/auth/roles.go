package auth

import "github.com/andresilva/courseapi/internal/entities"

// Action names a catalog-mutating permission the HTTP layer checks
// before a handler runs. Self-scoped writes (enroll, favorite, watch
// progress) are open to every authenticated user and have no Action.
type Action string

const (
	ActionManageCourses    Action = "courses:manage"
	ActionManageLessons    Action = "lessons:manage"
	ActionManageCategories Action = "categories:manage"
	ActionManageTags       Action = "tags:manage"
	ActionUploadImages     Action = "images:upload"
)

// CanPerform reports whether a role is allowed an action. Every
// catalog-mutating action is manager-only today; the indirection keeps
// the handlers honest about which permission they need.
func CanPerform(role entities.UserRole, action Action) bool {
	switch action {
	case ActionManageCourses, ActionManageLessons, ActionManageCategories,
		ActionManageTags, ActionUploadImages:
		return role == entities.UserRoleManager
	default:
		return false
	}
}
