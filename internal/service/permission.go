package service

import (
	"net/http"

	"github.com/rubenatello/dignov2/internal/db"
)

// CanWrite decides whether user may perform method against content
// (articles and images). It is total over (user, method):
//
//   - read-only methods are always allowed, including anonymous,
//   - any write requires an authenticated user,
//   - superusers may do anything,
//   - DELETE additionally requires the editor role or the staff flag,
//   - POST/PUT/PATCH require the writer or editor role.
func CanWrite(user *db.User, method string) bool {
	if isReadOnlyMethod(method) {
		return true
	}
	if user == nil {
		return false
	}
	if user.IsSuperuser {
		return true
	}
	if method == http.MethodDelete {
		return user.Role == db.RoleEditor || user.IsStaff
	}
	return user.Role == db.RoleWriter || user.Role == db.RoleEditor
}

// CanManageUsers gates the administrative user endpoints.
func CanManageUsers(user *db.User) bool {
	if user == nil {
		return false
	}
	return user.IsSuperuser || user.IsStaff
}

func isReadOnlyMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
