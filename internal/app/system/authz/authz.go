// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/mosqueconnect/internal/app/system/auth"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false, so ok=true always means a usable id.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed id in a session or token; fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsImam reports whether the current request's user is an imam.
func IsImam(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleImam
}

// IsBusiness reports whether the current request's user is a business owner.
func IsBusiness(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleBusiness
}

// CanManage reports whether the caller owns a record (owner is the record's
// owner/imam/author id) or is an admin.
func CanManage(r *http.Request, owner primitive.ObjectID) bool {
	role, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == models.RoleAdmin || (owner != primitive.NilObjectID && owner == uid)
}

// UserMosqueID returns the imam's mosque id from the session user, or
// NilObjectID when there is none.
func UserMosqueID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.MosqueID == "" {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(user.MosqueID)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// HasAnyRole reports whether the current request's user has any of roles.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}
