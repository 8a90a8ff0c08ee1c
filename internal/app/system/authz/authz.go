// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role (lowercased), Mongo ObjectID, and a
// found flag. If no claims are present or the user id is malformed it
// returns "visitor", NilObjectID, false — so ok=true always means a valid,
// authenticated caller with a well-formed ObjectID.
func UserCtx(r *http.Request) (role string, userID primitive.ObjectID, ok bool) {
	claims, ok := auth.CurrentClaims(r)
	if !ok {
		return "visitor", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		// Malformed user id in a signed token - fail closed.
		return "visitor", primitive.NilObjectID, false
	}
	return strings.ToLower(claims.Role), userID, true
}

// IsAdmin reports whether the caller is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsManager reports whether the caller is a manager.
func IsManager(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == models.RoleManager
}

// IsMember reports whether the caller is a member.
func IsMember(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == models.RoleMember
}

// HasAnyRole reports whether the caller holds any of the given roles.
// Returns false if no caller is present.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, ok := UserCtx(r)
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
