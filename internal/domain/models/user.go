// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a MosqueConnect account can hold.
const (
	RoleUser     = "user"
	RoleImam     = "imam"
	RoleBusiness = "business"
	RoleAdmin    = "admin"
)

// AllRoles lists every role in display order.
var AllRoles = []string{RoleUser, RoleImam, RoleBusiness, RoleAdmin}

// SelfServiceRoles are the roles a visitor may pick when registering.
// Admins are promoted by another admin or by the admin_email bootstrap.
var SelfServiceRoles = []string{RoleUser, RoleImam, RoleBusiness}

// User is a registered account.
//
// NOTE:
//   - PasswordHash is never serialized to JSON.
//   - MosqueID is set for imams once their mosque is created.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName     string              `bson:"full_name" json:"full_name"`
	FullNameCI   string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string              `bson:"email" json:"email"`
	PasswordHash string              `bson:"password_hash" json:"-"`
	Phone        string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string              `bson:"role" json:"role"` // user | imam | business | admin
	Status       string              `bson:"status" json:"status"`
	IsVolunteer  bool                `bson:"is_volunteer" json:"is_volunteer"`
	MosqueID     *primitive.ObjectID `bson:"mosque_id,omitempty" json:"mosque_id,omitempty"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
