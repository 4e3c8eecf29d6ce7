package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/store/storeerr"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/search"
	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password Create accepts.
const MinPasswordLen = 8

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = storeerr.NewConflict("a user with this email already exists")
	// ErrWeakPassword is returned for passwords shorter than MinPasswordLen.
	ErrWeakPassword = storeerr.NewInvalid("password must be at least 8 characters")
	errBadRole      = storeerr.NewInvalid(`role must be "user"|"imam"|"business"|"admin"`)
	errBadStatus    = storeerr.NewInvalid(`status must be "active"|"disabled"`)
)

// Sorts are the orderings the admin user list offers.
var Sorts = paging.Sorts{
	Default: "name",
	Orders: map[string]bson.D{
		"name":      {{Key: "full_name_ci", Value: 1}},
		"name_desc": {{Key: "full_name_ci", Value: -1}},
		"newest":    {{Key: "created_at", Value: -1}},
		"oldest":    {{Key: "created_at", Value: 1}},
		"email":     {{Key: "email", Value: 1}},
	},
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", ErrWeakPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches u's stored hash.
func CheckPassword(u *models.User, password string) bool {
	if u == nil || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Create inserts a new user after normalizing & validating fields and
// hashing password.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Status == "" {
		u.Status = status.Active
	}
	if !status.In(u.Role, models.AllRoles) {
		return models.User{}, errBadRole
	}
	if u.Status != status.Active && u.Status != status.Disabled {
		return models.User{}, errBadStatus
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// TouchLastLogin stamps last_login_at.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login_at": now}})
	return err
}

// ListFilter narrows the admin user list.
type ListFilter struct {
	Role   string
	Status string
	Search string
}

// List returns a page of users and the unpaged total.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.User, int64, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	search.Apply(filter, f.Search, "full_name_ci", "email")
	return paging.Find[models.User](ctx, s.c, filter, p, Sorts)
}

// AdminUpdate holds the fields an admin may change. Nil fields are left
// alone.
type AdminUpdate struct {
	Role   *string
	Status *string
}

// UpdateAdmin applies an admin change and returns the updated user.
func (s *Store) UpdateAdmin(ctx context.Context, id primitive.ObjectID, upd AdminUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Role != nil {
		role := normalize.Role(*upd.Role)
		if !status.In(role, models.AllRoles) {
			return nil, errBadRole
		}
		set["role"] = role
	}
	if upd.Status != nil {
		st := normalize.Status(*upd.Status)
		if st != status.Active && st != status.Disabled {
			return nil, errBadStatus
		}
		set["status"] = st
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetVolunteer marks the user as a volunteer (or not).
func (s *Store) SetVolunteer(ctx context.Context, id primitive.ObjectID, v bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"is_volunteer": v, "updated_at": time.Now().UTC()}})
	return err
}

// SetMosque links an imam to the mosque they lead.
func (s *Store) SetMosque(ctx context.Context, id, mosqueID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"mosque_id": mosqueID, "updated_at": time.Now().UTC()}})
	return err
}

// ClearMosque unlinks every imam from mosqueID.
func (s *Store) ClearMosque(ctx context.Context, mosqueID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"mosque_id": mosqueID}, bson.M{"$unset": bson.M{"mosque_id": ""}})
	return err
}

// PromoteToAdmin makes the user with email an active admin. It reports
// whether a user was found.
func (s *Store) PromoteToAdmin(ctx context.Context, email string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"role": models.RoleAdmin, "status": status.Active, "updated_at": time.Now().UTC()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Exists reports whether a user with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

// CountActiveAdmins returns the number of active admins.
func (s *Store) CountActiveAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": models.RoleAdmin, "status": status.Active})
}
