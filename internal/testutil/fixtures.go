package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the password of every user Fixtures creates.
const TestPassword = "correct-horse-battery"

// Fixtures inserts test records directly, bypassing stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database { return f.db }

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateUser creates an active user with TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin creates an admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateDisabledUser creates a disabled user.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, fullName, email, models.RoleUser)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, map[string]any{"$set": map[string]any{"status": "disabled"}}); err != nil {
		f.t.Fatalf("disable user: %v", err)
	}
	u.Status = "disabled"
	return u
}

// CreateMosque creates a mosque led by imamID with the given status and
// links the imam to it.
func (f *Fixtures) CreateMosque(ctx context.Context, name string, imamID primitive.ObjectID, status string) models.Mosque {
	f.t.Helper()
	now := time.Now().UTC()
	m := models.Mosque{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
		Address: models.Address{
			Street:  "1 Test Street",
			City:    "Test City",
			CityCI:  text.Fold("Test City"),
			Country: "UK",
		},
		Facilities:  []string{models.FacilityParking, models.FacilityWuduArea},
		PrayerTimes: models.PrayerTimes{Fajr: "05:00", Dhuhr: "13:00"},
		Capacity:    300,
		ImamID:      imamID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "mosques", m)
	_, _ = f.db.Collection("users").UpdateByID(ctx, imamID, map[string]any{"$set": map[string]any{"mosque_id": m.ID}})
	return m
}

// CreateBusiness creates a business owned by ownerID.
func (f *Fixtures) CreateBusiness(ctx context.Context, name string, ownerID primitive.ObjectID, status string) models.Business {
	f.t.Helper()
	now := time.Now().UTC()
	verification := "pending"
	if status == "approved" {
		verification = "verified"
	}
	b := models.Business{
		ID:                 primitive.NewObjectID(),
		Name:               name,
		NameCI:             text.Fold(name),
		Category:           "grocery",
		Address:            models.Address{City: "Test City", CityCI: text.Fold("Test City")},
		OwnerID:            ownerID,
		Status:             status,
		VerificationStatus: verification,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	f.insert(ctx, "businesses", b)
	return b
}

// CreateProduct creates an active in-stock product.
func (f *Fixtures) CreateProduct(ctx context.Context, businessID primitive.ObjectID, name string, price float64) models.Product {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.Product{
		ID:         primitive.NewObjectID(),
		BusinessID: businessID,
		Name:       name,
		NameCI:     text.Fold(name),
		Price:      price,
		Currency:   "GBP",
		InStock:    true,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "products", p)
	return p
}

// CreateOffer creates a 10% offer valid from an hour ago for a week, then
// applies mutate (if non-nil) before inserting.
func (f *Fixtures) CreateOffer(ctx context.Context, businessID, createdBy primitive.ObjectID, mutate func(*models.Offer)) models.Offer {
	f.t.Helper()
	now := time.Now().UTC()
	o := models.Offer{
		ID:            primitive.NewObjectID(),
		BusinessID:    businessID,
		Title:         "Test Offer",
		TitleCI:       text.Fold("Test Offer"),
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     now.Add(-time.Hour),
		ValidTo:       now.Add(7 * 24 * time.Hour),
		Status:        "active",
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if mutate != nil {
		mutate(&o)
		o.TitleCI = text.Fold(o.Title)
	}
	f.insert(ctx, "offers", o)
	return o
}

// CreateNeed creates an open volunteer need for a mosque.
func (f *Fixtures) CreateNeed(ctx context.Context, mosqueID, postedBy primitive.ObjectID, title string) models.VolunteerNeed {
	f.t.Helper()
	now := time.Now().UTC()
	n := models.VolunteerNeed{
		ID:               primitive.NewObjectID(),
		MosqueID:         mosqueID,
		PostedBy:         postedBy,
		Title:            title,
		TitleCI:          text.Fold(title),
		SkillsRequired:   []string{"teaching"},
		VolunteersNeeded: 2,
		Urgency:          "medium",
		Status:           "open",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.insert(ctx, "volunteer_needs", n)
	return n
}

// CreateApplication creates a pending volunteer application.
func (f *Fixtures) CreateApplication(ctx context.Context, userID, mosqueID primitive.ObjectID) models.VolunteerApplication {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.VolunteerApplication{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		MosqueID:     mosqueID,
		Skills:       []string{"teaching"},
		Availability: []string{"weekends"},
		Status:       "pending",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "volunteer_applications", a)
	return a
}

// CreateAnnouncement creates an announcement with the given status.
func (f *Fixtures) CreateAnnouncement(ctx context.Context, authorID primitive.ObjectID, businessID *primitive.ObjectID, title, status string) models.Announcement {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.Announcement{
		ID:         primitive.NewObjectID(),
		Title:      title,
		TitleCI:    text.Fold(title),
		Content:    "<p>" + title + "</p>",
		Type:       "general",
		BusinessID: businessID,
		AuthorID:   authorID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "announcements", a)
	return a
}

// CreateCertification creates a certification application.
func (f *Fixtures) CreateCertification(ctx context.Context, businessID, applicantID primitive.ObjectID, status string) models.HalalCertification {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.HalalCertification{
		ID:             primitive.NewObjectID(),
		BusinessID:     businessID,
		ApplicantID:    applicantID,
		CertifyingBody: "Halal Monitoring Committee",
		Documents:      []string{"https://docs.example.org/cert.pdf"},
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "halal_certifications", c)
	return c
}
