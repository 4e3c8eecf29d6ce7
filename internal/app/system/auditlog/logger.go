// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/mosqueconnect/internal/app/store/audit"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration. Each value is one of
// "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only) or "off".
type Config struct {
	// Auth controls login, logout and registration events.
	Auth string
	// Admin controls record create/update/delete/review events.
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
// A nil *Logger is a no-op.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// NewNopLogger returns a Logger that records nothing.
func NewNopLogger() *Logger {
	return &Logger{zapLog: zap.NewNop(), config: Config{Auth: "off", Admin: "off"}}
}

func (l *Logger) setting(category string) string {
	switch category {
	case audit.CategoryAuth:
		return l.config.Auth
	case audit.CategoryAdmin:
		return l.config.Admin
	default:
		return "log"
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.EntityType != "" {
		fields = append(fields, zap.String("entity_type", event.EntityType))
	}
	if event.EntityID != nil {
		fields = append(fields, zap.String("entity_id", event.EntityID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the category's setting.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	setting := l.setting(event.Category)
	if setting == "off" || setting == "" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func fromRequest(r *http.Request, e audit.Event) audit.Event {
	if r != nil {
		e.IP = httpx.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, method string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"method": method},
	}))
}

// LoginFailedUserNotFound logs a login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		Success:       false,
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_email": email},
	}))
}

// LoginFailedWrongPassword logs a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		Success:       false,
		FailureReason: "wrong password",
	}))
}

// LoginFailedUserDisabled logs a login by a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		Success:       false,
		FailureReason: "user disabled",
	}))
}

// LoginFailedRateLimit logs a throttled login.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		Success:       false,
		FailureReason: "rate limited",
		Details:       map[string]string{"attempted_email": email},
	}))
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    &userID,
		Success:   true,
	}))
}

// UserRegistered logs a self-service registration.
func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, userID primitive.ObjectID, role string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventUserRegistered,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"role": role},
	}))
}

// --- Record Events ---

func (l *Logger) entity(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, entityType string, id primitive.ObjectID, details map[string]string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  eventType,
		ActorID:    &actorID,
		EntityType: entityType,
		EntityID:   &id,
		Success:    true,
		Details:    details,
	}))
}

// EntityCreated logs the creation of a record.
func (l *Logger) EntityCreated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, entityType string, id primitive.ObjectID, name string) {
	l.entity(ctx, r, audit.EventEntityCreated, actorID, entityType, id, map[string]string{"name": name})
}

// EntityUpdated logs an edit; fields lists what changed.
func (l *Logger) EntityUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, entityType string, id primitive.ObjectID, fields string) {
	l.entity(ctx, r, audit.EventEntityUpdated, actorID, entityType, id, map[string]string{"fields": fields})
}

// EntityDeleted logs a deletion.
func (l *Logger) EntityDeleted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, entityType string, id primitive.ObjectID, name string) {
	l.entity(ctx, r, audit.EventEntityDeleted, actorID, entityType, id, map[string]string{"name": name})
}

// EntityReviewed logs a status decision.
func (l *Logger) EntityReviewed(ctx context.Context, r *http.Request, actorID primitive.ObjectID, entityType string, id primitive.ObjectID, from, to, notes string) {
	d := map[string]string{"from": from, "to": to}
	if notes != "" {
		d["notes"] = notes
	}
	l.entity(ctx, r, audit.EventEntityReviewed, actorID, entityType, id, d)
}

// UserUpdated logs an admin change to a user's role or status.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID, userID primitive.ObjectID, fields string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventUserUpdated,
		ActorID:    &actorID,
		UserID:     &userID,
		EntityType: "user",
		EntityID:   &userID,
		Success:    true,
		Details:    map[string]string{"fields": fields},
	}))
}

// OfferRedeemed logs a redemption with the discount granted.
func (l *Logger) OfferRedeemed(ctx context.Context, r *http.Request, userID, offerID primitive.ObjectID, amount, discount float64) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventOfferRedeemed,
		UserID:     &userID,
		ActorID:    &userID,
		EntityType: "offer",
		EntityID:   &offerID,
		Success:    true,
		Details: map[string]string{
			"amount":   strconv.FormatFloat(amount, 'f', 2, 64),
			"discount": strconv.FormatFloat(discount, 'f', 2, 64),
		},
	}))
}

// OfferSweep logs a sweep run that changed at least one offer.
func (l *Logger) OfferSweep(ctx context.Context, activated, expired int64) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategorySystem,
		EventType: audit.EventOfferSweep,
		Success:   true,
		Details: map[string]string{
			"activated": strconv.FormatInt(activated, 10),
			"expired":   strconv.FormatInt(expired, 10),
		},
	})
}
