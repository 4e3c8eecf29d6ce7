// internal/app/features/auditlog/types.go
package auditlog

import "github.com/dalemusser/mosqueconnect/internal/app/store/audit"

// eventTypes lists the event types recorded under each category.
var eventTypes = map[string][]string{
	audit.CategoryAuth: {
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
		audit.EventUserRegistered,
	},
	audit.CategoryAdmin: {
		audit.EventEntityCreated,
		audit.EventEntityUpdated,
		audit.EventEntityDeleted,
		audit.EventEntityReviewed,
		audit.EventUserUpdated,
		audit.EventOfferRedeemed,
	},
	audit.CategorySystem: {
		audit.EventOfferSweep,
	},
}

// knownCategory reports whether c is a recorded category.
func knownCategory(c string) bool {
	_, ok := eventTypes[c]
	return ok
}
