// Package status holds the string values stored in the status fields of
// MosqueConnect records. Keeping them in one place lets stores, handlers,
// JSON-schema validators, and the review state machines agree on spelling.
package status

// Account status (users).
const (
	Active   = "active"
	Disabled = "disabled"
)

// Review workflow (mosques, businesses, volunteer applications/offers,
// announcements, certifications).
const (
	Pending     = "pending"
	UnderReview = "under_review"
	Approved    = "approved"
	Rejected    = "rejected"
)

// Business verification.
const (
	Verified = "verified"
)

// Offer lifecycle.
const (
	Draft   = "draft"
	Expired = "expired"
	Paused  = "paused"
)

// Product availability.
const (
	Inactive = "inactive"
)

// Volunteer needs.
const (
	Open   = "open"
	Filled = "filled"
	Closed = "closed"
)

// ReviewStatuses lists the statuses of the pending/approved/rejected workflow.
var ReviewStatuses = []string{Pending, Approved, Rejected}

// CertificationStatuses lists the statuses a halal certification moves through.
var CertificationStatuses = []string{Pending, UnderReview, Approved, Rejected}

// OfferStatuses lists every offer status.
var OfferStatuses = []string{Draft, Active, Expired, Paused}

// NeedStatuses lists every volunteer need status.
var NeedStatuses = []string{Open, Filled, Closed}

// VerificationStatuses lists business verification values.
var VerificationStatuses = []string{Pending, Verified, Rejected}

// In reports whether s is one of vals.
func In(s string, vals []string) bool {
	for _, v := range vals {
		if s == v {
			return true
		}
	}
	return false
}
