// Package review implements the status-review workflow shared by every
// record an admin or imam approves: mosques, businesses, volunteer
// applications and offers, announcements, and halal certifications.
//
// A Machine lists the legal transitions. Apply validates a requested
// transition against the record's current status and performs a
// conditional single-document update, so two reviewers racing on the same
// record cannot both win: the loser's filter no longer matches and gets
// ErrInvalidTransition.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/system/status"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrInvalidStatus is returned when the target status is not a status
	// of the machine at all.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidTransition is returned when the record cannot move from its
	// current status to the target status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Machine is a small status state machine.
type Machine struct {
	Name     string
	Statuses []string
	edges    map[string][]string
}

// NewMachine builds a Machine from an adjacency list.
func NewMachine(name string, statuses []string, edges map[string][]string) Machine {
	return Machine{Name: name, Statuses: statuses, edges: edges}
}

// Standard is pending → approved | rejected. Approved and rejected are
// terminal.
var Standard = NewMachine("review", status.ReviewStatuses, map[string][]string{
	status.Pending: {status.Approved, status.Rejected},
})

// Certification is pending → under_review → approved | rejected. Admins
// may also decide straight from pending.
var Certification = NewMachine("certification", status.CertificationStatuses, map[string][]string{
	status.Pending:     {status.UnderReview, status.Approved, status.Rejected},
	status.UnderReview: {status.Approved, status.Rejected},
})

// Need covers volunteer needs, which imams open, fill and close, and may
// reopen while the mosque still wants help.
var Need = NewMachine("need", status.NeedStatuses, map[string][]string{
	status.Open:   {status.Filled, status.Closed},
	status.Filled: {status.Open, status.Closed},
})

// Valid reports whether s is a status of m.
func (m Machine) Valid(s string) bool {
	return status.In(s, m.Statuses)
}

// Allowed reports whether m permits from → to.
func (m Machine) Allowed(from, to string) bool {
	for _, next := range m.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (m Machine) Terminal(s string) bool {
	return len(m.edges[s]) == 0
}

// Check validates from → to and returns ErrInvalidStatus or
// ErrInvalidTransition (wrapped with the statuses involved).
func (m Machine) Check(from, to string) error {
	if !m.Valid(to) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !m.Allowed(from, to) {
		return fmt.Errorf("%w: %s %q → %q", ErrInvalidTransition, m.Name, from, to)
	}
	return nil
}

// Decision is a reviewer's request to move a record to Status.
type Decision struct {
	Status string
	Actor  primitive.ObjectID
	Notes  string
	At     time.Time
}

// Fields returns the $set document that records the decision.
func (d Decision) Fields() bson.M {
	at := d.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	set := bson.M{
		"status":      d.Status,
		"reviewed_by": d.Actor,
		"reviewed_at": at,
		"updated_at":  at,
	}
	if d.Notes != "" {
		set["review_notes"] = d.Notes
	}
	return set
}

// Apply loads the record's current status, checks the transition, and
// writes the decision together with any extra fields. It returns the
// status the record had before the update.
//
// mongo.ErrNoDocuments is returned when the record does not exist.
func Apply(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, m Machine, d Decision, extra bson.M) (string, error) {
	var cur struct {
		Status string `bson:"status"`
	}
	err := c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"status": 1})).Decode(&cur)
	if err != nil {
		return "", err
	}
	if err := m.Check(cur.Status, d.Status); err != nil {
		return cur.Status, err
	}

	set := d.Fields()
	for k, v := range extra {
		set[k] = v
	}

	res, err := c.UpdateOne(ctx, bson.M{"_id": id, "status": cur.Status}, bson.M{"$set": set})
	if err != nil {
		return cur.Status, err
	}
	if res.MatchedCount == 0 {
		// Another reviewer changed the status between our read and write.
		return cur.Status, fmt.Errorf("%w: %s changed concurrently", ErrInvalidTransition, m.Name)
	}
	return cur.Status, nil
}
