package txn_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/mosqueconnect/internal/app/system/txn"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unrelated", errors.New("certificate number already issued"), false},
		{"standalone server", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}, true},
		{"old illegal operation", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"op not allowed in txn", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"wrapped command error", fmt.Errorf("approve certification: %w", mongo.CommandError{Code: 20}), true},
		{"duplicate key", mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"}, false},
		{"two keywords", errors.New("Sessions are NOT SUPPORTED by this deployment"), true},
		{"one keyword", errors.New("transaction aborted"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := txn.IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRun_CommitsBothWrites(t *testing.T) {
	db, client := testutil.SetupTestDBWithClient(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := txn.Run(ctx, client, zap.NewNop(), func(ctx context.Context) error {
		if _, err := db.Collection("halal_certifications").InsertOne(ctx, bson.M{"status": "approved"}); err != nil {
			return err
		}
		_, err := db.Collection("businesses").InsertOne(ctx, bson.M{"halal_certified": true})
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, coll := range []string{"halal_certifications", "businesses"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 1 {
			t.Errorf("%s: got %d documents, want 1", coll, n)
		}
	}
}

func TestRun_ReturnsCallbackError(t *testing.T) {
	_, client := testutil.SetupTestDBWithClient(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	boom := errors.New("business not found")
	err := txn.Run(ctx, client, nil, func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
}
