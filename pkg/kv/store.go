// Package kv is the record store used by the booking and loyalty services: a
// namespaced key to JSON-document store with no transactions and no schema.
// The Mongo backend is the default; Redis is available for deployments that
// already run one, and the in-memory store backs unit tests.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	// Get unmarshals the value stored at key into out.
	Get(ctx context.Context, key string, out any) error
	// Set marshals value as JSON and stores it at key, replacing any
	// previous value.
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// Key templates shared by the booking manager and the loyalty ledger.

func UserPointsKey(userID string) string {
	return fmt.Sprintf("user:%s:points", userID)
}

func UserVisitsKey(userID string) string {
	return fmt.Sprintf("user:%s:visits", userID)
}

func UserBookingsKey(userID string) string {
	return fmt.Sprintf("user:%s:bookings", userID)
}

func UserPointsHistoryKey(userID string) string {
	return fmt.Sprintf("user:%s:points-history", userID)
}

// AllBookingsKey holds the global booking index read by staff views.
const AllBookingsKey = "admin:all-bookings"
