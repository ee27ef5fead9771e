// Package registry provides the durable store of registered BIC records,
// keyed by the canonical upper-cased BIC code.
package registry

import (
	"context"
	"errors"

	models "github.com/nvcfund/finmsg/internal/models"
)

var (
	// ErrNotFound reports an absent key. It is not a storage failure;
	// callers that treat absence as a normal outcome check for it.
	ErrNotFound = errors.New("BIC code not found")
	// ErrStorage marks backing-store I/O failures so monitoring can tell
	// bad infrastructure from bad input. Retryable by the caller.
	ErrStorage = errors.New("registry storage error")
)

// BICRegistry defines the persistence operations for BIC records.
//
// Register has upsert semantics: an existing record under the same key is
// fully replaced. A Register that returns nil is visible to all
// subsequent Lookup and SearchByCountry calls on the same instance.
type BICRegistry interface {
	Register(ctx context.Context, record *models.BICRecord) error
	Lookup(ctx context.Context, code string) (*models.BICRecord, error)
	SearchByCountry(ctx context.Context, countryCode string) ([]models.BICRecord, error)
}
