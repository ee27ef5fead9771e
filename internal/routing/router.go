// Package routing decides whether two BICs can exchange a given SWIFT
// message type.
package routing

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nvcfund/finmsg/internal/bic"
	models "github.com/nvcfund/finmsg/internal/models"
	"github.com/nvcfund/finmsg/internal/registry"
)

// Status is the outcome of a routing decision.
type Status string

const (
	StatusValidationFailed Status = "validation_failed"
	StatusRouteUnavailable Status = "route_unavailable"
	StatusRouteAvailable   Status = "route_available"
)

// Result carries the full routing diagnostics. It is always populated;
// every missing or invalid BIC appends a human-readable reason to
// Errors so the caller can render partial diagnostics.
type Result struct {
	Status         Status                  `json:"status"`
	MessageType    models.SwiftMessageType `json:"message_type"`
	SenderValid    bool                    `json:"sender_valid"`
	ReceiverValid  bool                    `json:"receiver_valid"`
	SenderFound    bool                    `json:"sender_found"`
	ReceiverFound  bool                    `json:"receiver_found"`
	SenderRecord   *models.BICRecord       `json:"sender_record,omitempty"`
	ReceiverRecord *models.BICRecord       `json:"receiver_record,omitempty"`
	// Path is the ordered routing pair [sender, receiver]. Multi-hop
	// correspondent routing is not implemented; the path is always the
	// direct pair when a route exists.
	Path   []string `json:"routing_path,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// Router validates both endpoints syntactically and resolves them in the
// registry before declaring a route available.
type Router struct {
	registry registry.BICRegistry
}

// NewRouter creates a router over the given registry.
func NewRouter(reg registry.BICRegistry) *Router {
	return &Router{registry: reg}
}

// Route checks sender and receiver and returns the routing decision. It
// never returns an error: failures are folded into the result. Registry
// presence is required for a route; record status is not consulted.
func (r *Router) Route(ctx context.Context, senderBIC, receiverBIC string, messageType models.SwiftMessageType) Result {
	result := Result{
		Status:      StatusValidationFailed,
		MessageType: messageType,
	}

	if err := bic.Validate(senderBIC); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid sender BIC: %v", err))
	} else {
		result.SenderValid = true
		result.SenderRecord, result.SenderFound = r.resolve(ctx, senderBIC, &result)
	}

	if err := bic.Validate(receiverBIC); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid receiver BIC: %v", err))
	} else {
		result.ReceiverValid = true
		result.ReceiverRecord, result.ReceiverFound = r.resolve(ctx, receiverBIC, &result)
	}

	if !result.SenderValid || !result.ReceiverValid {
		return result
	}

	if !result.SenderFound {
		result.Errors = append(result.Errors, fmt.Sprintf("sender BIC %s not found in registry", bic.Canonical(senderBIC)))
	}
	if !result.ReceiverFound {
		result.Errors = append(result.Errors, fmt.Sprintf("receiver BIC %s not found in registry", bic.Canonical(receiverBIC)))
	}
	if !result.SenderFound || !result.ReceiverFound {
		result.Status = StatusRouteUnavailable
		return result
	}

	result.Status = StatusRouteAvailable
	result.Path = []string{bic.Canonical(senderBIC), bic.Canonical(receiverBIC)}
	return result
}

// resolve looks up a BIC, folding storage failures into the result
// diagnostics instead of aborting the routing decision.
func (r *Router) resolve(ctx context.Context, code string, result *Result) (*models.BICRecord, bool) {
	record, err := r.registry.Lookup(ctx, code)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		log.Printf("WARNING: registry lookup failed for %s: %v", bic.Canonical(code), err)
		result.Errors = append(result.Errors, fmt.Sprintf("registry lookup failed for %s: %v", bic.Canonical(code), err))
		return nil, false
	}
	return record, true
}
