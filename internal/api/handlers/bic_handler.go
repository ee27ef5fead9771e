package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/nvcfund/finmsg/internal/bic"
	models "github.com/nvcfund/finmsg/internal/models"
	"github.com/nvcfund/finmsg/internal/registry"
	"github.com/nvcfund/finmsg/internal/routing"
)

// BICHandler handles API requests for BIC validation, registration and
// routing.
type BICHandler struct {
	registry registry.BICRegistry
	router   *routing.Router
}

// NewBICHandler creates a new handler instance
func NewBICHandler(reg registry.BICRegistry, router *routing.Router) *BICHandler {
	return &BICHandler{registry: reg, router: router}
}

// Validate handles syntactic validation of a BIC code.
func (h *BICHandler) Validate(c fiber.Ctx) error {
	code := c.Params("bic")

	components, err := bic.Parse(code)
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"bic_code": bic.Canonical(code),
			"is_valid": false,
			"reason":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"bic_code":   bic.Canonical(code),
		"is_valid":   true,
		"components": components,
	})
}

// Register handles registration of a BIC record.
func (h *BICHandler) Register(c fiber.Ctx) error {
	var record models.BICRecord
	if err := c.Bind().Body(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.registry.Register(c.Context(), &record); err != nil {
		return handleError(c, err)
	}

	log.Printf("INFO: BIC registered: %s", record.BICCode)
	return c.Status(fiber.StatusCreated).JSON(record)
}

// Lookup handles retrieval of a registered BIC record.
func (h *BICHandler) Lookup(c fiber.Ctx) error {
	code := strings.ToUpper(c.Params("bic"))

	record, err := h.registry.Lookup(c.Context(), code)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(record)
}

// SearchByCountry handles retrieval of all active BIC records for a
// country.
func (h *BICHandler) SearchByCountry(c fiber.Ctx) error {
	countryCode := strings.ToUpper(c.Params("countryISO2code"))
	if !bic.ValidCountryCode(countryCode) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid country code",
		})
	}

	records, err := h.registry.SearchByCountry(c.Context(), countryCode)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"country_iso2": countryCode,
		"bic_codes":    records,
	})
}

type routeRequest struct {
	SenderBIC   string `json:"sender_bic"`
	ReceiverBIC string `json:"receiver_bic"`
	MessageType string `json:"message_type"`
}

// Route handles a routing decision between two BICs.
func (h *BICHandler) Route(c fiber.Ctx) error {
	var req routeRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	messageType := models.SwiftMessageType(strings.ToUpper(req.MessageType))
	if !messageType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unsupported message type",
		})
	}

	result := h.router.Route(c.Context(), req.SenderBIC, req.ReceiverBIC, messageType)
	return c.Status(fiber.StatusOK).JSON(result)
}

// Helper function for error handling
func handleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "BIC code not found",
		})
	case errors.Is(err, registry.ErrStorage):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Registry storage unavailable",
		})
	case isValidationError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		log.Printf("ERROR: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		bic.ErrEmpty,
		bic.ErrLength,
		bic.ErrInstitutionCode,
		bic.ErrCountryCode,
		bic.ErrLocationCode,
		bic.ErrBranchCode,
		models.ErrMissingPartyName,
		models.ErrMissingAccountID,
		models.ErrInvalidCurrency,
		models.ErrNonPositiveAmount,
		models.ErrCurrencyMismatch,
		models.ErrMissingInstructionIDs,
		models.ErrMissingReference,
		models.ErrMissingBeneficiary,
		models.ErrExpiryBeforeIssue,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
