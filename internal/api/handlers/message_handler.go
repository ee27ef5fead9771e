package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/nvcfund/finmsg/internal/iso20022"
	"github.com/nvcfund/finmsg/internal/messaging"
	models "github.com/nvcfund/finmsg/internal/models"
	"github.com/nvcfund/finmsg/internal/swift"
)

// MessageHandler handles construction and processing of SWIFT MT and
// ISO 20022 messages.
type MessageHandler struct {
	facade *messaging.Facade
}

// NewMessageHandler creates a new handler instance
func NewMessageHandler(facade *messaging.Facade) *MessageHandler {
	return &MessageHandler{facade: facade}
}

// CreateOutboundPayment builds a pain.001 payment message from a payment
// request.
func (h *MessageHandler) CreateOutboundPayment(c fiber.Ctx) error {
	var req messaging.PaymentRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	xmlMessage, err := h.facade.CreateOutboundPayment(req)
	if err != nil {
		return handleMessageError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	return c.Status(fiber.StatusCreated).SendString(xmlMessage)
}

// ProcessInbound parses an incoming ISO 20022 document.
func (h *MessageHandler) ProcessInbound(c fiber.Ctx) error {
	result, err := h.facade.ProcessInbound(string(c.Body()))
	if err != nil {
		return handleMessageError(c, err)
	}

	status := fiber.StatusOK
	if !result.Supported {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(result)
}

// BuildMT760 renders a standby letter of credit message.
func (h *MessageHandler) BuildMT760(c fiber.Ctx) error {
	var details models.SBLCDetails
	if err := c.Bind().Body(&details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	message, err := swift.BuildMT760(details)
	if err != nil {
		return handleMessageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message_type": models.MT760,
		"message":      message,
	})
}

// BuildFundsTransfer renders an MT103 or MT202 funds transfer message.
func (h *MessageHandler) BuildFundsTransfer(c fiber.Ctx) error {
	var details models.TransferDetails
	if err := c.Bind().Body(&details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	message, err := swift.BuildFundsTransfer(details)
	if err != nil {
		return handleMessageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message_type": swift.MessageTypeFor(details.IsInstitution),
		"message":      message,
	})
}

type freeFormatRequest struct {
	Reference string `json:"reference"`
	Narrative string `json:"narrative"`
}

// BuildMT799 renders a free-format message.
func (h *MessageHandler) BuildMT799(c fiber.Ctx) error {
	var req freeFormatRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	message, err := swift.BuildMT799(req.Reference, req.Narrative)
	if err != nil {
		return handleMessageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message_type": models.MT799,
		"message":      message,
	})
}

// BuildStatement renders a camt.053 account statement.
func (h *MessageHandler) BuildStatement(c fiber.Ctx) error {
	var statement iso20022.AccountStatement
	if err := c.Bind().Body(&statement); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if statement.ServicerBIC == "" {
		statement.ServicerBIC = h.facade.Identity().BIC
	}

	xmlMessage, err := iso20022.BuildAccountStatement(statement)
	if err != nil {
		return handleMessageError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	return c.Status(fiber.StatusCreated).SendString(xmlMessage)
}

// BuildDirectDebit renders a pain.008 direct debit initiation.
func (h *MessageHandler) BuildDirectDebit(c fiber.Ctx) error {
	var debit iso20022.DirectDebit
	if err := c.Bind().Body(&debit); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	xmlMessage, err := iso20022.BuildDirectDebitInitiation(debit)
	if err != nil {
		return handleMessageError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	return c.Status(fiber.StatusCreated).SendString(xmlMessage)
}

// BuildNotification renders a camt.054 debit/credit notification.
func (h *MessageHandler) BuildNotification(c fiber.Ctx) error {
	var notification iso20022.Notification
	if err := c.Bind().Body(&notification); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if notification.ServicerBIC == "" {
		notification.ServicerBIC = h.facade.Identity().BIC
	}

	xmlMessage, err := iso20022.BuildDebitCreditNotification(notification)
	if err != nil {
		return handleMessageError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	return c.Status(fiber.StatusCreated).SendString(xmlMessage)
}

type statusReportRequest struct {
	OriginalMessageID string `json:"original_message_id"`
	Status            string `json:"status"`
}

// BuildStatusReport renders a pain.002 payment status report.
func (h *MessageHandler) BuildStatusReport(c fiber.Ctx) error {
	var req statusReportRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	xmlMessage, err := iso20022.BuildPaymentStatusReport(req.OriginalMessageID, req.Status, h.facade.Identity().BIC)
	if err != nil {
		return handleMessageError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	return c.Status(fiber.StatusCreated).SendString(xmlMessage)
}

type validateRequest struct {
	XML          string `json:"xml"`
	ExpectedType string `json:"expected_type"`
}

// ValidateStructure runs the shallow structural checks on a document.
func (h *MessageHandler) ValidateStructure(c fiber.Ctx) error {
	var req validateRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	report := iso20022.ValidateStructure(req.XML, iso20022.MessageType(req.ExpectedType))
	return c.Status(fiber.StatusOK).JSON(report)
}

func handleMessageError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, iso20022.ErrParse):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, iso20022.ErrUnsupportedMessage):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, messaging.ErrInvalidAmount),
		errors.Is(err, iso20022.ErrNoPayments),
		errors.Is(err, iso20022.ErrMissingAccount),
		errors.Is(err, iso20022.ErrMissingStatementID),
		errors.Is(err, iso20022.ErrMissingOriginalID),
		errors.Is(err, swift.ErrMissingNarrative),
		isValidationError(err):
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
