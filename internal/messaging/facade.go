// Package messaging orchestrates the builders and parsers for the two
// supported flows: outbound payment creation and inbound message
// processing. It is the only component that touches the bank identity
// configured for this installation.
package messaging

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/beevik/etree"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nvcfund/finmsg/internal/bic"
	"github.com/nvcfund/finmsg/internal/iso20022"
	models "github.com/nvcfund/finmsg/internal/models"
)

var ErrInvalidAmount = errors.New("invalid amount")

// BankIdentity is the fixed debtor side of every outbound payment,
// effectively static configuration.
type BankIdentity struct {
	Name       string `koanf:"name"`
	BIC        string `koanf:"bic"`
	IBAN       string `koanf:"iban"`
	Street     string `koanf:"street"`
	City       string `koanf:"city"`
	Country    string `koanf:"country"`
	PostalCode string `koanf:"postal_code"`
}

// PaymentRequest is the caller-facing input for an outbound payment. The
// amount arrives as a decimal string; identifiers are generated when
// absent.
type PaymentRequest struct {
	InstructionID       string `json:"instruction_id,omitempty"`
	EndToEndID          string `json:"end_to_end_id,omitempty"`
	Amount              string `json:"amount"`
	Currency            string `json:"currency"`
	CreditorName        string `json:"creditor_name"`
	CreditorIBAN        string `json:"creditor_iban,omitempty"`
	CreditorAccount     string `json:"creditor_account,omitempty"`
	CreditorAccountName string `json:"creditor_account_name,omitempty"`
	CreditorBankBIC     string `json:"creditor_bank_bic,omitempty"`
	RemittanceInfo      string `json:"remittance_info,omitempty"`
	PurposeCode         string `json:"purpose_code,omitempty"`
}

// InboundResult is the structured outcome of processing an inbound
// message. Unsupported message types are a result, not an error.
type InboundResult struct {
	MessageType  iso20022.MessageType   `json:"message_type"`
	Supported    bool                   `json:"supported"`
	StatusReport *iso20022.StatusReport `json:"status_report,omitempty"`
}

// Facade wires the bank identity into the codec operations.
type Facade struct {
	identity BankIdentity
	node     *snowflake.Node
}

// NewFacade validates the configured identity and prepares the
// instruction-id generator.
func NewFacade(identity BankIdentity) (*Facade, error) {
	if err := bic.Validate(identity.BIC); err != nil {
		return nil, fmt.Errorf("bank BIC: %w", err)
	}
	if strings.TrimSpace(identity.Name) == "" {
		return nil, models.ErrMissingPartyName
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("initializing id generator: %w", err)
	}

	return &Facade{identity: identity, node: node}, nil
}

// CreateOutboundPayment builds a pain.001 customer credit transfer with
// the configured bank as debtor. The generated document is re-parsed as
// a cheap self-check of the Document root before being returned.
func (f *Facade) CreateOutboundPayment(req PaymentRequest) (string, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, req.Amount)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	instructionID := req.InstructionID
	if instructionID == "" {
		instructionID = "NVC" + f.node.Generate().String()
	}
	endToEndID := req.EndToEndID
	if endToEndID == "" {
		endToEndID = "E2E" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}

	payment := models.PaymentInstruction{
		InstructionID: instructionID,
		EndToEndID:    endToEndID,
		Amount:        amount,
		Currency:      currency,
		Debtor: models.Party{
			Name:           f.identity.Name,
			Identification: bic.Canonical(f.identity.BIC),
			PostalAddress: &models.PostalAddress{
				Street:     f.identity.Street,
				City:       f.identity.City,
				Country:    f.identity.Country,
				PostalCode: f.identity.PostalCode,
			},
		},
		DebtorAccount: models.BankAccount{
			IBAN:        f.identity.IBAN,
			AccountName: f.identity.Name,
			Currency:    currency,
			BankCode:    bic.Canonical(f.identity.BIC),
		},
		Creditor: models.Party{
			Name:           req.CreditorName,
			Identification: req.CreditorBankBIC,
		},
		CreditorAccount: models.BankAccount{
			IBAN:          req.CreditorIBAN,
			AccountNumber: req.CreditorAccount,
			AccountName:   req.CreditorAccountName,
			Currency:      currency,
			BankCode:      req.CreditorBankBIC,
		},
		RemittanceInfo: req.RemittanceInfo,
		PurposeCode:    req.PurposeCode,
	}

	xmlMessage, err := iso20022.BuildCustomerCreditTransfer([]models.PaymentInstruction{payment}, "")
	if err != nil {
		return "", err
	}

	if err := checkDocumentRoot(xmlMessage); err != nil {
		return "", err
	}

	log.Printf("Generated outbound payment message: %s", instructionID)
	return xmlMessage, nil
}

// ProcessInbound detects the message type and dispatches to the matching
// parser. Only pain.002 is handled today; everything else yields an
// unsupported result rather than an error.
func (f *Facade) ProcessInbound(xmlContent string) (*InboundResult, error) {
	messageType, err := iso20022.DetectMessageType(xmlContent)
	if err != nil {
		return nil, err
	}

	switch messageType {
	case iso20022.Pain002:
		report, err := iso20022.ParsePaymentStatusReport(xmlContent)
		if err != nil {
			return nil, err
		}
		return &InboundResult{
			MessageType:  iso20022.Pain002,
			Supported:    true,
			StatusReport: report,
		}, nil
	default:
		log.Printf("Unsupported inbound message type: %q", messageType)
		return &InboundResult{MessageType: messageType}, nil
	}
}

// Identity returns the configured bank identity.
func (f *Facade) Identity() BankIdentity {
	return f.identity
}

// checkDocumentRoot confirms the serialized output carries the ISO 20022
// Document root. A self-check of our own builder output, not validation.
func checkDocumentRoot(xmlContent string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlContent); err != nil {
		return fmt.Errorf("%w: %v", iso20022.ErrParse, err)
	}
	root := doc.Root()
	if root == nil || !strings.HasSuffix(root.Tag, "Document") {
		return fmt.Errorf("%w: generated message is not an ISO 20022 Document", iso20022.ErrParse)
	}
	return nil
}
