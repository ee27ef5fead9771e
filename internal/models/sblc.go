package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingReference   = errors.New("reference number is required")
	ErrMissingBeneficiary = errors.New("beneficiary name is required")
	ErrExpiryBeforeIssue  = errors.New("expiry date cannot precede issue date")
)

// SBLCDetails carries everything needed to render a standby letter of
// credit as an MT760 message. The caller populates it from its own
// records; this subsystem never reads a database.
type SBLCDetails struct {
	ReferenceNumber   string          `json:"reference_number"`
	IssueDate         time.Time       `json:"issue_date"`
	ExpiryDate        time.Time       `json:"expiry_date"`
	ExpiryPlace       string          `json:"expiry_place"`
	Applicant         Party           `json:"applicant"`
	Beneficiary       Party           `json:"beneficiary"`
	Currency          string          `json:"currency"`
	Amount            decimal.Decimal `json:"amount"`
	PartialDrawings   bool            `json:"partial_drawings"`
	ContractName      string          `json:"contract_name"`
	ContractDate      time.Time       `json:"contract_date"`
	SpecialConditions string          `json:"special_conditions,omitempty"`
	IssuingBankName   string          `json:"issuing_bank_name,omitempty"`
}

// Validate enforces the SBLC invariants before rendering starts.
func (d *SBLCDetails) Validate() error {
	if strings.TrimSpace(d.ReferenceNumber) == "" {
		return ErrMissingReference
	}
	if err := d.Applicant.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.Beneficiary.Name) == "" {
		return ErrMissingBeneficiary
	}
	if !d.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if err := validCurrency(d.Currency); err != nil {
		return err
	}
	if d.ExpiryDate.Before(d.IssueDate) {
		return ErrExpiryBeforeIssue
	}
	return nil
}

// TransferDetails describes an MT103/MT202 funds transfer. IsInstitution
// selects MT202 (institution-to-institution) over MT103 (customer).
type TransferDetails struct {
	Reference        string          `json:"reference"`
	ValueDate        time.Time       `json:"value_date"`
	Currency         string          `json:"currency"`
	Amount           decimal.Decimal `json:"amount"`
	OrderingParty    Party           `json:"ordering_party"`
	BeneficiaryParty Party           `json:"beneficiary_party"`
	PaymentDetails   string          `json:"payment_details,omitempty"`
	IsInstitution    bool            `json:"is_institution"`
}

// Validate enforces the transfer invariants before rendering starts.
func (d *TransferDetails) Validate() error {
	if strings.TrimSpace(d.Reference) == "" {
		return ErrMissingReference
	}
	if err := d.OrderingParty.Validate(); err != nil {
		return err
	}
	if err := d.BeneficiaryParty.Validate(); err != nil {
		return err
	}
	if !d.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return validCurrency(d.Currency)
}
