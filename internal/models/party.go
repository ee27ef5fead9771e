package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingPartyName      = errors.New("party name is required")
	ErrMissingAccountID      = errors.New("account requires an IBAN or an account number")
	ErrInvalidCurrency       = errors.New("currency must be a 3-letter ISO 4217 code")
	ErrNonPositiveAmount     = errors.New("amount must be greater than zero")
	ErrCurrencyMismatch      = errors.New("instruction and account currencies do not match")
	ErrMissingInstructionIDs = errors.New("instruction id and end-to-end id are required")
)

// PostalAddress is an optional structured address attached to a party.
type PostalAddress struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Party identifies a debtor, creditor, applicant or beneficiary in a
// message. A party is a value object owned by the message that embeds it.
type Party struct {
	Name           string         `json:"name"`
	PostalAddress  *PostalAddress `json:"postal_address,omitempty"`
	Identification string         `json:"identification,omitempty"`
	ContactDetails string         `json:"contact_details,omitempty"`
}

// Validate checks the party invariants.
func (p *Party) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingPartyName
	}
	return nil
}

// AddressLines returns the address formatted as at most four lines, the
// layout SWIFT party fields expect.
func (p *Party) AddressLines() []string {
	if p.PostalAddress == nil {
		return nil
	}
	var lines []string
	for _, l := range []string{p.PostalAddress.Street, p.PostalAddress.City, p.PostalAddress.PostalCode, p.PostalAddress.Country} {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > 4 {
		lines = lines[:4]
	}
	return lines
}

// BankAccount carries the account identifiers for one side of a payment.
type BankAccount struct {
	IBAN          string `json:"iban,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	Currency      string `json:"currency"`
	BankCode      string `json:"bank_code,omitempty"`
	BranchCode    string `json:"branch_code,omitempty"`
}

// Validate checks that the account is usable: at least one identifier and
// a well-formed currency code.
func (a *BankAccount) Validate() error {
	if strings.TrimSpace(a.IBAN) == "" && strings.TrimSpace(a.AccountNumber) == "" {
		return ErrMissingAccountID
	}
	return validCurrency(a.Currency)
}

// PaymentInstruction is a single credit transfer to be rendered into a
// SWIFT or ISO 20022 message. Amounts are fixed-point decimals; this
// subsystem performs no FX conversion.
type PaymentInstruction struct {
	InstructionID   string          `json:"instruction_id"`
	EndToEndID      string          `json:"end_to_end_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Debtor          Party           `json:"debtor"`
	DebtorAccount   BankAccount     `json:"debtor_account"`
	Creditor        Party           `json:"creditor"`
	CreditorAccount BankAccount     `json:"creditor_account"`
	RemittanceInfo  string          `json:"remittance_info,omitempty"`
	PurposeCode     string          `json:"purpose_code,omitempty"`
	CategoryPurpose string          `json:"category_purpose,omitempty"`
	// CrossCurrencyNote relaxes the currency congruence check when the
	// instruction legitimately spans currencies.
	CrossCurrencyNote string `json:"cross_currency_note,omitempty"`
}

// Validate enforces the instruction invariants before any rendering
// starts. Builders are all-or-nothing, so this runs first.
func (p *PaymentInstruction) Validate() error {
	if strings.TrimSpace(p.InstructionID) == "" || strings.TrimSpace(p.EndToEndID) == "" {
		return ErrMissingInstructionIDs
	}
	if !p.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if err := validCurrency(p.Currency); err != nil {
		return err
	}
	if err := p.Debtor.Validate(); err != nil {
		return err
	}
	if err := p.Creditor.Validate(); err != nil {
		return err
	}
	if err := p.DebtorAccount.Validate(); err != nil {
		return err
	}
	if err := p.CreditorAccount.Validate(); err != nil {
		return err
	}
	if p.CrossCurrencyNote == "" {
		if p.Currency != p.DebtorAccount.Currency || p.Currency != p.CreditorAccount.Currency {
			return ErrCurrencyMismatch
		}
	}
	return nil
}

// CategoryPurposeOrDefault returns the category purpose code, defaulting
// to trade settlement.
func (p *PaymentInstruction) CategoryPurposeOrDefault() string {
	if p.CategoryPurpose == "" {
		return "TRAD"
	}
	return p.CategoryPurpose
}

func validCurrency(code string) error {
	if len(code) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}
