// Package iso20022 builds, parses and structurally validates ISO 20022
// XML financial messages. All operations are pure transforms.
package iso20022

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Error definitions for better error handling
var (
	ErrParse              = errors.New("XML parsing error")
	ErrUnsupportedMessage = errors.New("unsupported message type")
	ErrNoPayments         = errors.New("at least one payment is required")
	ErrMissingAccount     = errors.New("account identifier is required")
	ErrMissingStatementID = errors.New("statement id is required")
	ErrMissingOriginalID  = errors.New("original message id is required")
)

// MessageType is the closed set of ISO 20022 messages this platform
// supports, each mapped 1:1 to its ISO message identifier.
type MessageType string

const (
	// Payment initiation
	Pain001 MessageType = "pain.001.001.03" // CustomerCreditTransferInitiation
	Pain002 MessageType = "pain.002.001.03" // PaymentStatusReport
	Pain008 MessageType = "pain.008.001.02" // CustomerDirectDebitInitiation

	// Cash management
	Camt053 MessageType = "camt.053.001.02" // BankToCustomerStatement
	Camt054 MessageType = "camt.054.001.02" // BankToCustomerDebitCreditNotification

	// MessageTypeUnsupported is the explicit fallback for documents
	// outside the supported set.
	MessageTypeUnsupported MessageType = ""
)

const namespacePrefix = "urn:iso:std:iso:20022:tech:xsd:"

// Namespace returns the XML namespace for the message type.
func (t MessageType) Namespace() string {
	return namespacePrefix + string(t)
}

// rootElements maps each supported type to the local name of the
// Document child that identifies it on the wire.
var rootElements = map[MessageType]string{
	Pain001: "CstmrCdtTrfInitn",
	Pain002: "CstmrPmtStsRpt",
	Pain008: "CstmrDrctDbtInitn",
	Camt053: "BkToCstmrStmt",
	Camt054: "BkToCstmrDbtCdtNtfctn",
}

// StatementEntry is one booked transaction in an account statement.
type StatementEntry struct {
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	CreditDebit    string          `json:"credit_debit"` // CRDT or DBIT
	BookingDate    time.Time       `json:"booking_date"`
	ValueDate      time.Time       `json:"value_date"`
	EndToEndID     string          `json:"end_to_end_id,omitempty"`
	RemittanceInfo string          `json:"remittance_info,omitempty"`
}

// AccountStatement is the input for a camt.053 statement.
type AccountStatement struct {
	StatementID string           `json:"statement_id"`
	AccountIBAN string           `json:"account_iban"`
	ServicerBIC string           `json:"servicer_bic,omitempty"`
	Currency    string           `json:"currency"`
	Balance     decimal.Decimal  `json:"balance"`
	Entries     []StatementEntry `json:"entries,omitempty"`
}

// DirectDebit is the input for a pain.008 direct debit initiation.
type DirectDebit struct {
	EndToEndID     string          `json:"end_to_end_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	CollectionDate time.Time       `json:"collection_date"`
	CreditorName   string          `json:"creditor_name"`
	CreditorIBAN   string          `json:"creditor_iban"`
	DebtorName     string          `json:"debtor_name"`
	DebtorIBAN     string          `json:"debtor_iban"`
}

// Notification is the input for a camt.054 debit/credit notification.
type Notification struct {
	AccountIBAN string          `json:"account_iban"`
	ServicerBIC string          `json:"servicer_bic,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CreditDebit string          `json:"credit_debit"` // CRDT or DBIT
	BookingDate time.Time       `json:"booking_date"`
}

// TransactionStatus is one per-transaction entry of a payment status
// report.
type TransactionStatus struct {
	StatusID              string `json:"status_id,omitempty"`
	OriginalInstructionID string `json:"original_instruction_id,omitempty"`
	TransactionStatus     string `json:"transaction_status,omitempty"`
	ReasonCode            string `json:"reason_code,omitempty"`
	AdditionalInfo        string `json:"additional_info,omitempty"`
}

// StatusReport is the parsed form of a pain.002 payment status report.
type StatusReport struct {
	MessageType       MessageType         `json:"message_type"`
	MessageID         string              `json:"message_id,omitempty"`
	CreationDate      string              `json:"creation_date,omitempty"`
	OriginalMessageID string              `json:"original_message_id,omitempty"`
	GroupStatus       string              `json:"group_status,omitempty"`
	StatusReports     []TransactionStatus `json:"status_reports,omitempty"`
}
