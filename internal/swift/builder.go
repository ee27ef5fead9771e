// Package swift renders structured instructions into SWIFT MT fixed-field
// message text. Builders are pure transforms and all-or-nothing: invalid
// input fails before any text is emitted.
package swift

import (
	"errors"
	"strings"

	models "github.com/nvcfund/finmsg/internal/models"
)

var ErrMissingNarrative = errors.New("narrative text is required")

// sblcDocumentsRequired is the fixed documents-required block of field
// 46A.
var sblcDocumentsRequired = []string{
	"DOCUMENTS REQUIRED:",
	"1. BENEFICIARY'S SIGNED STATEMENT",
	"CERTIFYING THAT THE APPLICANT HAS",
	"FAILED TO FULFILL CONTRACTUAL",
	"OBLIGATIONS UNDER THE REFERENCED",
	"CONTRACT.",
	"2. COPY OF COMMERCIAL INVOICE.",
	"3. COPY OF TRANSPORT DOCUMENT.",
}

// sblcAdditionalConditions is the fixed boilerplate of field 47A. Caller
// special conditions are appended after it.
var sblcAdditionalConditions = []string{
	"ADDITIONAL CONDITIONS:",
	"THIS STANDBY LETTER OF CREDIT IS",
	"SUBJECT TO THE INTERNATIONAL STANDBY",
	"PRACTICES, INTERNATIONAL CHAMBER OF",
	"COMMERCE PUBLICATION NO. 590 (ISP98).",
}

var sblcCharges = []string{
	"ALL BANKING CHARGES OUTSIDE THE",
	"COUNTRY OF THE ISSUING BANK ARE FOR",
	"BENEFICIARY'S ACCOUNT",
}

var sblcPresentationPeriod = []string{
	"DOCUMENTS MUST BE PRESENTED WITHIN",
	"21 DAYS AFTER THE EVENT GIVING RISE",
	"TO THE DRAWING BUT NOT LATER THAN THE",
	"EXPIRY DATE OF THIS CREDIT.",
}

// BuildMT760 renders a standby letter of credit as an MT760 text block.
func BuildMT760(d models.SBLCDetails) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	issueDate := d.IssueDate.Format("060102")
	expiryDate := d.ExpiryDate.Format("060102")
	amount := d.Amount.StringFixed(2)

	var lines []string
	lines = appendField(lines, "27A", "IRREVOCABLE STANDBY")
	lines = appendField(lines, "20", d.ReferenceNumber)
	lines = appendField(lines, "31C", issueDate)
	lines = appendField(lines, "31D", expiryDate+d.ExpiryPlace)
	lines = appendParty(lines, "50", d.Applicant)
	lines = appendParty(lines, "59", d.Beneficiary)
	lines = appendField(lines, "32B", d.Currency+amount)
	lines = appendField(lines, "41A", "AVAILABLE WITH ANY BANK BY NEGOTIATION")
	if d.PartialDrawings {
		lines = appendField(lines, "43P", "ALLOWED")
	} else {
		lines = appendField(lines, "43P", "NOT ALLOWED")
	}
	lines = appendField(lines, "45A", d.ContractName)
	lines = appendField(lines, "45A", "DATED "+d.ContractDate.Format("January 02, 2006"))

	lines = appendBlock(lines, "46A", sblcDocumentsRequired)
	lines = appendBlock(lines, "47A", sblcAdditionalConditions)
	if d.SpecialConditions != "" {
		lines = append(lines, wrapText(d.SpecialConditions)...)
	}

	lines = appendBlock(lines, "71B", sblcCharges)
	lines = appendBlock(lines, "48", sblcPresentationPeriod)
	lines = appendField(lines, "49", "WITHOUT")

	issuingBank := d.IssuingBankName
	if issuingBank == "" {
		issuingBank = "NVC FUND BANK"
	}
	lines = appendField(lines, "72", issuingBank)

	return strings.Join(lines, "\n"), nil
}

// BuildFundsTransfer renders an MT103 customer credit transfer or, when
// the transfer is between institutions, an MT202. Message-type selection
// is purely a function of d.IsInstitution.
func BuildFundsTransfer(d models.TransferDetails) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	var lines []string
	lines = appendField(lines, "20", d.Reference)
	lines = appendField(lines, "23B", "CRED")
	lines = appendField(lines, "32A", d.ValueDate.Format("060102")+d.Currency+d.Amount.StringFixed(2))

	if d.IsInstitution {
		lines = appendParty(lines, "53A", d.OrderingParty)
		lines = appendParty(lines, "58A", d.BeneficiaryParty)
	} else {
		lines = appendParty(lines, "50K", d.OrderingParty)
		lines = appendParty(lines, "59", d.BeneficiaryParty)
	}

	if d.PaymentDetails != "" {
		lines = appendField(lines, "70", d.PaymentDetails)
	}
	lines = appendField(lines, "71A", "SHA")

	return strings.Join(lines, "\n"), nil
}

// MessageTypeFor returns the MT identifier BuildFundsTransfer emits for
// the given details.
func MessageTypeFor(isInstitution bool) models.SwiftMessageType {
	if isInstitution {
		return models.MT202
	}
	return models.MT103
}

// BuildMT799 renders a free-format message: a reference and a narrative
// wrapped at 35 characters per line.
func BuildMT799(reference, narrative string) (string, error) {
	if strings.TrimSpace(reference) == "" {
		return "", models.ErrMissingReference
	}
	if strings.TrimSpace(narrative) == "" {
		return "", ErrMissingNarrative
	}

	var lines []string
	lines = appendField(lines, "20", reference)
	lines = appendField(lines, "79", narrative)
	return strings.Join(lines, "\n"), nil
}

// appendParty writes a party field: name on the tagged line, then up to
// four address lines, each wrapped at 35 characters.
func appendParty(lines []string, tag string, p models.Party) []string {
	lines = appendField(lines, tag, p.Name)
	for _, addr := range p.AddressLines() {
		lines = append(lines, wrapText(addr)...)
	}
	return lines
}

// appendBlock writes a fixed boilerplate block: the first line tagged,
// the rest as continuation lines.
func appendBlock(lines []string, tag string, block []string) []string {
	lines = appendField(lines, tag, block[0])
	for _, l := range block[1:] {
		lines = append(lines, wrapText(l)...)
	}
	return lines
}
