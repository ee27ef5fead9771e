package iso20022

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Report is the result of a structural validation. Errors are fatal;
// warnings are not.
type Report struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Report) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.IsValid = false
}

func (r *Report) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateStructure performs shallow structural checks of a document
// against an expected message type. This is intentionally not XSD schema
// validation: it spot-checks the root element, the namespace declaration
// and the per-type required elements, nothing deeper.
func ValidateStructure(xmlContent string, expected MessageType) Report {
	report := Report{IsValid: true}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlContent); err != nil {
		report.addError("XML parsing error: %v", err)
		return report
	}
	root := doc.Root()
	if root == nil {
		report.addError("document has no root element")
		return report
	}

	if !strings.HasSuffix(root.Tag, "Document") {
		report.addError("root element must be 'Document'")
	}
	if !hasNamespaceDecl(root) {
		report.addWarning("missing namespace declaration")
	}

	switch expected {
	case Pain001:
		validatePain001(root, &report)
	case Camt053:
		validateCamt053(root, &report)
	}

	return report
}

// hasNamespaceDecl accepts both the default form (xmlns="...") and the
// prefixed form (xmlns:ns="..."), which etree stores with Space "xmlns".
func hasNamespaceDecl(root *etree.Element) bool {
	for _, attr := range root.Attr {
		if attr.Key == "xmlns" && attr.Space == "" {
			return true
		}
		if attr.Space == "xmlns" {
			return true
		}
	}
	return false
}

// validatePain001 checks the CustomerCreditTransferInitiation element and
// its required children. Missing children are warnings, matching the
// platform's historical behavior; only the missing initiation element
// itself is fatal.
func validatePain001(root *etree.Element, report *Report) {
	var initiation *etree.Element
	for _, child := range root.ChildElements() {
		if strings.Contains(child.Tag, "CstmrCdtTrfInitn") || strings.Contains(child.Tag, "CustomerCreditTransferInitiation") {
			initiation = child
			break
		}
	}
	if initiation == nil {
		report.addError("missing CustomerCreditTransferInitiation element")
		return
	}

	for _, required := range []string{"MsgId", "CreDtTm", "NbOfTxs", "PmtInfId", "PmtMtd"} {
		if findDescendant(initiation, required) == nil {
			report.addWarning("missing or empty element: %s", required)
		}
	}
}

func validateCamt053(root *etree.Element, report *Report) {
	grpHdr := findDescendant(root, "GrpHdr")
	if grpHdr == nil || findDescendant(grpHdr, "MsgId") == nil {
		report.addError("missing required element: GrpHdr/MsgId")
	}
	if grpHdr == nil || findDescendant(grpHdr, "CreDtTm") == nil {
		report.addError("missing required element: GrpHdr/CreDtTm")
	}

	stmt := findDescendant(root, "Stmt")
	if stmt == nil || findDescendant(stmt, "Id") == nil {
		report.addError("missing required element: Stmt/Id")
	}
	if stmt == nil || findDescendant(stmt, "Acct") == nil {
		report.addError("missing required element: Stmt/Acct")
	}
}
