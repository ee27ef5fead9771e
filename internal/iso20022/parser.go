package iso20022

import (
	"fmt"

	"github.com/beevik/etree"
)

// ParsePaymentStatusReport parses a pain.002.001.03 PaymentStatusReport.
// Element lookups match on local names, so documents with or without a
// namespace prefix parse identically. Malformed XML yields ErrParse with
// the underlying syntax message; a well-formed document without a status
// report yields ErrUnsupportedMessage.
func ParsePaymentStatusReport(xmlContent string) (*StatusReport, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlContent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrParse)
	}

	report := findDescendant(root, "CstmrPmtStsRpt")
	if report == nil {
		report = findDescendant(root, "PmtStsRpt")
	}
	if report == nil {
		return nil, ErrUnsupportedMessage
	}

	result := &StatusReport{MessageType: Pain002}

	if grpHdr := findDescendant(report, "GrpHdr"); grpHdr != nil {
		result.MessageID = descendantText(grpHdr, "MsgId")
		result.CreationDate = descendantText(grpHdr, "CreDtTm")
	}

	if orgnl := findDescendant(report, "OrgnlGrpInfAndSts"); orgnl != nil {
		result.OriginalMessageID = descendantText(orgnl, "OrgnlMsgId")
		result.GroupStatus = descendantText(orgnl, "GrpSts")
	}
	if orgnlPmtInf := findDescendant(report, "OrgnlPmtInfAndSts"); orgnlPmtInf != nil {
		if id := descendantText(orgnlPmtInf, "OrgnlPmtInfId"); id != "" {
			result.OriginalMessageID = id
		}
	}

	for _, tx := range findDescendants(report, "TxInfAndSts") {
		status := TransactionStatus{
			StatusID:              descendantText(tx, "StsId"),
			OriginalInstructionID: descendantText(tx, "OrgnlInstrId"),
			TransactionStatus:     descendantText(tx, "TxSts"),
		}
		if reason := findDescendant(tx, "StsRsnInf"); reason != nil {
			status.ReasonCode = descendantText(reason, "RsnCd")
			status.AdditionalInfo = descendantText(reason, "AddtlInf")
		}
		result.StatusReports = append(result.StatusReports, status)
	}

	return result, nil
}

// findDescendant returns the first element in document order whose local
// name matches, ignoring any namespace prefix.
func findDescendant(el *etree.Element, local string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == local {
			return child
		}
		if found := findDescendant(child, local); found != nil {
			return found
		}
	}
	return nil
}

// findDescendants returns all matching elements in document order.
func findDescendants(el *etree.Element, local string) []*etree.Element {
	var found []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == local {
			found = append(found, child)
		}
		found = append(found, findDescendants(child, local)...)
	}
	return found
}

func descendantText(el *etree.Element, local string) string {
	if found := findDescendant(el, local); found != nil {
		return found.Text()
	}
	return ""
}
