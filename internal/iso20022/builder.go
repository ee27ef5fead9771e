package iso20022

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	models "github.com/nvcfund/finmsg/internal/models"
)

// NewMessageID generates a message identifier of the form
// NVC<UTC timestamp><8 random hex characters>.
func NewMessageID() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "NVC" + time.Now().UTC().Format("20060102150405") + random
}

// BuildCustomerCreditTransfer generates a pain.001.001.03
// CustomerCreditTransferInitiation document. All payments share one
// payment-information block; the group header control sum is the
// arithmetic sum of the payment amounts. An empty messageID is replaced
// with a generated one.
func BuildCustomerCreditTransfer(payments []models.PaymentInstruction, messageID string) (string, error) {
	if len(payments) == 0 {
		return "", ErrNoPayments
	}
	for i := range payments {
		if err := payments[i].Validate(); err != nil {
			return "", fmt.Errorf("payment %d: %w", i+1, err)
		}
	}
	if messageID == "" {
		messageID = NewMessageID()
	}

	controlSum := decimal.Zero
	for i := range payments {
		controlSum = controlSum.Add(payments[i].Amount)
	}
	txCount := strconv.Itoa(len(payments))

	doc, root := newDocument(Pain001)
	initiation := root.CreateElement("CstmrCdtTrfInitn")

	// Group header
	grpHdr := initiation.CreateElement("GrpHdr")
	grpHdr.CreateElement("MsgId").SetText(messageID)
	grpHdr.CreateElement("CreDtTm").SetText(time.Now().UTC().Format(time.RFC3339))
	grpHdr.CreateElement("NbOfTxs").SetText(txCount)
	grpHdr.CreateElement("CtrlSum").SetText(controlSum.StringFixed(2))
	grpHdr.CreateElement("InitgPty").CreateElement("Nm").SetText(payments[0].Debtor.Name)

	// Payment information: one block for the whole call
	pmtInf := initiation.CreateElement("PmtInf")
	pmtInf.CreateElement("PmtInfId").SetText("PMT" + messageID)
	pmtInf.CreateElement("PmtMtd").SetText("TRF")
	pmtInf.CreateElement("NbOfTxs").SetText(txCount)
	pmtInf.CreateElement("CtrlSum").SetText(controlSum.StringFixed(2))
	pmtInf.CreateElement("PmtTpInf").CreateElement("SvcLvl").CreateElement("Cd").SetText("SEPA")
	pmtInf.CreateElement("ReqdExctnDt").SetText(time.Now().UTC().Format("2006-01-02"))

	debtor := payments[0]
	pmtInf.CreateElement("Dbtr").CreateElement("Nm").SetText(debtor.Debtor.Name)
	dbtrAcctID := pmtInf.CreateElement("DbtrAcct").CreateElement("Id")
	if debtor.DebtorAccount.IBAN != "" {
		dbtrAcctID.CreateElement("IBAN").SetText(debtor.DebtorAccount.IBAN)
	} else {
		dbtrAcctID.CreateElement("Othr").CreateElement("Id").SetText(debtor.DebtorAccount.AccountNumber)
	}
	if debtor.DebtorAccount.BankCode != "" {
		pmtInf.CreateElement("DbtrAgt").CreateElement("FinInstnId").CreateElement("BIC").SetText(debtor.DebtorAccount.BankCode)
	}

	// One credit transfer transaction per payment
	for i := range payments {
		p := &payments[i]
		tx := pmtInf.CreateElement("CdtTrfTxInf")

		pmtID := tx.CreateElement("PmtId")
		pmtID.CreateElement("InstrId").SetText(p.InstructionID)
		pmtID.CreateElement("EndToEndId").SetText(p.EndToEndID)

		instdAmt := tx.CreateElement("Amt").CreateElement("InstdAmt")
		instdAmt.CreateAttr("Ccy", p.Currency)
		instdAmt.SetText(p.Amount.StringFixed(2))

		if p.CreditorAccount.BankCode != "" {
			tx.CreateElement("CdtrAgt").CreateElement("FinInstnId").CreateElement("BIC").SetText(p.CreditorAccount.BankCode)
		}

		tx.CreateElement("Cdtr").CreateElement("Nm").SetText(p.Creditor.Name)

		acctID := tx.CreateElement("CdtrAcct").CreateElement("Id")
		if p.CreditorAccount.IBAN != "" {
			acctID.CreateElement("IBAN").SetText(p.CreditorAccount.IBAN)
		} else {
			acctID.CreateElement("Othr").CreateElement("Id").SetText(p.CreditorAccount.AccountNumber)
		}

		if p.RemittanceInfo != "" {
			tx.CreateElement("RmtInf").CreateElement("Ustrd").SetText(p.RemittanceInfo)
		}
	}

	return serialize(doc)
}

// BuildAccountStatement generates a camt.053.001.02 BankToCustomerStatement.
func BuildAccountStatement(s AccountStatement) (string, error) {
	if s.AccountIBAN == "" {
		return "", ErrMissingAccount
	}
	if s.StatementID == "" {
		return "", ErrMissingStatementID
	}

	doc, root := newDocument(Camt053)
	stmt := root.CreateElement("BkToCstmrStmt")

	now := time.Now().UTC().Format(time.RFC3339)
	grpHdr := stmt.CreateElement("GrpHdr")
	grpHdr.CreateElement("MsgId").SetText(s.StatementID)
	grpHdr.CreateElement("CreDtTm").SetText(now)

	statement := stmt.CreateElement("Stmt")
	statement.CreateElement("Id").SetText(s.StatementID)
	statement.CreateElement("CreDtTm").SetText(now)

	acct := statement.CreateElement("Acct")
	acct.CreateElement("Id").CreateElement("IBAN").SetText(s.AccountIBAN)
	if s.ServicerBIC != "" {
		acct.CreateElement("Svcr").CreateElement("FinInstnId").CreateElement("BIC").SetText(s.ServicerBIC)
	}

	// Closing balance
	bal := statement.CreateElement("Bal")
	bal.CreateElement("Tp").CreateElement("CdOrPrtry").CreateElement("Cd").SetText("CLBD")
	amt := bal.CreateElement("Amt")
	amt.CreateAttr("Ccy", s.Currency)
	amt.SetText(s.Balance.Abs().StringFixed(2))
	if s.Balance.Sign() >= 0 {
		bal.CreateElement("CdtDbtInd").SetText("CRDT")
	} else {
		bal.CreateElement("CdtDbtInd").SetText("DBIT")
	}
	bal.CreateElement("Dt").SetText(time.Now().UTC().Format("2006-01-02"))

	for _, entry := range s.Entries {
		ntry := statement.CreateElement("Ntry")
		entryAmt := ntry.CreateElement("Amt")
		entryAmt.CreateAttr("Ccy", entry.Currency)
		entryAmt.SetText(entry.Amount.StringFixed(2))
		ntry.CreateElement("CdtDbtInd").SetText(entry.CreditDebit)
		ntry.CreateElement("Sts").SetText("BOOK")
		ntry.CreateElement("BookgDt").CreateElement("Dt").SetText(entry.BookingDate.Format("2006-01-02"))
		ntry.CreateElement("ValDt").CreateElement("Dt").SetText(entry.ValueDate.Format("2006-01-02"))

		txDtls := ntry.CreateElement("NtryDtls").CreateElement("TxDtls")
		endToEnd := entry.EndToEndID
		if endToEnd == "" {
			endToEnd = "NOTPROVIDED"
		}
		txDtls.CreateElement("EndToEndId").SetText(endToEnd)
		if entry.RemittanceInfo != "" {
			txDtls.CreateElement("RmtInf").CreateElement("Ustrd").SetText(entry.RemittanceInfo)
		}
	}

	return serialize(doc)
}

// BuildPaymentStatusReport generates a pain.002.001.03 report for an
// original message, carrying the group status code (ACCP, RJCT, PDNG).
func BuildPaymentStatusReport(originalMessageID, status, instructingAgentBIC string) (string, error) {
	if originalMessageID == "" {
		return "", ErrMissingOriginalID
	}
	if status == "" {
		status = "ACCP"
	}

	doc, root := newDocument(Pain002)
	report := root.CreateElement("CstmrPmtStsRpt")

	grpHdr := report.CreateElement("GrpHdr")
	grpHdr.CreateElement("MsgId").SetText(NewMessageID())
	grpHdr.CreateElement("CreDtTm").SetText(time.Now().UTC().Format(time.RFC3339))
	if instructingAgentBIC != "" {
		grpHdr.CreateElement("InstgAgt").CreateElement("FinInstnId").CreateElement("BIC").SetText(instructingAgentBIC)
	}

	orgnl := report.CreateElement("OrgnlGrpInfAndSts")
	orgnl.CreateElement("OrgnlMsgId").SetText(originalMessageID)
	orgnl.CreateElement("GrpSts").SetText(status)

	return serialize(doc)
}

// BuildDirectDebitInitiation generates a pain.008.001.02
// CustomerDirectDebitInitiation with a single transaction.
func BuildDirectDebitInitiation(d DirectDebit) (string, error) {
	if !d.Amount.IsPositive() {
		return "", models.ErrNonPositiveAmount
	}
	if d.CreditorName == "" || d.DebtorName == "" {
		return "", models.ErrMissingPartyName
	}
	if d.CreditorIBAN == "" || d.DebtorIBAN == "" {
		return "", ErrMissingAccount
	}

	doc, root := newDocument(Pain008)
	initiation := root.CreateElement("CstmrDrctDbtInitn")

	now := time.Now().UTC()
	grpHdr := initiation.CreateElement("GrpHdr")
	grpHdr.CreateElement("MsgId").SetText("DD" + now.Format("20060102150405"))
	grpHdr.CreateElement("CreDtTm").SetText(now.Format(time.RFC3339))
	grpHdr.CreateElement("NbOfTxs").SetText("1")
	grpHdr.CreateElement("CtrlSum").SetText(d.Amount.StringFixed(2))
	grpHdr.CreateElement("InitgPty").CreateElement("Nm").SetText(d.CreditorName)

	pmtInf := initiation.CreateElement("PmtInf")
	pmtInf.CreateElement("PmtInfId").SetText("DDINF" + now.Format("20060102150405"))
	pmtInf.CreateElement("PmtMtd").SetText("DD")

	collectionDate := d.CollectionDate
	if collectionDate.IsZero() {
		collectionDate = now
	}
	pmtInf.CreateElement("ReqdColltnDt").SetText(collectionDate.Format("2006-01-02"))

	pmtInf.CreateElement("Cdtr").CreateElement("Nm").SetText(d.CreditorName)
	pmtInf.CreateElement("CdtrAcct").CreateElement("Id").CreateElement("IBAN").SetText(d.CreditorIBAN)

	tx := pmtInf.CreateElement("DrctDbtTxInf")
	endToEnd := d.EndToEndID
	if endToEnd == "" {
		endToEnd = "E2E" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
	tx.CreateElement("PmtId").CreateElement("EndToEndId").SetText(endToEnd)

	instdAmt := tx.CreateElement("InstdAmt")
	instdAmt.CreateAttr("Ccy", d.Currency)
	instdAmt.SetText(d.Amount.StringFixed(2))

	tx.CreateElement("Dbtr").CreateElement("Nm").SetText(d.DebtorName)
	tx.CreateElement("DbtrAcct").CreateElement("Id").CreateElement("IBAN").SetText(d.DebtorIBAN)

	return serialize(doc)
}

// BuildDebitCreditNotification generates a camt.054.001.02
// BankToCustomerDebitCreditNotification for one booked entry.
func BuildDebitCreditNotification(n Notification) (string, error) {
	if !n.Amount.IsPositive() {
		return "", models.ErrNonPositiveAmount
	}
	if n.AccountIBAN == "" {
		return "", ErrMissingAccount
	}

	doc, root := newDocument(Camt054)
	notification := root.CreateElement("BkToCstmrDbtCdtNtfctn")

	now := time.Now().UTC()
	grpHdr := notification.CreateElement("GrpHdr")
	grpHdr.CreateElement("MsgId").SetText("NTFCTN" + now.Format("20060102150405"))
	grpHdr.CreateElement("CreDtTm").SetText(now.Format(time.RFC3339))

	ntfctn := notification.CreateElement("Ntfctn")
	ntfctn.CreateElement("Id").SetText("NTF" + now.Format("20060102150405"))
	ntfctn.CreateElement("CreDtTm").SetText(now.Format(time.RFC3339))

	acct := ntfctn.CreateElement("Acct")
	acct.CreateElement("Id").CreateElement("IBAN").SetText(n.AccountIBAN)
	if n.ServicerBIC != "" {
		acct.CreateElement("Svcr").CreateElement("FinInstnId").CreateElement("BIC").SetText(n.ServicerBIC)
	}

	ntry := ntfctn.CreateElement("Ntry")
	amt := ntry.CreateElement("Amt")
	amt.CreateAttr("Ccy", n.Currency)
	amt.SetText(n.Amount.StringFixed(2))

	indicator := n.CreditDebit
	if indicator == "" {
		indicator = "CRDT"
	}
	ntry.CreateElement("CdtDbtInd").SetText(indicator)
	ntry.CreateElement("Sts").SetText("BOOK")

	bookingDate := n.BookingDate
	if bookingDate.IsZero() {
		bookingDate = now
	}
	ntry.CreateElement("BookgDt").CreateElement("Dt").SetText(bookingDate.Format("2006-01-02"))
	ntry.CreateElement("ValDt").CreateElement("Dt").SetText(bookingDate.Format("2006-01-02"))

	return serialize(doc)
}

func newDocument(t MessageType) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Document")
	root.CreateAttr("xmlns", t.Namespace())
	return doc, root
}

// serialize renders the document. A writer failure here is an internal
// error, not input validation; it is wrapped and returned as-is.
func serialize(doc *etree.Document) (string, error) {
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serializing XML document: %w", err)
	}
	return out, nil
}
