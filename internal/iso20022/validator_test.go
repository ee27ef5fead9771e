package iso20022_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/nvcfund/finmsg/internal/iso20022"
	models "github.com/nvcfund/finmsg/internal/models"
)

var _ = Describe("ValidateStructure", func() {
	Context("for any document", func() {
		It("should fail on malformed XML", func() {
			report := iso20022.ValidateStructure("<Document><broken>", iso20022.Pain001)
			Expect(report.IsValid).To(BeFalse())
			Expect(report.Errors).To(ContainElement(ContainSubstring("XML parsing error")))
		})

		It("should require a Document root", func() {
			report := iso20022.ValidateStructure("<NotADocument/>", iso20022.Pain001)
			Expect(report.IsValid).To(BeFalse())
			Expect(report.Errors).To(ContainElement("root element must be 'Document'"))
		})

		It("should warn, not fail, on a missing namespace", func() {
			xml := `<Document><CstmrCdtTrfInitn><GrpHdr><MsgId>M</MsgId><CreDtTm>T</CreDtTm><NbOfTxs>1</NbOfTxs></GrpHdr><PmtInf><PmtInfId>P</PmtInfId><PmtMtd>TRF</PmtMtd></PmtInf></CstmrCdtTrfInitn></Document>`
			report := iso20022.ValidateStructure(xml, iso20022.Pain001)
			Expect(report.IsValid).To(BeTrue())
			Expect(report.Warnings).To(ContainElement("missing namespace declaration"))
		})

		It("should accept a prefixed namespace declaration", func() {
			xml := `<ns:Document xmlns:ns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"><ns:CstmrCdtTrfInitn><ns:GrpHdr><ns:MsgId>M</ns:MsgId><ns:CreDtTm>T</ns:CreDtTm><ns:NbOfTxs>1</ns:NbOfTxs></ns:GrpHdr><ns:PmtInf><ns:PmtInfId>P</ns:PmtInfId><ns:PmtMtd>TRF</ns:PmtMtd></ns:PmtInf></ns:CstmrCdtTrfInitn></ns:Document>`
			report := iso20022.ValidateStructure(xml, iso20022.Pain001)
			Expect(report.IsValid).To(BeTrue())
			Expect(report.Warnings).NotTo(ContainElement("missing namespace declaration"))
		})
	})

	Context("for pain.001 documents", func() {
		It("should accept a document built by this package", func() {
			xml, err := iso20022.BuildCustomerCreditTransfer([]models.PaymentInstruction{samplePayment("INSTR1", 100)}, "MSG1")
			Expect(err).NotTo(HaveOccurred())

			report := iso20022.ValidateStructure(xml, iso20022.Pain001)
			Expect(report.IsValid).To(BeTrue())
			Expect(report.Errors).To(BeEmpty())
			Expect(report.Warnings).To(BeEmpty())
		})

		It("should fail when the initiation element is missing", func() {
			xml := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"><SomethingElse/></Document>`
			report := iso20022.ValidateStructure(xml, iso20022.Pain001)
			Expect(report.IsValid).To(BeFalse())
			Expect(report.Errors).To(ContainElement("missing CustomerCreditTransferInitiation element"))
		})

		It("should warn about missing required children", func() {
			xml := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"><CstmrCdtTrfInitn><GrpHdr><CreDtTm>T</CreDtTm></GrpHdr></CstmrCdtTrfInitn></Document>`
			report := iso20022.ValidateStructure(xml, iso20022.Pain001)
			Expect(report.IsValid).To(BeTrue())
			Expect(report.Warnings).To(ContainElement("missing or empty element: MsgId"))
			Expect(report.Warnings).To(ContainElement("missing or empty element: NbOfTxs"))
			Expect(report.Warnings).To(ContainElement("missing or empty element: PmtInfId"))
		})
	})

	Context("for camt.053 documents", func() {
		It("should accept a statement built by this package", func() {
			xml, err := iso20022.BuildAccountStatement(iso20022.AccountStatement{
				StatementID: "STMT-1",
				AccountIBAN: "GL89NVCT0000000000000001",
				Currency:    "USD",
				Balance:     decimal.NewFromInt(100),
			})
			Expect(err).NotTo(HaveOccurred())

			report := iso20022.ValidateStructure(xml, iso20022.Camt053)
			Expect(report.IsValid).To(BeTrue())
			Expect(report.Errors).To(BeEmpty())
		})

		It("should treat missing statement elements as errors", func() {
			xml := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"><BkToCstmrStmt><GrpHdr><MsgId>M</MsgId></GrpHdr></BkToCstmrStmt></Document>`
			report := iso20022.ValidateStructure(xml, iso20022.Camt053)
			Expect(report.IsValid).To(BeFalse())
			Expect(report.Errors).To(ContainElement("missing required element: GrpHdr/CreDtTm"))
			Expect(report.Errors).To(ContainElement("missing required element: Stmt/Id"))
			Expect(report.Errors).To(ContainElement("missing required element: Stmt/Acct"))
		})
	})
})
