package iso20022_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nvcfund/finmsg/internal/iso20022"
)

const statusReportXML = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.002.001.03">
  <CstmrPmtStsRpt>
    <GrpHdr>
      <MsgId>STATUS-MSG-1</MsgId>
      <CreDtTm>2026-08-29T10:15:00Z</CreDtTm>
    </GrpHdr>
    <OrgnlGrpInfAndSts>
      <OrgnlMsgId>NVC20260829100000abcdef01</OrgnlMsgId>
      <GrpSts>ACSP</GrpSts>
    </OrgnlGrpInfAndSts>
    <OrgnlPmtInfAndSts>
      <OrgnlPmtInfId>PMTNVC20260829100000abcdef01</OrgnlPmtInfId>
      <TxInfAndSts>
        <StsId>STS-1</StsId>
        <OrgnlInstrId>INSTR1</OrgnlInstrId>
        <TxSts>ACSC</TxSts>
      </TxInfAndSts>
      <TxInfAndSts>
        <StsId>STS-2</StsId>
        <OrgnlInstrId>INSTR2</OrgnlInstrId>
        <TxSts>RJCT</TxSts>
        <StsRsnInf>
          <RsnCd>AC04</RsnCd>
          <AddtlInf>Account closed</AddtlInf>
        </StsRsnInf>
      </TxInfAndSts>
    </OrgnlPmtInfAndSts>
  </CstmrPmtStsRpt>
</Document>`

const prefixedStatusReportXML = `<?xml version="1.0" encoding="UTF-8"?>
<ns:Document xmlns:ns="urn:iso:std:iso:20022:tech:xsd:pain.002.001.03">
  <ns:CstmrPmtStsRpt>
    <ns:GrpHdr>
      <ns:MsgId>STATUS-MSG-2</ns:MsgId>
      <ns:CreDtTm>2026-08-29T11:00:00Z</ns:CreDtTm>
    </ns:GrpHdr>
    <ns:OrgnlGrpInfAndSts>
      <ns:OrgnlMsgId>ORIG-42</ns:OrgnlMsgId>
      <ns:GrpSts>RJCT</ns:GrpSts>
    </ns:OrgnlGrpInfAndSts>
  </ns:CstmrPmtStsRpt>
</ns:Document>`

var _ = Describe("ParsePaymentStatusReport", func() {
	It("should extract the header, group status and transaction statuses", func() {
		report, err := iso20022.ParsePaymentStatusReport(statusReportXML)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.MessageType).To(Equal(iso20022.Pain002))
		Expect(report.MessageID).To(Equal("STATUS-MSG-1"))
		Expect(report.CreationDate).To(Equal("2026-08-29T10:15:00Z"))
		Expect(report.GroupStatus).To(Equal("ACSP"))
		// The payment information id overrides the group-level original id
		Expect(report.OriginalMessageID).To(Equal("PMTNVC20260829100000abcdef01"))

		Expect(report.StatusReports).To(HaveLen(2))
		Expect(report.StatusReports[0].StatusID).To(Equal("STS-1"))
		Expect(report.StatusReports[0].OriginalInstructionID).To(Equal("INSTR1"))
		Expect(report.StatusReports[0].TransactionStatus).To(Equal("ACSC"))
		Expect(report.StatusReports[0].ReasonCode).To(BeEmpty())

		Expect(report.StatusReports[1].TransactionStatus).To(Equal("RJCT"))
		Expect(report.StatusReports[1].ReasonCode).To(Equal("AC04"))
		Expect(report.StatusReports[1].AdditionalInfo).To(Equal("Account closed"))
	})

	It("should parse prefixed documents identically", func() {
		report, err := iso20022.ParsePaymentStatusReport(prefixedStatusReportXML)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.MessageID).To(Equal("STATUS-MSG-2"))
		Expect(report.OriginalMessageID).To(Equal("ORIG-42"))
		Expect(report.GroupStatus).To(Equal("RJCT"))
	})

	It("should round-trip a built status report", func() {
		xml, err := iso20022.BuildPaymentStatusReport("ORIGINAL-7", "PDNG", "NVCFGLXX")
		Expect(err).NotTo(HaveOccurred())

		report, err := iso20022.ParsePaymentStatusReport(xml)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.OriginalMessageID).To(Equal("ORIGINAL-7"))
		Expect(report.GroupStatus).To(Equal("PDNG"))
	})

	It("should report malformed XML as a parse error", func() {
		_, err := iso20022.ParsePaymentStatusReport("<Document><unclosed>")
		Expect(err).To(MatchError(iso20022.ErrParse))
	})

	It("should reject well-formed documents of other types", func() {
		other := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"><CstmrCdtTrfInitn/></Document>`
		_, err := iso20022.ParsePaymentStatusReport(other)
		Expect(err).To(MatchError(iso20022.ErrUnsupportedMessage))
	})
})

var _ = Describe("DetectMessageType", func() {
	It("should detect the type from the namespace declaration", func() {
		xml := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"><BkToCstmrStmt/></Document>`

		messageType, err := iso20022.DetectMessageType(xml)
		Expect(err).NotTo(HaveOccurred())
		Expect(messageType).To(Equal(iso20022.Camt053))
	})

	It("should detect the type from prefixed namespace declarations", func() {
		xml := `<ns:Document xmlns:ns="urn:iso:std:iso:20022:tech:xsd:pain.002.001.03"><ns:CstmrPmtStsRpt/></ns:Document>`

		messageType, err := iso20022.DetectMessageType(xml)
		Expect(err).NotTo(HaveOccurred())
		Expect(messageType).To(Equal(iso20022.Pain002))
	})

	It("should fall back to the identifying child element", func() {
		xml := `<Document><CstmrDrctDbtInitn/></Document>`

		messageType, err := iso20022.DetectMessageType(xml)
		Expect(err).NotTo(HaveOccurred())
		Expect(messageType).To(Equal(iso20022.Pain008))
	})

	It("should detect every built message type", func() {
		for _, messageType := range []iso20022.MessageType{
			iso20022.Pain001, iso20022.Pain002, iso20022.Pain008,
			iso20022.Camt053, iso20022.Camt054,
		} {
			xml := `<Document xmlns="` + messageType.Namespace() + `"/>`
			detected, err := iso20022.DetectMessageType(xml)
			Expect(err).NotTo(HaveOccurred())
			Expect(detected).To(Equal(messageType))
		}
	})

	It("should return unsupported without an error for unknown documents", func() {
		messageType, err := iso20022.DetectMessageType(`<Document xmlns="urn:example:other"><Something/></Document>`)
		Expect(err).NotTo(HaveOccurred())
		Expect(messageType).To(Equal(iso20022.MessageTypeUnsupported))
	})

	It("should report malformed XML as a parse error", func() {
		_, err := iso20022.DetectMessageType("not xml at all <")
		Expect(err).To(MatchError(iso20022.ErrParse))
	})
})
