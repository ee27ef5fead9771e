package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	handlers "github.com/nvcfund/finmsg/internal/api/handlers"
	"github.com/nvcfund/finmsg/internal/iso20022"
	"github.com/nvcfund/finmsg/internal/messaging"
	models "github.com/nvcfund/finmsg/internal/models"
)

func setupMessageApp() *fiber.App {
	facade, err := messaging.NewFacade(messaging.BankIdentity{
		Name: "NVC Fund Bank",
		BIC:  "NVCFGLXX",
		IBAN: "GL89NVCT0000000000000001",
	})
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	app := fiber.New()
	h := handlers.NewMessageHandler(facade)

	app.Post("/messages/mt760", h.BuildMT760)
	app.Post("/messages/transfers", h.BuildFundsTransfer)
	app.Post("/messages/mt799", h.BuildMT799)
	app.Post("/messages/payments", h.CreateOutboundPayment)
	app.Post("/messages/statements", h.BuildStatement)
	app.Post("/messages/direct-debits", h.BuildDirectDebit)
	app.Post("/messages/notifications", h.BuildNotification)
	app.Post("/messages/status-reports", h.BuildStatusReport)
	app.Post("/messages/inbound", h.ProcessInbound)
	app.Post("/messages/validation", h.ValidateStructure)

	return app
}

func postJSON(app *fiber.App, path string, payload any) *http.Response {
	bodyBytes, err := json.Marshal(payload)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, fiber.TestConfig{})
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return resp
}

var _ = Describe("Message Handler", func() {
	var app *fiber.App

	BeforeEach(func() {
		app = setupMessageApp()
	})

	Describe("CreateOutboundPayment", func() {
		It("should return the pain.001 document as XML", func() {
			resp := postJSON(app, "/messages/payments", messaging.PaymentRequest{
				Amount:       "1000.00",
				Currency:     "USD",
				CreditorName: "Acme Industries",
				CreditorIBAN: "DE89370400440532013000",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("xml"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("pain.001.001.03"))
			Expect(string(body)).To(ContainSubstring("<Nm>NVC Fund Bank</Nm>"))
		})

		It("should reject an invalid amount", func() {
			resp := postJSON(app, "/messages/payments", messaging.PaymentRequest{
				Amount:       "a lot",
				CreditorName: "Acme Industries",
				CreditorIBAN: "DE89370400440532013000",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("BuildMT760", func() {
		It("should return the rendered message with its type", func() {
			resp := postJSON(app, "/messages/mt760", models.SBLCDetails{
				ReferenceNumber: "SBLC-1",
				IssueDate:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
				ExpiryDate:      time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
				Applicant:       models.Party{Name: "GLOBAL TRADING CORP"},
				Beneficiary:     models.Party{Name: "EXPORT PARTNERS LTD"},
				Currency:        "USD",
				Amount:          decimal.NewFromInt(1000000),
				ContractName:    "SUPPLY AGREEMENT",
				ContractDate:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			})
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["message_type"]).To(Equal("MT760"))
			Expect(body["message"]).To(ContainSubstring(":27A:IRREVOCABLE STANDBY"))
		})

		It("should map validation failures to bad request", func() {
			resp := postJSON(app, "/messages/mt760", models.SBLCDetails{})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("BuildFundsTransfer", func() {
		It("should report MT202 for institution transfers", func() {
			resp := postJSON(app, "/messages/transfers", models.TransferDetails{
				Reference:        "TRN-1",
				ValueDate:        time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
				Currency:         "USD",
				Amount:           decimal.NewFromInt(500),
				OrderingParty:    models.Party{Name: "BANK A"},
				BeneficiaryParty: models.Party{Name: "BANK B"},
				IsInstitution:    true,
			})
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["message_type"]).To(Equal("MT202"))
			Expect(body["message"]).To(ContainSubstring(":53A:BANK A"))
		})
	})

	Describe("BuildMT799", func() {
		It("should render a free-format message", func() {
			resp := postJSON(app, "/messages/mt799", map[string]string{
				"reference": "REF-1",
				"narrative": "PLEASE CONFIRM RECEIPT",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["message_type"]).To(Equal("MT799"))
			Expect(body["message"]).To(ContainSubstring(":79:PLEASE CONFIRM RECEIPT"))
		})

		It("should reject a missing narrative", func() {
			resp := postJSON(app, "/messages/mt799", map[string]string{"reference": "REF-1"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("BuildStatement", func() {
		It("should default the servicer BIC to the bank identity", func() {
			resp := postJSON(app, "/messages/statements", iso20022.AccountStatement{
				StatementID: "STMT-1",
				AccountIBAN: "GL89NVCT0000000000000001",
				Currency:    "USD",
				Balance:     decimal.NewFromInt(100),
			})
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("<BIC>NVCFGLXX</BIC>"))
		})
	})

	Describe("BuildStatusReport", func() {
		It("should carry the bank as instructing agent", func() {
			resp := postJSON(app, "/messages/status-reports", map[string]string{
				"original_message_id": "ORIGINAL-1",
				"status":              "RJCT",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("<OrgnlMsgId>ORIGINAL-1</OrgnlMsgId>"))
			Expect(string(body)).To(ContainSubstring("<GrpSts>RJCT</GrpSts>"))
			Expect(string(body)).To(ContainSubstring("<BIC>NVCFGLXX</BIC>"))
		})

		It("should reject a missing original message id as bad input", func() {
			resp := postJSON(app, "/messages/status-reports", map[string]string{
				"status": "RJCT",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ProcessInbound", func() {
		It("should parse a pain.002 document", func() {
			xml, err := iso20022.BuildPaymentStatusReport("ORIGINAL-2", "ACCP", "NVCFGLXX")
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodPost, "/messages/inbound", strings.NewReader(xml))
			req.Header.Set("Content-Type", "application/xml")
			resp, err := app.Test(req, fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var result messaging.InboundResult
			Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
			Expect(result.Supported).To(BeTrue())
			Expect(result.StatusReport.OriginalMessageID).To(Equal("ORIGINAL-2"))
		})

		It("should answer unsupported documents with 422", func() {
			xml := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.054.001.02"><BkToCstmrDbtCdtNtfctn/></Document>`

			req := httptest.NewRequest(http.MethodPost, "/messages/inbound", strings.NewReader(xml))
			req.Header.Set("Content-Type", "application/xml")
			resp, err := app.Test(req, fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		})

		It("should reject malformed XML", func() {
			req := httptest.NewRequest(http.MethodPost, "/messages/inbound", strings.NewReader("<broken"))
			req.Header.Set("Content-Type", "application/xml")
			resp, err := app.Test(req, fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ValidateStructure", func() {
		It("should return the structural report", func() {
			resp := postJSON(app, "/messages/validation", map[string]string{
				"xml":           `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"><SomethingElse/></Document>`,
				"expected_type": "pain.001.001.03",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var report iso20022.Report
			Expect(json.NewDecoder(resp.Body).Decode(&report)).To(Succeed())
			Expect(report.IsValid).To(BeFalse())
			Expect(report.Errors).To(ContainElement("missing CustomerCreditTransferInitiation element"))
		})
	})
})
