package registry_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nvcfund/finmsg/internal/bic"
	models "github.com/nvcfund/finmsg/internal/models"
	"github.com/nvcfund/finmsg/internal/registry"
	"github.com/nvcfund/finmsg/tests/mocks"
)

const csvHeader = "BIC CODE,INSTITUTION NAME,BIC TYPE,STATUS,SERVICES,CONNECTIVITY STATUS\n"

var _ = Describe("ParseRecords", func() {
	Context("with valid input", func() {
		It("should parse records and derive components from the code", func() {
			input := csvHeader +
				"CHASUS33,JPMorgan Chase Bank,INST,A,payments;treasury,connected\n" +
				"DEUTDEFF500,Deutsche Bank Frankfurt,CORP,P,,\n"

			records, err := registry.ParseRecords(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))

			Expect(records[0].BICCode).To(Equal("CHASUS33"))
			Expect(records[0].InstitutionCode).To(Equal("CHAS"))
			Expect(records[0].CountryCode).To(Equal("US"))
			Expect(records[0].Services).To(Equal([]string{"payments", "treasury"}))
			Expect(records[0].ConnectivityStatus).To(Equal("connected"))

			Expect(records[1].BICCode).To(Equal("DEUTDEFF500"))
			Expect(records[1].BranchCode).To(Equal("500"))
			Expect(records[1].BICType).To(Equal(models.BICTypeCorporate))
			Expect(records[1].Status).To(Equal(models.BICStatusPassive))
			Expect(records[1].Services).To(BeEmpty())
		})

		It("should default type and status when omitted", func() {
			input := csvHeader + "NVCFGLXX,NVC Fund Bank,,,,\n"

			records, err := registry.ParseRecords(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(records[0].BICType).To(Equal(models.BICTypeInstitution))
			Expect(records[0].Status).To(Equal(models.BICStatusActive))
		})

		It("should canonicalize codes and normalize names", func() {
			input := csvHeader + " chasus33 ,  JPMorgan   Chase  Bank ,INST,A,,\n"

			records, err := registry.ParseRecords(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(records[0].BICCode).To(Equal("CHASUS33"))
			Expect(records[0].InstitutionName).To(Equal("JPMorgan Chase Bank"))
		})

		It("should keep the first of duplicate codes", func() {
			input := csvHeader +
				"CHASUS33,First Entry,INST,A,,\n" +
				"chasus33,Second Entry,INST,A,,\n"

			records, err := registry.ParseRecords(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].InstitutionName).To(Equal("First Entry"))
		})
	})

	Context("with invalid input", func() {
		It("should reject a short header", func() {
			_, err := registry.ParseRecords(strings.NewReader("BIC CODE,INSTITUTION NAME\n"))
			Expect(err).To(Equal(registry.ErrHeaderInsufficient))
		})

		It("should reject a short record with its line number", func() {
			input := csvHeader + "CHASUS33,JPMorgan Chase Bank\n"

			_, err := registry.ParseRecords(strings.NewReader(input))
			Expect(err).To(MatchError(registry.ErrRecordInsufficient))
			Expect(err.Error()).To(ContainSubstring("line 2"))
		})

		It("should reject missing required fields", func() {
			input := csvHeader + ",Nameless Bank,INST,A,,\n"

			_, err := registry.ParseRecords(strings.NewReader(input))
			Expect(err).To(MatchError(registry.ErrMissingRequiredField))
		})

		It("should reject malformed codes with their line number", func() {
			input := csvHeader +
				"CHASUS33,JPMorgan Chase Bank,INST,A,,\n" +
				"TESTXX22,Bogus Bank,INST,A,,\n"

			_, err := registry.ParseRecords(strings.NewReader(input))
			Expect(err).To(MatchError(bic.ErrCountryCode))
			Expect(err.Error()).To(ContainSubstring("line 3"))
		})

		It("should reject input with no data rows", func() {
			_, err := registry.ParseRecords(strings.NewReader(csvHeader))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no valid BIC entries"))
		})
	})
})

var _ = Describe("Load", func() {
	var (
		ctx     context.Context
		mockReg *mocks.MockBICRegistry
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockReg = &mocks.MockBICRegistry{}
	})

	It("should register every parsed record", func() {
		var registered []string
		mockReg.RegisterFunc = func(ctx context.Context, record *models.BICRecord) error {
			registered = append(registered, record.BICCode)
			return nil
		}

		input := csvHeader +
			"CHASUS33,JPMorgan Chase Bank,INST,A,,\n" +
			"NVCFGLXX,NVC Fund Bank,INST,A,,\n"

		count, err := registry.Load(ctx, mockReg, strings.NewReader(input))
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(2))
		Expect(registered).To(Equal([]string{"CHASUS33", "NVCFGLXX"}))
	})

	It("should stop at the first registration failure", func() {
		calls := 0
		mockReg.RegisterFunc = func(ctx context.Context, record *models.BICRecord) error {
			calls++
			if record.BICCode == "NVCFGLXX" {
				return errors.New("storage down")
			}
			return nil
		}

		input := csvHeader +
			"CHASUS33,JPMorgan Chase Bank,INST,A,,\n" +
			"NVCFGLXX,NVC Fund Bank,INST,A,,\n" +
			"BOFAUS3N,Bank of America,INST,A,,\n"

		count, err := registry.Load(ctx, mockReg, strings.NewReader(input))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("registering NVCFGLXX"))
		Expect(count).To(Equal(1))
		Expect(calls).To(Equal(2))
	})

	It("should fail without registering when parsing fails", func() {
		mockReg.RegisterFunc = func(ctx context.Context, record *models.BICRecord) error {
			Fail("Register should not be called")
			return nil
		}

		count, err := registry.Load(ctx, mockReg, strings.NewReader("bad"))
		Expect(err).To(HaveOccurred())
		Expect(count).To(BeZero())
	})
})
