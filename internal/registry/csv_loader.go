package registry

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/nvcfund/finmsg/internal/bic"
	models "github.com/nvcfund/finmsg/internal/models"
)

// Error definitions for better error handling
var (
	ErrHeaderInsufficient   = errors.New("header has insufficient columns")
	ErrRecordInsufficient   = errors.New("record has insufficient columns")
	ErrMissingRequiredField = errors.New("missing required fields: bic code or institution name")
)

var expectedHeader = []string{"BIC CODE", "INSTITUTION NAME", "BIC TYPE", "STATUS", "SERVICES", "CONNECTIVITY STATUS"}

// sanitizeName normalizes whitespace and strips control characters from
// an institution name.
func sanitizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
}

// ParseRecords parses a CSV stream of BIC registrations. Columns: BIC
// code, institution name, BIC type, status, services (semicolon
// separated), connectivity status. Component fields are derived from the
// code, never read from the file.
func ParseRecords(input io.Reader) ([]models.BICRecord, error) {
	reader := csv.NewReader(input)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < len(expectedHeader) {
		return nil, ErrHeaderInsufficient
	}

	var records []models.BICRecord
	lineNumber := 1 // header is line 1

	// Track unique codes so a duplicate row never shadows an earlier one
	uniqueCodes := make(map[string]bool)

	for {
		lineNumber++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNumber, err)
		}

		if len(row) < len(expectedHeader) {
			return nil, fmt.Errorf("%w at line %d", ErrRecordInsufficient, lineNumber)
		}

		code := bic.Canonical(row[0])
		name := sanitizeName(row[1])
		if code == "" || name == "" {
			return nil, fmt.Errorf("%w at line %d", ErrMissingRequiredField, lineNumber)
		}
		if uniqueCodes[code] {
			continue
		}

		components, err := bic.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("at line %d: %w", lineNumber, err)
		}

		record := models.BICRecord{
			BICCode:            code,
			InstitutionName:    name,
			InstitutionCode:    components.InstitutionCode,
			CountryCode:        components.CountryCode,
			LocationCode:       components.LocationCode,
			BranchCode:         components.BranchCode,
			BICType:            models.BICType(strings.TrimSpace(row[2])),
			Status:             models.BICStatus(strings.TrimSpace(row[3])),
			ConnectivityStatus: strings.TrimSpace(row[5]),
		}
		if record.BICType == "" {
			record.BICType = models.BICTypeInstitution
		}
		if record.Status == "" {
			record.Status = models.BICStatusActive
		}
		if services := strings.TrimSpace(row[4]); services != "" {
			record.Services = strings.Split(services, ";")
		}

		uniqueCodes[code] = true
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, errors.New("no valid BIC entries found in input")
	}

	return records, nil
}

// Load parses the stream and registers every record, returning the count
// actually written. The first failure stops the load.
func Load(ctx context.Context, reg BICRegistry, input io.Reader) (int, error) {
	records, err := ParseRecords(input)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for i := range records {
		if err := reg.Register(ctx, &records[i]); err != nil {
			return loaded, fmt.Errorf("registering %s: %w", records[i].BICCode, err)
		}
		loaded++
	}
	return loaded, nil
}
