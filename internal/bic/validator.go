// Package bic implements syntactic validation and decomposition of ISO
// 9362 Business Identifier Codes. All functions are pure; input is
// trimmed and upper-cased before any check, so validation is
// case-insensitive while every derived form is canonical upper-case.
package bic

import (
	"errors"
	"fmt"
	"strings"
)

// Error definitions for better error handling
var (
	ErrEmpty           = errors.New("BIC code cannot be empty")
	ErrLength          = errors.New("BIC code must be 8 or 11 characters long")
	ErrInstitutionCode = errors.New("institution code must contain only letters")
	ErrCountryCode     = errors.New("invalid country code")
	ErrLocationCode    = errors.New("location code must be alphanumeric")
	ErrBranchCode      = errors.New("branch code must be alphanumeric")
)

// Components is the decomposition of a validated BIC code.
type Components struct {
	InstitutionCode  string `json:"institution_code"`
	CountryCode      string `json:"country_code"`
	LocationCode     string `json:"location_code"`
	BranchCode       string `json:"branch_code,omitempty"`
	IsBranchSpecific bool   `json:"is_branch_specific"`
	PrimaryBIC       string `json:"primary_bic"`
}

// Canonical returns the trimmed, upper-cased form used for all checks,
// registry keys and derived values.
func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a BIC code against the ISO 9362 positional rules:
// 4 alphabetic institution characters, 2 recognized ISO 3166-1 country
// characters, 2 alphanumeric location characters, and an optional 3
// alphanumeric branch characters. Every failure carries a specific
// reason; there is no partial success.
func Validate(code string) error {
	code = Canonical(code)

	if code == "" {
		return ErrEmpty
	}
	if len(code) != 8 && len(code) != 11 {
		return fmt.Errorf("%w: got %d", ErrLength, len(code))
	}

	for _, r := range code[0:4] {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %s", ErrInstitutionCode, code[0:4])
		}
	}

	country := code[4:6]
	if !validCountryCodes[country] {
		return fmt.Errorf("%w: %s", ErrCountryCode, country)
	}

	if !alphanumeric(code[6:8]) {
		return fmt.Errorf("%w: %s", ErrLocationCode, code[6:8])
	}

	if len(code) == 11 && !alphanumeric(code[8:11]) {
		return fmt.Errorf("%w: %s", ErrBranchCode, code[8:11])
	}

	return nil
}

// Parse validates the code and splits it into components. It fails fast
// with the validation error when the code is not well formed.
func Parse(code string) (Components, error) {
	if err := Validate(code); err != nil {
		return Components{}, err
	}

	code = Canonical(code)
	c := Components{
		InstitutionCode: code[0:4],
		CountryCode:     code[4:6],
		LocationCode:    code[6:8],
		PrimaryBIC:      code[0:8],
	}
	if len(code) == 11 {
		c.BranchCode = code[8:11]
		c.IsBranchSpecific = true
	}
	return c, nil
}

func alphanumeric(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
