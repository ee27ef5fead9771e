package models

import (
	"time"
)

// BICType classifies the entity behind a BIC, per ISO 9362:2022.
type BICType string

const (
	BICTypeInstitution   BICType = "INST"
	BICTypeCorporate     BICType = "CORP"
	BICTypeTreasury      BICType = "TRES"
	BICTypeCorrespondent BICType = "CORR"
)

// BICStatus is the registration status of a BIC. Records are never
// physically deleted; deletion is a status flag.
type BICStatus string

const (
	BICStatusActive    BICStatus = "A"
	BICStatusPassive   BICStatus = "P"
	BICStatusSuspended BICStatus = "S"
	BICStatusDeleted   BICStatus = "D"
)

// BICRecord is a registered BIC and its institution metadata. The
// institution/country/location/branch components are always re-derived
// from the code on write, so they can never disagree with it.
type BICRecord struct {
	BICCode            string    `db:"bic_code" json:"bic_code"`
	InstitutionName    string    `db:"institution_name" json:"institution_name"`
	InstitutionCode    string    `db:"institution_code" json:"institution_code"`
	CountryCode        string    `db:"country_code" json:"country_code"`
	LocationCode       string    `db:"location_code" json:"location_code"`
	BranchCode         string    `db:"branch_code" json:"branch_code,omitempty"`
	BICType            BICType   `db:"bic_type" json:"bic_type"`
	Status             BICStatus `db:"status" json:"status"`
	RegistrationDate   time.Time `db:"registration_date" json:"registration_date"`
	LastUpdated        time.Time `db:"last_updated" json:"last_updated"`
	Services           []string  `db:"services" json:"services,omitempty"`
	ConnectivityStatus string    `db:"connectivity_status" json:"connectivity_status,omitempty"`
}
