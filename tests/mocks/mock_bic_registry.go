package mocks

import (
	"context"
	"errors"

	models "github.com/nvcfund/finmsg/internal/models"
)

// MockBICRegistry implements the BICRegistry interface for testing
type MockBICRegistry struct {
	RegisterFunc        func(ctx context.Context, record *models.BICRecord) error
	LookupFunc          func(ctx context.Context, code string) (*models.BICRecord, error)
	SearchByCountryFunc func(ctx context.Context, countryCode string) ([]models.BICRecord, error)
}

func (m *MockBICRegistry) Register(ctx context.Context, record *models.BICRecord) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, record)
	}
	return errors.New("Register not implemented")
}

func (m *MockBICRegistry) Lookup(ctx context.Context, code string) (*models.BICRecord, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, code)
	}
	return nil, errors.New("Lookup not implemented")
}

func (m *MockBICRegistry) SearchByCountry(ctx context.Context, countryCode string) ([]models.BICRecord, error) {
	if m.SearchByCountryFunc != nil {
		return m.SearchByCountryFunc(ctx, countryCode)
	}
	return nil, errors.New("SearchByCountry not implemented")
}
