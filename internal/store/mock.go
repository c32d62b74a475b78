package store

import (
	"jovanny3/tradeflow/internal/models"
)

// MockReferenceStore is a mock implementation of Source for testing.
type MockReferenceStore struct {
	Exceptions map[string]models.CountryCode
	Countries  []models.Country
	Blocs      models.BlocSets

	// Error flags for testing error conditions
	LoadExceptionsError error
	LoadCountriesError  error
	LoadBlocsError      error
}

// LoadExceptions returns a copy of the mock exception table.
func (m *MockReferenceStore) LoadExceptions() (map[string]models.CountryCode, error) {
	if m.LoadExceptionsError != nil {
		return nil, m.LoadExceptionsError
	}
	result := make(map[string]models.CountryCode, len(m.Exceptions))
	for k, v := range m.Exceptions {
		result[k] = v
	}
	return result, nil
}

// LoadCountries returns the mock country database.
func (m *MockReferenceStore) LoadCountries() ([]models.Country, error) {
	if m.LoadCountriesError != nil {
		return nil, m.LoadCountriesError
	}
	return append([]models.Country(nil), m.Countries...), nil
}

// LoadBlocs returns the mock bloc sets.
func (m *MockReferenceStore) LoadBlocs() (models.BlocSets, error) {
	if m.LoadBlocsError != nil {
		return models.BlocSets{}, m.LoadBlocsError
	}
	return m.Blocs, nil
}
