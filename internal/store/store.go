// Package store provides the reference data used to enrich trade records:
// the partner-name exception table, the country-name database and the trade
// bloc membership sets. Defaults are embedded; each can be overridden by a
// YAML file on disk.
package store

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/textutils"
	"jovanny3/tradeflow/internal/tradeerror"

	"gopkg.in/yaml.v3"
)

const (
	exceptionsFileName = "exceptions.yaml"
	countriesFileName  = "countries.yaml"
	blocsFileName      = "blocs.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

// Source is implemented by anything able to provide the reference tables.
type Source interface {
	LoadExceptions() (map[string]models.CountryCode, error)
	LoadCountries() ([]models.Country, error)
	LoadBlocs() (models.BlocSets, error)
}

type exceptionsDocument struct {
	Exceptions map[string]string `yaml:"exceptions"`
}

type countriesDocument struct {
	Countries []models.Country `yaml:"countries"`
}

// ReferenceStore loads reference tables from override files or from the
// embedded defaults.
type ReferenceStore struct {
	ExceptionsFile string
	CountriesFile  string
	BlocsFile      string
	logger         logging.Logger
}

// NewReferenceStore creates a store. Empty file names select the embedded
// defaults.
func NewReferenceStore(exceptionsFile, countriesFile, blocsFile string, logger logging.Logger) *ReferenceStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &ReferenceStore{
		ExceptionsFile: exceptionsFile,
		CountriesFile:  countriesFile,
		BlocsFile:      blocsFile,
		logger:         logger,
	}
}

// FindConfigFile looks for a reference file in standard locations
func (s *ReferenceStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("reference", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".tradeflow", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// read returns the override file content when one is configured and found,
// and the embedded default otherwise. The second result names the origin.
func (s *ReferenceStore) read(override, defaultName string) ([]byte, string, error) {
	if override != "" {
		path, err := s.FindConfigFile(override)
		switch {
		case err == nil:
			data, readErr := os.ReadFile(path) // #nosec G304 -- path comes from configuration
			if readErr != nil {
				return nil, path, fmt.Errorf("error reading reference file %s: %w", path, readErr)
			}
			return data, path, nil
		case errors.Is(err, os.ErrNotExist):
			s.logger.Warn("Reference file not found, using embedded defaults",
				logging.Field{Key: logging.FieldFile, Value: override})
		default:
			return nil, override, fmt.Errorf("error resolving reference file %s: %w", override, err)
		}
	}

	origin := "embedded:" + defaultName
	data, err := embedded.ReadFile("data/" + defaultName)
	if err != nil {
		return nil, origin, fmt.Errorf("error reading embedded %s: %w", defaultName, err)
	}
	return data, origin, nil
}

// LoadExceptions loads the partner-name exception table. Keys are re-slugged
// so hand-edited files may use any casing or accents.
func (s *ReferenceStore) LoadExceptions() (map[string]models.CountryCode, error) {
	data, origin, err := s.read(s.ExceptionsFile, exceptionsFileName)
	if err != nil {
		return nil, err
	}

	var doc exceptionsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &tradeerror.ParseError{Source: origin, Err: err}
	}

	exceptions := make(map[string]models.CountryCode, len(doc.Exceptions))
	for name, raw := range doc.Exceptions {
		code, err := parseCode(raw)
		if err != nil {
			return nil, &tradeerror.ParseError{Source: origin, Field: name, Value: raw, Err: err}
		}
		key := textutils.Slug(name)
		if key == "" {
			continue
		}
		exceptions[key] = code
	}

	s.logger.Debug("Loaded exception table",
		logging.Field{Key: logging.FieldFile, Value: origin},
		logging.Field{Key: logging.FieldCount, Value: len(exceptions)})
	return exceptions, nil
}

// LoadCountries loads the country-name database.
func (s *ReferenceStore) LoadCountries() ([]models.Country, error) {
	data, origin, err := s.read(s.CountriesFile, countriesFileName)
	if err != nil {
		return nil, err
	}

	var doc countriesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &tradeerror.ParseError{Source: origin, Err: err}
	}
	if len(doc.Countries) == 0 {
		return nil, &tradeerror.ParseError{Source: origin, Err: errors.New("no countries defined")}
	}

	countries := make([]models.Country, 0, len(doc.Countries))
	for _, c := range doc.Countries {
		code, err := parseCode(string(c.Alpha3))
		if err != nil {
			return nil, &tradeerror.ParseError{Source: origin, Field: "alpha_3", Value: string(c.Alpha3), Err: err}
		}
		if strings.TrimSpace(c.Name) == "" {
			return nil, &tradeerror.ParseError{Source: origin, Field: "name", Value: string(code), Err: errors.New("country without name")}
		}
		c.Alpha3 = code
		c.Alpha2 = strings.ToUpper(strings.TrimSpace(c.Alpha2))
		countries = append(countries, c)
	}

	s.logger.Debug("Loaded country database",
		logging.Field{Key: logging.FieldFile, Value: origin},
		logging.Field{Key: logging.FieldCount, Value: len(countries)})
	return countries, nil
}

// LoadBlocs loads the trade-bloc membership sets.
func (s *ReferenceStore) LoadBlocs() (models.BlocSets, error) {
	data, origin, err := s.read(s.BlocsFile, blocsFileName)
	if err != nil {
		return models.BlocSets{}, err
	}

	var blocs models.BlocSets
	if err := yaml.Unmarshal(data, &blocs); err != nil {
		return models.BlocSets{}, &tradeerror.ParseError{Source: origin, Err: err}
	}

	for _, set := range []*[]models.CountryCode{&blocs.SADC, &blocs.EU, &blocs.Asia} {
		for i, raw := range *set {
			code, err := parseCode(string(raw))
			if err != nil {
				return models.BlocSets{}, &tradeerror.ParseError{Source: origin, Field: "member", Value: string(raw), Err: err}
			}
			(*set)[i] = code
		}
	}

	s.logger.Debug("Loaded bloc sets",
		logging.Field{Key: logging.FieldFile, Value: origin},
		logging.Field{Key: "sadc", Value: len(blocs.SADC)},
		logging.Field{Key: "eu", Value: len(blocs.EU)},
		logging.Field{Key: "asia", Value: len(blocs.Asia)})
	return blocs, nil
}

func parseCode(raw string) (models.CountryCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 3 {
		return models.NoCountry, fmt.Errorf("expected a 3-letter code, got %q", raw)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return models.NoCountry, fmt.Errorf("expected a 3-letter code, got %q", raw)
		}
	}
	return models.CountryCode(code), nil
}
