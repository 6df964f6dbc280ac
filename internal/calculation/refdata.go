package calculation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/rsim/internal/domain"
)

// LoadReferenceData loads every country's historical series (CSV, one
// file per country under countriesDir) and every region's tax
// schedule (YAML, one file per country under taxDir). The result is
// read-only and shared across every trial of a run.
func LoadReferenceData(countriesDir, taxDir string, logger Logger) (*domain.ReferenceData, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	countries, err := loadCountries(countriesDir)
	if err != nil {
		return nil, err
	}
	logger.Infof("loaded %d countries' historical series from %s", len(countries), countriesDir)

	schedules, err := loadTaxSchedules(taxDir)
	if err != nil {
		return nil, err
	}
	logger.Infof("loaded tax schedules for %d countries from %s", len(schedules), taxDir)

	return &domain.ReferenceData{Countries: countries, TaxSchedules: schedules}, nil
}

func loadCountries(dir string) (map[string]domain.CountrySeries, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading countries directory %s: %w", dir, err)
	}
	out := make(map[string]domain.CountrySeries)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		country := filepath.Base(e.Name())
		country = country[:len(country)-len(filepath.Ext(country))]
		series, err := loadCountryCSV(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", e.Name(), err)
		}
		out[country] = domain.CountrySeries{Country: country, Years: series}
	}
	return out, nil
}

// loadCountryCSV parses one country's historical series: a header row
// followed by year,stock,bond,inflation rows. Rows that fail to parse
// are skipped rather than aborting the whole load.
func loadCountryCSV(path string) ([]domain.HistoricalYear, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var years []domain.HistoricalYear
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 4 {
			continue
		}
		year, err := strconv.Atoi(row[0])
		if err != nil {
			continue
		}
		stock, err := decimal.NewFromString(row[1])
		if err != nil {
			continue
		}
		bond, err := decimal.NewFromString(row[2])
		if err != nil {
			continue
		}
		inflation, err := decimal.NewFromString(row[3])
		if err != nil {
			continue
		}
		years = append(years, domain.HistoricalYear{Year: year, Stock: stock, Bond: bond, Inflation: inflation})
	}
	return years, nil
}

// taxBundle is the on-disk shape of one country's tax-schedule file.
type taxBundle struct {
	Country   string               `yaml:"country"`
	Schedules []domain.TaxSchedule `yaml:"regions"`
}

func loadTaxSchedules(dir string) (map[string]map[string]domain.TaxSchedule, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading tax directory %s: %w", dir, err)
	}
	out := make(map[string]map[string]domain.TaxSchedule)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" && filepath.Ext(e.Name()) != ".yml" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var bundle taxBundle
		if err := yaml.Unmarshal(raw, &bundle); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}
		byRegion := make(map[string]domain.TaxSchedule, len(bundle.Schedules))
		for _, s := range bundle.Schedules {
			s.Country = bundle.Country
			byRegion[s.Region] = s
		}
		out[bundle.Country] = byRegion
	}
	return out, nil
}
