// Package refdata ships the static UK city reference table used by the
// extract and transform stages. The table is embedded at build time so the
// service has no runtime file dependency for it.
package refdata

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"
)

//go:embed uk_cities.csv
var citiesCSV []byte

// City is one reference entry: a city, its region, and its coordinates.
type City struct {
	Name   string
	Region string
	Lat    float64
	Lon    float64
}

// Cities parses the embedded reference table. Northern Ireland rows are
// filtered out: the Carbon Intensity regional feed does not cover NI, so its
// cities can never be merged.
func Cities() ([]City, error) {
	reader := csv.NewReader(bytes.NewReader(citiesCSV))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse city table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("city table is empty")
	}

	cities := make([]City, 0, len(rows)-1)
	for i, row := range rows[1:] { // skip header
		if len(row) < 4 {
			return nil, fmt.Errorf("city table row %d: want 4 columns, got %d", i+2, len(row))
		}
		if row[1] == "Northern Ireland" {
			continue
		}
		lat, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("city table row %d: latitude: %w", i+2, err)
		}
		lon, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("city table row %d: longitude: %w", i+2, err)
		}
		cities = append(cities, City{Name: row[0], Region: row[1], Lat: lat, Lon: lon})
	}
	return cities, nil
}

// CityRegions returns the city→region lookup table used by the resolver.
func CityRegions() (map[string]string, error) {
	cities, err := Cities()
	if err != nil {
		return nil, err
	}
	table := make(map[string]string, len(cities))
	for _, c := range cities {
		table[c.Name] = c.Region
	}
	return table, nil
}
