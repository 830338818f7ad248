// Package report loads the decapitated-animal dataset and renders a single
// report as a post.
package report

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ErrEmptyDataset is returned when there is nothing to choose from.
var ErrEmptyDataset = errors.New("dataset contains no reports")

// Report is one park complaint from the dataset.
type Report struct {
	Animal                    string  `json:"animal"`
	ComplaintDetails          string  `json:"complaint_details"`
	AdditionalLocationDetails string  `json:"additional_location_details"`
	ParkOrFacility            string  `json:"park_or_facility"`
	SiteCityZip               string  `json:"site_city_zip"`
	Lat                       float64 `json:"lat"`
	Lng                       float64 `json:"lng"`
}

type Coordinates struct {
	Lat float64
	Lng float64
}

// Coordinates returns the report location as stored, without validation.
func (r Report) Coordinates() Coordinates {
	return Coordinates{Lat: r.Lat, Lng: r.Lng}
}

// IntNSource is the subset of *rand.Rand used for selection.
type IntNSource interface {
	IntN(n int) int
}

// LoadDataset reads the whole JSON array at path into memory.
func LoadDataset(path string) ([]Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading dataset %s", path)
	}

	var reports []Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, errors.Wrapf(err, "parsing dataset %s", path)
	}
	return reports, nil
}

// Choose picks one report uniformly at random.
func Choose(rng IntNSource, reports []Report) (Report, error) {
	if len(reports) == 0 {
		return Report{}, ErrEmptyDataset
	}
	return reports[rng.IntN(len(reports))], nil
}
