package services

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/models"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
)

// RegionProgress is the per-region submission count pair
type RegionProgress struct {
	Region           string `json:"region"`
	DestinationCount int    `json:"destination_count"`
	BusinessCount    int    `json:"business_count"`
}

// ProgressReport aggregates submission progress across all regions
type ProgressReport struct {
	Regions           []RegionProgress `json:"regions"`
	TotalDestinations int              `json:"total_destinations"`
	TotalBusinesses   int              `json:"total_businesses"`
	TotalRegions      int              `json:"total_regions"`
	RegionsWithData   int              `json:"regions_with_data"`
	PercentWithData   float64          `json:"percent_with_data"`
}

// ProgressService computes the admin submission-progress summary. Stored
// region spellings vary ("Kota Makassar", "Kabupaten Makassar",
// "Makassar"), so counts use a normalized substring match. A failed count
// degrades silently to zero for that region.
type ProgressService struct {
	client    *supabase.Client
	directory *DirectoryService
	logger    *logrus.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(client *supabase.Client, directory *DirectoryService, logger *logrus.Logger) *ProgressService {
	return &ProgressService{
		client:    client,
		directory: directory,
		logger:    logger,
	}
}

// Report builds the progress table and summary statistics
func (s *ProgressService) Report() (*ProgressReport, error) {
	regions := s.directory.AllRegions()
	if len(regions) == 0 {
		return nil, fmt.Errorf("failed to list regions from the directory")
	}

	report := &ProgressReport{
		Regions:      make([]RegionProgress, 0, len(regions)),
		TotalRegions: len(regions),
	}

	for _, region := range regions {
		normalized := models.NormalizeRegion(region)

		destinations := s.countOrZero(DestinationTable, normalized)
		businesses := s.countOrZero(BusinessTable, normalized)

		report.Regions = append(report.Regions, RegionProgress{
			Region:           region,
			DestinationCount: destinations,
			BusinessCount:    businesses,
		})

		report.TotalDestinations += destinations
		report.TotalBusinesses += businesses
		if destinations > 0 || businesses > 0 {
			report.RegionsWithData++
		}
	}

	report.PercentWithData = roundTwo(float64(report.RegionsWithData) / float64(report.TotalRegions) * 100)

	return report, nil
}

// countOrZero runs a pattern count and degrades failures to zero
func (s *ProgressService) countOrZero(table, pattern string) int {
	count, err := s.client.CountPattern(table, "Kab_Kota", pattern)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"table":  table,
			"region": pattern,
		}).Warn("Count query failed, reporting zero")
		return 0
	}
	return count
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}
