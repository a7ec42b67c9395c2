package services

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
)

// RetryPolicy is a bounded fixed-delay retry policy. The directory lookup
// is the one retried operation in the system: directory propagation after
// signup may lag behind the identity provider.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultDirectoryRetry is the policy used in production
var DefaultDirectoryRetry = RetryPolicy{Attempts: 5, Delay: time.Second}

// DirectoryService resolves officer emails to their assigned region and
// enumerates known regions via the directory table. All reads use the
// privileged service-role key. Both operations fail soft.
type DirectoryService struct {
	client *supabase.Client
	retry  RetryPolicy
	logger *logrus.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(client *supabase.Client, retry RetryPolicy, logger *logrus.Logger) *DirectoryService {
	return &DirectoryService{
		client: client,
		retry:  retry,
		logger: logger,
	}
}

// RegionForEmail resolves an email to its assigned region. Retries on any
// failure or empty result; returns false once the policy is exhausted.
func (s *DirectoryService) RegionForEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))

	query := url.Values{}
	query.Set("email", "eq."+email)
	query.Set("select", "kabupaten_kota")

	for attempt := 1; attempt <= s.retry.Attempts; attempt++ {
		rows, err := s.client.Select("user_info", query, true)
		if err == nil && len(rows) > 0 {
			if region, ok := rows[0]["kabupaten_kota"].(string); ok && region != "" {
				return region, true
			}
		}

		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"email":   email,
				"attempt": attempt,
			}).Warn("Directory lookup failed")
		} else {
			s.logger.WithFields(logrus.Fields{
				"email":   email,
				"attempt": attempt,
			}).Warn("Directory lookup returned no rows")
		}

		if attempt < s.retry.Attempts {
			time.Sleep(s.retry.Delay)
		}
	}

	return "", false
}

// AllRegions returns all known regions, deduplicated and sorted ascending,
// excluding the administrative pseudo-region. Returns an empty slice when
// the directory cannot be read.
func (s *DirectoryService) AllRegions() []string {
	query := url.Values{}
	query.Set("select", "kabupaten_kota")

	rows, err := s.client.Select("user_info", query, true)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list regions")
		return []string{}
	}

	seen := make(map[string]bool)
	regions := make([]string, 0, len(rows))
	for _, row := range rows {
		region, ok := row["kabupaten_kota"].(string)
		if !ok || region == "" || region == "admin" {
			continue
		}
		if !seen[region] {
			seen[region] = true
			regions = append(regions, region)
		}
	}

	sort.Strings(regions)
	return regions
}
