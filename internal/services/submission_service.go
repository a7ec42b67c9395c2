package services

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/models"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
)

// Backend table names
const (
	DestinationTable = "Destinasi Wisata"
	BusinessTable    = "Industri"
)

// Storage path prefixes per record category
const (
	destinationImagePrefix = "Destinasi_Wisata"
	businessImagePrefix    = "Industri"
)

// MaxImageSize caps uploaded image size at 50 MiB
const MaxImageSize = 50 * 1024 * 1024

var (
	// ErrImageTooLarge is returned before any network call when an image
	// exceeds MaxImageSize
	ErrImageTooLarge = errors.New("image exceeds the 50 MB limit")

	// ErrDuplicateBusinessName is returned when a business with the same
	// name already exists
	ErrDuplicateBusinessName = errors.New("a business with this name already exists")
)

// ValidationError carries the violated fields of a rejected submission
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// ImageUpload is an in-memory image attached to a submission
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// imageExtensions lists the accepted upload formats
var imageExtensions = []string{".jpg", ".jpeg", ".png"}

func (i *ImageUpload) allowedType() bool {
	ext := strings.ToLower(filepath.Ext(i.Filename))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// SubmissionService builds, validates and persists records. A submission
// is all-or-nothing: validation and the duplicate pre-check run before any
// upload, and an upload failure aborts the insert so no partial record is
// ever persisted. A crash between upload and insert can still orphan a
// stored image; that is accepted and not cleaned up.
type SubmissionService struct {
	client *supabase.Client
	logger *logrus.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(client *supabase.Client, logger *logrus.Logger) *SubmissionService {
	return &SubmissionService{
		client: client,
		logger: logger,
	}
}

// SubmitDestination validates and persists a destination record. The
// image is mandatory for destinations.
func (s *SubmissionService) SubmitDestination(record *models.DestinationRecord, image *ImageUpload) (string, error) {
	fields := record.Validate()
	if image == nil {
		fields = append(fields, "Gambar is required")
	} else if !image.allowedType() {
		fields = append(fields, "Gambar must be a jpg, jpeg or png file")
	}
	if len(fields) > 0 {
		return "", &ValidationError{Fields: fields}
	}

	if len(image.Data) > MaxImageSize {
		return "", ErrImageTooLarge
	}

	imageURL, err := s.uploadImage(destinationImagePrefix, record.Name, image)
	if err != nil {
		return "", err
	}
	record.ImageURL = &imageURL

	if err := s.client.InsertRow(DestinationTable, record.Row()); err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"name":   record.Name,
		"region": record.Region,
	}).Info("Destination record submitted")

	return imageURL, nil
}

// SubmitBusiness validates and persists a business record. The image is
// optional. The duplicate-name pre-check runs before any upload so a
// rejected submission never leaves an orphaned image behind.
func (s *SubmissionService) SubmitBusiness(record *models.BusinessRecord, image *ImageUpload) (string, error) {
	fields := record.Validate()
	if image != nil && !image.allowedType() {
		fields = append(fields, "Gambar must be a jpg, jpeg or png file")
	}
	if len(fields) > 0 {
		return "", &ValidationError{Fields: fields}
	}

	if image != nil && len(image.Data) > MaxImageSize {
		return "", ErrImageTooLarge
	}

	duplicate, err := s.businessNameExists(record.Name)
	if err != nil {
		return "", err
	}
	if duplicate {
		return "", ErrDuplicateBusinessName
	}

	var imageURL string
	if image != nil {
		imageURL, err = s.uploadImage(businessImagePrefix, record.Name, image)
		if err != nil {
			return "", err
		}
		record.ImageURL = &imageURL
	}

	if err := s.client.InsertRow(BusinessTable, record.Row()); err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"name":     record.Name,
		"industry": string(record.Details.IndustryType()),
		"region":   record.Region,
	}).Info("Business record submitted")

	return imageURL, nil
}

// SubmitBatch appends the submission timestamp to every row and inserts
// the table as one batch. Returns the row count the server reports.
func (s *SubmissionService) SubmitBatch(table string, rows []map[string]interface{}) (int, error) {
	stamp := time.Now().Format("2006-01-02 15:04:05")
	for _, row := range rows {
		row["Tanggal_Input"] = stamp
	}

	inserted, err := s.client.InsertRows(table, rows)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"table": table,
		"rows":  inserted,
	}).Info("Bulk import submitted")

	return inserted, nil
}

// businessNameExists checks for an existing business with the exact name
func (s *SubmissionService) businessNameExists(name string) (bool, error) {
	query := url.Values{}
	query.Set("Nama_Usaha", "eq."+name)
	query.Set("select", "Nama_Usaha")

	rows, err := s.client.Select(BusinessTable, query, false)
	if err != nil {
		return false, fmt.Errorf("duplicate check failed: %w", err)
	}

	return len(rows) > 0, nil
}

// uploadImage stores the image under a path namespaced by category and
// the sanitized record name, and returns its public URL.
func (s *SubmissionService) uploadImage(prefix, recordName string, image *ImageUpload) (string, error) {
	fileName := strings.ReplaceAll(recordName, " ", "_") + "_" + image.Filename
	path := prefix + "/" + fileName

	publicURL, err := s.client.UploadObject(path, image.ContentType, image.Data)
	if err != nil {
		return "", err
	}

	return publicURL, nil
}
