package models

import (
	"time"
)

// Managing entity values accepted for a destination
const (
	ManagingGovernment = "Pemerintah"
	ManagingPrivate    = "Swasta"
	ManagingOther      = "Lainnya"
)

// ManagingEntities lists the accepted managing entity values
func ManagingEntities() []string {
	return []string{ManagingGovernment, ManagingPrivate, ManagingOther}
}

// DestinationRecord represents a tourist destination entry. Facilities and
// DistanceToCapital are the only optional fields; ImageURL is set only
// after a successful upload.
type DestinationRecord struct {
	Name              string
	Region            string
	District          string
	Village           string
	Description       string
	Facilities        string
	DistanceToCapital string
	ManagingEntity    string
	Rating            int
	ImageURL          *string
	SubmittedAt       time.Time
}

// Validate checks the mandatory fields and returns the violated columns.
// Field names cite the wire column so form and bulk errors share one
// vocabulary.
func (r *DestinationRecord) Validate() []string {
	var errs []string

	if isBlank(r.Name) {
		errs = append(errs, "Nama is required")
	}
	if isBlank(r.Region) {
		errs = append(errs, "Kab_Kota is required")
	}
	if isBlank(r.District) {
		errs = append(errs, "Kecamatan is required")
	}
	if isBlank(r.Village) {
		errs = append(errs, "Kelurahan_Desa is required")
	}
	if isBlank(r.Description) {
		errs = append(errs, "Deskripsi is required")
	}
	if !contains(ManagingEntities(), r.ManagingEntity) {
		errs = append(errs, "Pengelola must be one of Pemerintah, Swasta, Lainnya")
	}
	if r.Rating < 1 || r.Rating > 10 {
		errs = append(errs, "Rating must be between 1 and 10")
	}

	return errs
}

// Row builds the JSON row for the destination table
func (r *DestinationRecord) Row() map[string]interface{} {
	row := map[string]interface{}{
		"Nama":           r.Name,
		"Kab_Kota":       r.Region,
		"Kecamatan":      r.District,
		"Kelurahan_Desa": r.Village,
		"Deskripsi":      r.Description,
		"Fasilitas_Umum": r.Facilities,
		"Jarak_Ibukota":  r.DistanceToCapital,
		"Pengelola":      r.ManagingEntity,
		"Rating":         r.Rating,
		"Tanggal_Input":  r.SubmittedAt.Format(time.RFC3339),
	}

	if r.ImageURL != nil {
		row["Gambar_URL"] = *r.ImageURL
	} else {
		row["Gambar_URL"] = nil
	}

	return row
}
