package models

import (
	"strings"
	"time"
)

// IndustryType identifies the tourism industry category of a business.
// Values are the stored wire values.
type IndustryType string

const (
	IndustryTravel     IndustryType = "Travel"
	IndustryHotel      IndustryType = "Hotel"
	IndustryGuesthouse IndustryType = "Wisma"
	IndustryVilla      IndustryType = "Villa"
	IndustryHomestay   IndustryType = "Homestay"
	IndustryRestaurant IndustryType = "Restoran"
	IndustryEatery     IndustryType = "Rumah Makan"
	IndustryCatering   IndustryType = "Catering"
	IndustrySpa        IndustryType = "Spa"
	IndustryNightlife  IndustryType = "Usaha Hiburan"
)

// IndustryTypes lists all accepted industry type values
func IndustryTypes() []IndustryType {
	return []IndustryType{
		IndustryTravel, IndustryHotel, IndustryGuesthouse, IndustryVilla,
		IndustryHomestay, IndustryRestaurant, IndustryEatery,
		IndustryCatering, IndustrySpa, IndustryNightlife,
	}
}

// ParseIndustryType parses a wire value into an IndustryType
func ParseIndustryType(value string) (IndustryType, bool) {
	for _, t := range IndustryTypes() {
		if string(t) == value {
			return t, true
		}
	}
	return "", false
}

// IsAccommodation reports whether the category carries room/bed attributes
func (t IndustryType) IsAccommodation() bool {
	switch t {
	case IndustryHotel, IndustryGuesthouse, IndustryVilla, IndustryHomestay:
		return true
	}
	return false
}

// IsDining reports whether the category carries seat-count attributes
func (t IndustryType) IsDining() bool {
	return t == IndustryRestaurant || t == IndustryEatery
}

// Contact channel values accepted for a business
const (
	ContactWhatsapp  = "Whatsapp"
	ContactInstagram = "Instagram"
	ContactEmail     = "Email"
)

// ContactChannels lists the accepted contact channel values
func ContactChannels() []string {
	return []string{ContactWhatsapp, ContactInstagram, ContactEmail}
}

// EntertainmentTypes lists the accepted nightlife venue subtypes
func EntertainmentTypes() []string {
	return []string{"Club Malam", "Karaoke", "Diskotik", "Billiard"}
}

// Registration is the business-registration-number (NIB) pair: the
// availability flag is mandatory where the category requires it, and an
// affirmative flag makes the number mandatory too.
type Registration struct {
	Available *bool
	Number    string
}

func (r Registration) validate() []string {
	var errs []string
	if r.Available == nil {
		errs = append(errs, "NIB_Available is required")
	} else if *r.Available && isBlank(r.Number) {
		errs = append(errs, "NIB is required when NIB_Available is true")
	}
	return errs
}

func (r Registration) apply(row map[string]interface{}) {
	if r.Available == nil {
		return
	}
	row["NIB_Available"] = *r.Available
	if *r.Available {
		row["NIB"] = r.Number
	}
}

// Availability is a generic flag/value pair (standard certificate,
// additional permit). Column names are supplied by the caller.
type Availability struct {
	Available *bool
	Value     string
}

func (a Availability) validate(flagColumn, valueColumn string) []string {
	var errs []string
	if a.Available == nil {
		errs = append(errs, flagColumn+" is required")
	} else if *a.Available && isBlank(a.Value) {
		errs = append(errs, valueColumn+" is required when "+flagColumn+" is true")
	}
	return errs
}

func (a Availability) apply(row map[string]interface{}, flagColumn, valueColumn string) {
	if a.Available == nil {
		return
	}
	row[flagColumn] = *a.Available
	if *a.Available {
		row[valueColumn] = a.Value
	}
}

// BusinessDetails is the tagged union of category-conditional attributes.
// Each industry type has exactly one variant carrying exactly the fields
// that category requires; serialization and validation dispatch once on
// the variant instead of branching per field.
type BusinessDetails interface {
	IndustryType() IndustryType
	validate() []string
	apply(row map[string]interface{})
}

// AccommodationDetails covers Hotel, Wisma, Villa and Homestay
type AccommodationDetails struct {
	Kind                  IndustryType // one of the four accommodation types
	RoomCount             *int
	BedCount              *int
	Facilities            string
	HalalKitchen          *bool
	HalalCertificate      *bool // optional
	Stars                 int   // Hotel only, 0-5
	Registration          Registration
	HealthSafetyCertified *bool
}

func (d *AccommodationDetails) IndustryType() IndustryType { return d.Kind }

func (d *AccommodationDetails) validate() []string {
	var errs []string
	if d.RoomCount == nil || *d.RoomCount < 0 {
		errs = append(errs, "Jumlah_Kamar is required for "+string(d.Kind))
	}
	if d.BedCount == nil || *d.BedCount < 0 {
		errs = append(errs, "Jumlah_Bed is required for "+string(d.Kind))
	}
	if isBlank(d.Facilities) {
		errs = append(errs, "Fasilitas is required for "+string(d.Kind))
	}
	if d.HalalKitchen == nil {
		errs = append(errs, "Dapur_Halal is required for "+string(d.Kind))
	}
	if d.HealthSafetyCertified == nil {
		errs = append(errs, "CHSE is required for "+string(d.Kind))
	}
	if d.Kind == IndustryHotel && (d.Stars < 0 || d.Stars > 5) {
		errs = append(errs, "Bintang_Hotel must be between 0 and 5")
	}
	errs = append(errs, d.Registration.validate()...)
	return errs
}

func (d *AccommodationDetails) apply(row map[string]interface{}) {
	row["Jumlah_Kamar"] = intOrNil(d.RoomCount)
	row["Jumlah_Bed"] = intOrNil(d.BedCount)
	row["Fasilitas"] = d.Facilities
	row["Dapur_Halal"] = boolOrNil(d.HalalKitchen)
	row["Sertifikat_Halal"] = boolOrNil(d.HalalCertificate)
	row["CHSE"] = boolOrNil(d.HealthSafetyCertified)
	if d.Kind == IndustryHotel {
		row["Bintang_Hotel"] = d.Stars
	}
	d.Registration.apply(row)
}

// DiningDetails covers Restoran and Rumah Makan
type DiningDetails struct {
	Kind                  IndustryType // Restoran or Rumah Makan
	SeatCount             *int
	Facilities            string
	HalalCertificate      *bool // optional
	Registration          Registration
	HealthSafetyCertified *bool
}

func (d *DiningDetails) IndustryType() IndustryType { return d.Kind }

func (d *DiningDetails) validate() []string {
	var errs []string
	if d.SeatCount == nil || *d.SeatCount < 0 {
		errs = append(errs, "Jumlah_Kursi is required for "+string(d.Kind))
	}
	if isBlank(d.Facilities) {
		errs = append(errs, "Fasilitas is required for "+string(d.Kind))
	}
	if d.HealthSafetyCertified == nil {
		errs = append(errs, "CHSE is required for "+string(d.Kind))
	}
	errs = append(errs, d.Registration.validate()...)
	return errs
}

func (d *DiningDetails) apply(row map[string]interface{}) {
	row["Jumlah_Kursi"] = intOrNil(d.SeatCount)
	row["Fasilitas"] = d.Facilities
	row["Sertifikat_Halal"] = boolOrNil(d.HalalCertificate)
	row["CHSE"] = boolOrNil(d.HealthSafetyCertified)
	d.Registration.apply(row)
}

// SpaDetails covers Spa
type SpaDetails struct {
	Registration     Registration
	Standard         Availability
	HalalCertificate *bool // optional
}

func (d *SpaDetails) IndustryType() IndustryType { return IndustrySpa }

func (d *SpaDetails) validate() []string {
	var errs []string
	errs = append(errs, d.Registration.validate()...)
	errs = append(errs, d.Standard.validate("Standar_Available", "Sertifikat_Standar")...)
	return errs
}

func (d *SpaDetails) apply(row map[string]interface{}) {
	row["Sertifikat_Halal"] = boolOrNil(d.HalalCertificate)
	d.Registration.apply(row)
	d.Standard.apply(row, "Standar_Available", "Sertifikat_Standar")
}

// CateringDetails covers Catering
type CateringDetails struct {
	Registration     Registration
	Permit           Availability // additional permit (Trapis)
	HalalCertificate *bool        // optional
}

func (d *CateringDetails) IndustryType() IndustryType { return IndustryCatering }

func (d *CateringDetails) validate() []string {
	var errs []string
	errs = append(errs, d.Registration.validate()...)
	errs = append(errs, d.Permit.validate("Trapis_Available", "Trapis")...)
	return errs
}

func (d *CateringDetails) apply(row map[string]interface{}) {
	row["Sertifikat_Halal"] = boolOrNil(d.HalalCertificate)
	d.Registration.apply(row)
	d.Permit.apply(row, "Trapis_Available", "Trapis")
}

// TravelDetails covers Travel
type TravelDetails struct {
	Registration Registration
}

func (d *TravelDetails) IndustryType() IndustryType { return IndustryTravel }

func (d *TravelDetails) validate() []string {
	return d.Registration.validate()
}

func (d *TravelDetails) apply(row map[string]interface{}) {
	d.Registration.apply(row)
}

// NightlifeDetails covers Usaha Hiburan
type NightlifeDetails struct {
	Registration  Registration
	Standard      Availability
	Entertainment string // venue subtype
}

func (d *NightlifeDetails) IndustryType() IndustryType { return IndustryNightlife }

func (d *NightlifeDetails) validate() []string {
	var errs []string
	errs = append(errs, d.Registration.validate()...)
	errs = append(errs, d.Standard.validate("Standar_Available", "Sertifikat_Standar")...)
	if !contains(EntertainmentTypes(), d.Entertainment) {
		errs = append(errs, "Jenis_Hiburan must be one of "+strings.Join(EntertainmentTypes(), ", "))
	}
	return errs
}

func (d *NightlifeDetails) apply(row map[string]interface{}) {
	row["Jenis_Hiburan"] = d.Entertainment
	d.Registration.apply(row)
	d.Standard.apply(row, "Standar_Available", "Sertifikat_Standar")
}

// BusinessRecord represents a tourism-industry establishment entry.
// Details carries the category-conditional attributes as a variant per
// industry type.
type BusinessRecord struct {
	Name           string
	Region         string
	District       string
	Village        string
	MaleStaff      *int
	FemaleStaff    *int
	ContactChannel string
	ContactValue   string
	ImageURL       *string
	Details        BusinessDetails
	SubmittedAt    time.Time
}

// Validate checks the mandatory common fields plus the variant's own
// requirements and returns all violated columns.
func (r *BusinessRecord) Validate() []string {
	var errs []string

	if isBlank(r.Name) {
		errs = append(errs, "Nama_Usaha is required")
	}
	if r.Details == nil {
		errs = append(errs, "Jenis_Industri is required")
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
	if r.MaleStaff == nil || *r.MaleStaff < 0 {
		errs = append(errs, "Karyawan_Pria must be zero or greater")
	}
	if r.FemaleStaff == nil || *r.FemaleStaff < 0 {
		errs = append(errs, "Karyawan_Wanita must be zero or greater")
	}
	if !contains(ContactChannels(), r.ContactChannel) {
		errs = append(errs, "Jenis_Kontak must be one of Whatsapp, Instagram, Email")
	}
	if isBlank(r.ContactValue) {
		errs = append(errs, "Kontak is required")
	}

	if r.Details != nil {
		errs = append(errs, r.Details.validate()...)
	}

	return errs
}

// Row builds the JSON row for the business table. Every category
// conditional column starts null; the variant fills in exactly the
// columns its category defines.
func (r *BusinessRecord) Row() map[string]interface{} {
	row := map[string]interface{}{
		"Nama_Usaha":     r.Name,
		"Kab_Kota":       r.Region,
		"Kecamatan":      r.District,
		"Kelurahan_Desa": r.Village,
		"Karyawan_Pria":  intOrNil(r.MaleStaff),
		"Karyawan_Wanita": intOrNil(r.FemaleStaff),
		"Jenis_Kontak":   r.ContactChannel,
		"Kontak":         r.ContactValue,
		"Gambar_URL":     nil,
		"Tanggal_Input":  r.SubmittedAt.Format(time.RFC3339),

		"Jumlah_Kamar":      nil,
		"Jumlah_Bed":        nil,
		"Fasilitas":         nil,
		"Bintang_Hotel":     nil,
		"NIB_Available":     nil,
		"NIB":               nil,
		"CHSE":              nil,
		"Dapur_Halal":       nil,
		"Jumlah_Kursi":      nil,
		"Sertifikat_Halal":  nil,
		"Standar_Available": nil,
		"Sertifikat_Standar": nil,
		"Trapis_Available":  nil,
		"Trapis":            nil,
		"Jenis_Hiburan":     nil,
	}

	if r.Details != nil {
		row["Jenis_Industri"] = string(r.Details.IndustryType())
		r.Details.apply(row)
	}

	if r.ImageURL != nil {
		row["Gambar_URL"] = *r.ImageURL
	}

	return row
}

// helpers shared by the record types

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func intOrNil(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func boolOrNil(v *bool) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
