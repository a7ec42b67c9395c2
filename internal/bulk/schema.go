package bulk

import (
	"fmt"
	"strings"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/models"
)

// ColumnKind selects the normalization and validation behavior of a column
type ColumnKind int

const (
	// KindText is a required free-text column
	KindText ColumnKind = iota
	// KindTextOptional is a free-text column that may be blank
	KindTextOptional
	// KindNumeric is a required numeric column with a range
	KindNumeric
	// KindNumericOptional is a numeric column that may be blank
	KindNumericOptional
	// KindEnum is a required column restricted to a fixed value set
	KindEnum
	// KindEnumOptional is an enum column that may be blank
	KindEnumOptional
	// KindFlag is a boolean-like column; unrecognized tokens normalize to
	// null rather than failing validation
	KindFlag
	// KindIdentifier is a free-text code column coerced to string, blank
	// allowed
	KindIdentifier
)

// Column describes one template column
type Column struct {
	Name string
	Kind ColumnKind

	// Enum holds the accepted values for enum kinds
	Enum []string

	// Integer marks numeric columns stored as whole numbers
	Integer bool

	// Min and Max bound numeric columns; Max zero means unbounded above
	Min float64
	Max float64
}

// Schema is one upload template: the target table plus its column set
type Schema struct {
	Name    string
	Table   string
	Columns []Column
}

// Headers returns the template column names in order
func (s *Schema) Headers() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a template column by name
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// NoMatchError reports a file whose column set fits neither template. The
// message lists both expected header sets.
type NoMatchError struct {
	Schemas []*Schema
}

func (e *NoMatchError) Error() string {
	parts := make([]string, len(e.Schemas))
	for i, s := range e.Schemas {
		parts[i] = fmt.Sprintf("%s (%s)", s.Name, strings.Join(s.Headers(), ", "))
	}
	return "file columns match neither expected template: " + strings.Join(parts, " or ")
}

// Registry holds the fixed upload templates
type Registry struct {
	schemas []*Schema
}

// NewRegistry builds the registry with the destination and business
// templates
func NewRegistry() *Registry {
	return &Registry{schemas: []*Schema{destinationSchema(), businessSchema()}}
}

// Schemas returns the registered templates in match order
func (r *Registry) Schemas() []*Schema {
	return r.schemas
}

// Lookup finds a template by name
func (r *Registry) Lookup(name string) (*Schema, bool) {
	for _, s := range r.schemas {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}

// Match selects the template whose column set the file's columns are a
// superset of. Templates are checked in registration order; a file
// matching neither yields a NoMatchError.
func (r *Registry) Match(columns []string) (*Schema, error) {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = true
	}
	for _, s := range r.schemas {
		matched := true
		for _, c := range s.Columns {
			if !present[c.Name] {
				matched = false
				break
			}
		}
		if matched {
			return s, nil
		}
	}
	return nil, &NoMatchError{Schemas: r.schemas}
}

func destinationSchema() *Schema {
	return &Schema{
		Name:  "Destinasi",
		Table: "Destinasi Wisata",
		Columns: []Column{
			{Name: "Nama", Kind: KindText},
			{Name: "Kab_Kota", Kind: KindText},
			{Name: "Kecamatan", Kind: KindText},
			{Name: "Kelurahan_Desa", Kind: KindText},
			{Name: "Deskripsi", Kind: KindText},
			{Name: "Fasilitas_Umum", Kind: KindTextOptional},
			{Name: "Jarak_Ibukota", Kind: KindTextOptional},
			{Name: "Pengelola", Kind: KindEnum, Enum: models.ManagingEntities()},
			{Name: "Rating", Kind: KindNumeric, Min: 1, Max: 10},
		},
	}
}

func businessSchema() *Schema {
	industries := make([]string, 0, len(models.IndustryTypes()))
	for _, t := range models.IndustryTypes() {
		industries = append(industries, string(t))
	}
	return &Schema{
		Name:  "Industri",
		Table: "Industri",
		Columns: []Column{
			{Name: "Nama_Usaha", Kind: KindText},
			{Name: "Jenis_Industri", Kind: KindEnum, Enum: industries},
			{Name: "Kab_Kota", Kind: KindText},
			{Name: "Kecamatan", Kind: KindText},
			{Name: "Kelurahan_Desa", Kind: KindText},
			{Name: "Karyawan_Pria", Kind: KindNumeric, Integer: true},
			{Name: "Karyawan_Wanita", Kind: KindNumeric, Integer: true},
			{Name: "Bintang_Hotel", Kind: KindNumericOptional, Integer: true},
			{Name: "Jumlah_Kamar", Kind: KindNumericOptional, Integer: true},
			{Name: "Jumlah_Bed", Kind: KindNumericOptional, Integer: true},
			{Name: "Fasilitas", Kind: KindTextOptional},
			{Name: "Jenis_Kontak", Kind: KindText},
			{Name: "Kontak", Kind: KindText},
			{Name: "NIB_Available", Kind: KindFlag},
			{Name: "NIB", Kind: KindIdentifier},
			{Name: "CHSE", Kind: KindFlag},
			{Name: "Dapur_Halal", Kind: KindFlag},
			{Name: "Jumlah_Kursi", Kind: KindNumericOptional, Integer: true},
			{Name: "Sertifikat_Halal", Kind: KindFlag},
			{Name: "Standar_Available", Kind: KindFlag},
			{Name: "Sertifikat_Standar", Kind: KindIdentifier},
			{Name: "Trapis_Available", Kind: KindFlag},
			{Name: "Trapis", Kind: KindIdentifier},
			{Name: "Jenis_Hiburan", Kind: KindEnumOptional, Enum: models.EntertainmentTypes()},
		},
	}
}
