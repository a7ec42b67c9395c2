package models

// ConditionalRule describes, for one industry type, which tabular columns
// must be present and which value columns become mandatory when their
// paired availability flag is true. Bulk import re-applies these rules per
// row; the form path enforces the same table through the details variants.
type ConditionalRule struct {
	// Required columns that must be non-null for the category
	Required []string

	// ValueIfTrue maps an availability flag column to the value column
	// that becomes mandatory when the flag is true
	ValueIfTrue map[string]string
}

// ConditionalRuleFor returns the conditional requirements for an industry
// type.
func ConditionalRuleFor(t IndustryType) ConditionalRule {
	nib := map[string]string{"NIB_Available": "NIB"}
	nibStandard := map[string]string{
		"NIB_Available":     "NIB",
		"Standar_Available": "Sertifikat_Standar",
	}

	switch {
	case t.IsAccommodation():
		return ConditionalRule{
			Required:    []string{"Dapur_Halal", "NIB_Available", "CHSE", "Fasilitas", "Jumlah_Kamar", "Jumlah_Bed"},
			ValueIfTrue: nib,
		}
	case t.IsDining():
		return ConditionalRule{
			Required:    []string{"NIB_Available", "CHSE", "Fasilitas", "Jumlah_Kursi"},
			ValueIfTrue: nib,
		}
	case t == IndustrySpa:
		return ConditionalRule{
			Required:    []string{"NIB_Available", "Standar_Available"},
			ValueIfTrue: nibStandard,
		}
	case t == IndustryCatering:
		return ConditionalRule{
			Required: []string{"NIB_Available", "Trapis_Available"},
			ValueIfTrue: map[string]string{
				"NIB_Available":    "NIB",
				"Trapis_Available": "Trapis",
			},
		}
	case t == IndustryNightlife:
		return ConditionalRule{
			Required:    []string{"NIB_Available", "Standar_Available", "Jenis_Hiburan"},
			ValueIfTrue: nibStandard,
		}
	default: // Travel
		return ConditionalRule{
			Required:    []string{"NIB_Available"},
			ValueIfTrue: nib,
		}
	}
}
