package models

// Variant owns its sub-variants, which own their values. Removing a parent
// removes everything below it.
type Variant struct {
	NameEn      string       `json:"nameEn"`
	NameAr      string       `json:"nameAr"`
	SubVariants []SubVariant `json:"subVariants,omitempty"`
}

type SubVariant struct {
	NameEn string         `json:"nameEn"`
	NameAr string         `json:"nameAr"`
	Values []VariantValue `json:"values,omitempty"`
}

type VariantValue struct {
	NameEn string `json:"nameEn"`
	NameAr string `json:"nameAr"`
}

// CountValues returns the number of leaf values across the hierarchy.
func (s CarSpecs) CountValues() int {
	n := 0
	for _, v := range s.Variants {
		for _, sv := range v.SubVariants {
			n += len(sv.Values)
		}
	}
	return n
}
