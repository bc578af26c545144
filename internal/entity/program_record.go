package entity

import "strings"

// Field names a ProgramRecord column in the exported tables.
type Field string

const (
	FieldSearchKeyword Field = "search-keyword"
	FieldInstitution   Field = "institution-name"
	FieldProgram       Field = "program-name"
	FieldCampus        Field = "campus"
	FieldTuitionFee    Field = "raw-fee-text"
	FieldSourceURL     Field = "source-url"
)

var sentinels = map[Field]string{
	FieldInstitution: "institution name not found",
	FieldProgram:     "program name not found",
	FieldCampus:      "campus not found",
	FieldTuitionFee:  "tuition fee not found",
}

// Sentinel is the placeholder rendered for an absent field.
func Sentinel(f Field) string {
	return sentinels[f]
}

// ParseCell reads a table cell back into a Text. Empty cells and the field's
// sentinel both mean absent.
func ParseCell(f Field, cell string) Text {
	cell = strings.TrimSpace(cell)
	if s, ok := sentinels[f]; ok && strings.EqualFold(cell, s) {
		return None()
	}
	return Some(cell)
}

// ProgramRecord is one program offering extracted from a detail page.
type ProgramRecord struct {
	SearchKeyword   string `json:"search_keyword"`
	InstitutionName Text   `json:"institution_name"`
	ProgramName     Text   `json:"program_name"`
	Campus          Text   `json:"campus"`
	TuitionFeeRaw   Text   `json:"tuition_fee_raw"`
	SourceURL       string `json:"source_url"`
}
