package tabular

import "github.com/user/tcas-fee-crawler/internal/entity"

const (
	mainSheet  = "programs"
	noFeeSheet = "no-fee"
)

// MainColumns is the exact header of the record table.
var MainColumns = []entity.Field{
	entity.FieldSearchKeyword,
	entity.FieldInstitution,
	entity.FieldProgram,
	entity.FieldCampus,
	entity.FieldTuitionFee,
	entity.FieldSourceURL,
}

// NoFeeColumns is the exact header of the no-fee companion table.
var NoFeeColumns = []entity.Field{
	entity.FieldInstitution,
	entity.FieldCampus,
	entity.FieldProgram,
	entity.FieldTuitionFee,
}

func header(cols []entity.Field) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = string(c)
	}
	return out
}

func mainRow(r entity.ProgramRecord) []string {
	return []string{
		r.SearchKeyword,
		r.InstitutionName.Display(entity.FieldInstitution),
		r.ProgramName.Display(entity.FieldProgram),
		r.Campus.Display(entity.FieldCampus),
		r.TuitionFeeRaw.Display(entity.FieldTuitionFee),
		r.SourceURL,
	}
}

func noFeeRow(r entity.NoFeeRecord) []string {
	return []string{
		r.InstitutionName.Display(entity.FieldInstitution),
		r.Campus.Display(entity.FieldCampus),
		r.ProgramName.Display(entity.FieldProgram),
		r.TuitionFeeRaw.Display(entity.FieldTuitionFee),
	}
}
