package usecase

import (
	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
)

// ExtractRecord builds a record from whatever the page exposes. Missing hooks
// leave the matching field absent; a record is always produced.
func ExtractRecord(keyword, url string, page repository.PageFieldReader) entity.ProgramRecord {
	return entity.ProgramRecord{
		SearchKeyword:   keyword,
		InstitutionName: page.InstitutionName(),
		ProgramName:     page.ProgramName(),
		Campus:          page.Campus(),
		TuitionFeeRaw:   page.TuitionFee(),
		SourceURL:       url,
	}
}
