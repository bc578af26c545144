package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
)

// LoadDataset reads every table in order, merges them with the same
// last-write-wins rule the scraper uses, and partitions the result.
func LoadDataset(ctx context.Context, readers []repository.TableReader) (entity.Dataset, error) {
	if len(readers) == 0 {
		return entity.Dataset{}, fmt.Errorf("no data source configured: %w", repository.ErrInvalidTable)
	}
	var all []entity.ProgramRecord
	for _, r := range readers {
		records, err := r.Read(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrInvalidTable) {
				return entity.Dataset{}, err
			}
			return entity.Dataset{}, fmt.Errorf("load %s: %w", r.Source(), err)
		}
		all = append(all, records...)
	}
	merged, _ := Dedupe(all)
	return Partition(merged), nil
}
