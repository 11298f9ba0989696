package pipeline

import (
	"context"
	"fmt"

	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

// History lists the owner's jobs newest first along with the job currently
// being processed, if any.
func History(ctx context.Context, jobs OwnerJobsProvider, owner string) (*domain.History, error) {
	list, err := jobs.JobsByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	if list == nil {
		list = []*domain.IngestionJob{}
	}

	history := &domain.History{List: list}
	for _, job := range list {
		if job.Status == domain.StatusProcessing {
			history.CurrentProcessingID = &job.ID
			break
		}
	}

	return history, nil
}
