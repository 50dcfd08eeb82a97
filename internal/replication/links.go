package replication

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/repository"
)

// LinkRestorer recreates work-partner and task-partner associations through
// a PartnerMap. Links to partners missing from the map are dropped.
type LinkRestorer struct {
	links  repository.LinkRepo
	logger *slog.Logger
	newID  func() string
}

// RestoreWork attaches src links to the new work item.
func (l *LinkRestorer) RestoreWork(ctx context.Context, workID string, src []domain.WorkPartner, pmap PartnerMap) (restored, dropped int, err error) {
	for _, link := range src {
		partnerID, ok := pmap.Lookup(link.PartnerID)
		if !ok {
			l.logger.DebugContext(ctx, "dropping work link to unmapped partner",
				"work_id", workID, "partner_id", link.PartnerID)
			dropped++
			continue
		}
		wp := &domain.WorkPartner{
			ID:         l.newID(),
			WorkItemID: workID,
			PartnerID:  partnerID,
			Role:       link.Role,
		}
		if err := l.links.CreateWorkPartner(ctx, wp); err != nil {
			return restored, dropped, fmt.Errorf("restoring work link: %w", err)
		}
		restored++
	}
	return restored, dropped, nil
}

// RestoreTask attaches src links to the new task.
func (l *LinkRestorer) RestoreTask(ctx context.Context, taskID string, src []domain.TaskPartner, pmap PartnerMap) (restored, dropped int, err error) {
	for _, link := range src {
		partnerID, ok := pmap.Lookup(link.PartnerID)
		if !ok {
			l.logger.DebugContext(ctx, "dropping task link to unmapped partner",
				"task_id", taskID, "partner_id", link.PartnerID)
			dropped++
			continue
		}
		tp := &domain.TaskPartner{
			ID:        l.newID(),
			TaskID:    taskID,
			PartnerID: partnerID,
			Role:      link.Role,
		}
		if err := l.links.CreateTaskPartner(ctx, tp); err != nil {
			return restored, dropped, fmt.Errorf("restoring task link: %w", err)
		}
		restored++
	}
	return restored, dropped, nil
}
