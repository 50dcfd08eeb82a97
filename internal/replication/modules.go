package replication

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/repository"
)

// ModuleCopier recreates content modules under a single new parent.
type ModuleCopier struct {
	modules repository.ModuleRepo
	policy  StatusPolicy
	newID   func() string
	now     func() time.Time
}

// Copy creates one module per source module under parent, in source order,
// and returns how many were created. The first failure aborts the copy.
func (c *ModuleCopier) Copy(ctx context.Context, src []domain.Module, parent domain.ParentRef) (int, error) {
	if err := parent.Validate(); err != nil {
		return 0, err
	}
	now := c.now()
	for i := range src {
		m := src[i]
		status := m.Status
		if c.policy == StatusReset || !domain.ValidModuleStatuses[status] {
			status = domain.ModuleTodo
		}
		cp := &domain.Module{
			ID:         c.newID(),
			Parent:     parent,
			Title:      m.Title,
			Subtitle:   m.Subtitle,
			OrderIndex: m.OrderIndex,
			Guidelines: m.Guidelines,
			CharLimit:  m.CharLimit,
			Status:     status,
			Content:    m.Content,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := c.modules.Create(ctx, cp); err != nil {
			return i, fmt.Errorf("copying module %q to %s: %w", m.Title, parent.Kind, err)
		}
	}
	return len(src), nil
}
