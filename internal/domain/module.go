package domain

import (
	"fmt"
	"time"
)

// ParentRef identifies the single node a module is attached to.
type ParentRef struct {
	Kind ParentKind
	ID   string
}

// NewParentRef builds a ParentRef, rejecting unknown kinds and empty ids.
func NewParentRef(kind ParentKind, id string) (ParentRef, error) {
	ref := ParentRef{Kind: kind, ID: id}
	if err := ref.Validate(); err != nil {
		return ParentRef{}, err
	}
	return ref, nil
}

func (r ParentRef) Validate() error {
	if !ValidParentKinds[r.Kind] {
		return fmt.Errorf("invalid module parent kind %q", r.Kind)
	}
	if r.ID == "" {
		return fmt.Errorf("module parent %s has empty id", r.Kind)
	}
	return nil
}

// Module is the leaf content unit of a project plan.
type Module struct {
	ID         string
	Parent     ParentRef
	Title      string
	Subtitle   string
	OrderIndex int
	Guidelines string
	CharLimit  int
	Status     ModuleStatus
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the single-parent rule and the workflow status.
func (m *Module) Validate() error {
	if err := m.Parent.Validate(); err != nil {
		return err
	}
	if !ValidModuleStatuses[m.Status] {
		return fmt.Errorf("invalid module status %q", m.Status)
	}
	if m.CharLimit < 0 {
		return fmt.Errorf("character limit cannot be negative")
	}
	return nil
}
