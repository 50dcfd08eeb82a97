package domain

import "time"

type Section struct {
	ID         string
	ProjectID  string
	Title      string
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WorkItem is a work package. A nil SectionID means it hangs directly off the project.
type WorkItem struct {
	ID          string
	ProjectID   string
	SectionID   *string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAssigned reports whether the work item belongs to a section.
func (w *WorkItem) IsAssigned() bool {
	return w.SectionID != nil && *w.SectionID != ""
}

type Task struct {
	ID          string
	WorkItemID  string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Activity struct {
	ID              string
	TaskID          string
	Title           string
	Description     string
	EstimatedStart  time.Time
	EstimatedEnd    time.Time
	AllocatedAmount float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
