package domain

import (
	"fmt"
	"strings"
	"time"
)

// Snapshot is an immutable, named serialization of a project tree.
type Snapshot struct {
	ID        string
	ProjectID string
	Name      string
	Rev       string
	Payload   []byte
	CreatedBy string
	CreatedAt time.Time
}

// Principal is the acting user, resolved once per operation.
type Principal struct {
	UserID string
}

func (p Principal) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("no acting user")
	}
	return nil
}
