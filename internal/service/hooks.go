package service

import (
	"context"

	"github.com/alexanderramin/grantplan/internal/domain"
)

// ReadyReason tells a CompletionHook which use case produced the project.
type ReadyReason string

const (
	ReadyCreated  ReadyReason = "created"
	ReadyImported ReadyReason = "imported"
	ReadyRestored ReadyReason = "restored"
)

// CompletionHook is notified after a project's transaction has committed.
// It must not assume it can still affect the outcome.
type CompletionHook interface {
	ProjectReady(ctx context.Context, projectID string, reason ReadyReason)
}

// NoopCompletionHook ignores notifications.
type NoopCompletionHook struct{}

func (NoopCompletionHook) ProjectReady(context.Context, string, ReadyReason) {}

// CompletionHookFunc adapts a function to CompletionHook.
type CompletionHookFunc func(ctx context.Context, projectID string, reason ReadyReason)

func (f CompletionHookFunc) ProjectReady(ctx context.Context, projectID string, reason ReadyReason) {
	f(ctx, projectID, reason)
}

// PrincipalResolver names the acting user.
type PrincipalResolver interface {
	Resolve(ctx context.Context) (domain.Principal, error)
}

// StaticPrincipal always resolves to the same user.
type StaticPrincipal string

func (s StaticPrincipal) Resolve(context.Context) (domain.Principal, error) {
	p := domain.Principal{UserID: string(s)}
	if err := p.Validate(); err != nil {
		return domain.Principal{}, fail(CodeUnauthorized, "resolve-principal", "no acting user configured; set GRANTPLAN_USER", err)
	}
	return p, nil
}

func hookOrNoop(h CompletionHook) CompletionHook {
	if h == nil {
		return NoopCompletionHook{}
	}
	return h
}
