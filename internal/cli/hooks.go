package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/grantplan/internal/cli/formatter"
	"github.com/alexanderramin/grantplan/internal/service"
)

// NewReadyHook prints one line per committed project to w.
func NewReadyHook(w io.Writer) service.CompletionHook {
	return service.CompletionHookFunc(func(_ context.Context, projectID string, reason service.ReadyReason) {
		fmt.Fprintf(w, "%s %s %s\n", formatter.StyleGreen.Render("●"), formatter.TruncID(projectID), formatter.Dim("ready ("+string(reason)+")"))
	})
}
