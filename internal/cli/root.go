package cli

import (
	"github.com/alexanderramin/grantplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Planning  service.PlanningService
	Snapshots service.SnapshotService
	Orgs      service.OrganizationService
	Principal service.PrincipalResolver

	// Prompter drives interactive forms. IsInteractive gates every use of it.
	Prompter      Prompter
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive() && a.Prompter != nil
}

// NewRootCmd creates the top-level "grantplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "grantplan",
		Short:         "Grant proposal planner with templates and snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newSnapshotCmd(app),
		newOrgCmd(app),
	)

	return root
}
