package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/alexanderramin/grantplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Take, inspect and restore project snapshots",
	}

	cmd.AddCommand(
		newSnapshotCreateCmd(app),
		newSnapshotListCmd(app),
		newSnapshotRestoreCmd(app),
		newSnapshotExportCmd(app),
		newSnapshotDiffCmd(app),
	)

	return cmd
}

func newSnapshotCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create PROJECT",
		Short: "Snapshot a project's current plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			principal, err := app.Principal.Resolve(ctx)
			if err != nil {
				return err
			}
			snap, err := app.Snapshots.Create(ctx, principal, projectID, name)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshotCreated(snap))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Snapshot name (defaults to a timestamp)")
	return cmd
}

func newSnapshotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			project, err := app.Planning.Get(ctx, projectID)
			if err != nil {
				return err
			}
			snaps, err := app.Snapshots.List(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSnapshotList(project, snaps))
			return nil
		},
	}
}

func newSnapshotRestoreCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore SNAPSHOT",
		Short: "Replace a project's plan with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("restore replaces the whole plan; pass --yes when not on a terminal")
				}
				snap, err := app.Snapshots.Get(ctx, args[0])
				if err != nil {
					return err
				}
				project, err := app.Planning.Get(ctx, snap.ProjectID)
				if err != nil {
					return err
				}
				ok, err := app.Prompter.Confirm(fmt.Sprintf("Replace the plan of %s with snapshot %q?", project.DisplayID(), snap.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			principal, err := app.Principal.Resolve(ctx)
			if err != nil {
				return err
			}
			res, err := app.Snapshots.Restore(ctx, principal, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRestoreResult(res.Project, res.Snapshot, res.Counts, res.DroppedLinks, res.LostMembers, res.MembershipGap))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newSnapshotExportCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export SNAPSHOT",
		Short: "Print a snapshot as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Snapshots.Export(cmd.Context(), args[0], format)
			if err != nil {
				return err
			}
			return writeExport(cmd, data, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format (json or yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// writeExport sends an exported document to output, or to stdout when
// output is empty.
func writeExport(cmd *cobra.Command, data []byte, output string) error {
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	if output != "" {
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
		return nil
	}
	_, err := cmd.OutOrStdout().Write(data)
	return err
}

func newSnapshotDiffCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "diff A B",
		Short: "Compare the outlines of two snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			diff, err := app.Snapshots.Diff(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.ColorDiff(diff))
			return nil
		},
	}
}
