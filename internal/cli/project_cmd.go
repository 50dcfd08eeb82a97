package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/grantplan/internal/cli/formatter"
	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/alexanderramin/grantplan/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and templates",
	}

	cmd.AddCommand(
		newProjectCreateCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectExportCmd(app),
		newProjectTemplateCmd(app),
		newProjectImportCmd(app),
		newProjectDeleteCmd(app),
	)

	return cmd
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var (
		title, acronym, start, agency, language, template string
		duration                                          int
		maps, extras                                      []string
		interactive                                       bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project, optionally cloned from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			startDate, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}

			req := service.CreateProjectRequest{
				Title:          title,
				Acronym:        acronym,
				StartDate:      startDate,
				DurationMonths: duration,
				NationalAgency: agency,
				Language:       language,
			}

			if template == "" && (len(maps) > 0 || interactive) {
				return fmt.Errorf("--map and --interactive need --template")
			}

			if template != "" {
				if req.TemplateID, err = resolveProjectID(ctx, app, template); err != nil {
					return err
				}
				tree, err := app.Planning.Tree(ctx, req.TemplateID)
				if err != nil {
					return err
				}
				orgs, err := app.Orgs.List(ctx)
				if err != nil {
					return err
				}
				if req.Mapping, err = parseMappings(maps, tree.Partners, orgs); err != nil {
					return err
				}
				if interactive {
					if !app.interactive() {
						return fmt.Errorf("--interactive needs a terminal")
					}
					picked, err := app.Prompter.MapPartners(unmapped(tree.Partners, req.Mapping), orgs)
					if err != nil {
						return err
					}
					for src, org := range picked {
						req.Mapping[src] = org
					}
				}
				req.ExtraOrgs = extraOrgIDs(extras, orgs)
			} else if len(extras) > 0 {
				orgs, err := app.Orgs.List(ctx)
				if err != nil {
					return err
				}
				req.ExtraOrgs = extraOrgIDs(extras, orgs)
			}

			principal, err := app.Principal.Resolve(ctx)
			if err != nil {
				return err
			}

			res, err := app.Planning.CreateProject(ctx, principal, req)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCreateResult("Created", formatter.CreateSummary{
				Project:       res.Project,
				Counts:        res.Counts,
				DroppedLinks:  res.DroppedLinks,
				Seeded:        res.Seeded,
				MembershipGap: res.MembershipGap,
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().StringVar(&acronym, "acronym", "", "Short acronym used to refer to the project")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in months")
	cmd.Flags().StringVar(&agency, "agency", "", "National agency code (e.g. IT02)")
	cmd.Flags().StringVar(&language, "language", "", "Proposal language")
	cmd.Flags().StringVar(&template, "template", "", "Template project to clone (acronym or ID)")
	cmd.Flags().StringArrayVar(&maps, "map", nil, "Bind a template partner to an organization (PARTNER=ORG, repeatable)")
	cmd.Flags().StringArrayVar(&extras, "extra-org", nil, "Attach an additional organization as partner (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick organizations for template partners in a form")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("duration")

	return cmd
}

// unmapped returns the partners that have no entry in mapping yet.
func unmapped(partners []domain.Partner, mapping map[string]string) []domain.Partner {
	var out []domain.Partner
	for _, p := range partners {
		if _, ok := mapping[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// extraOrgIDs resolves names where it can. Unknown values pass through so
// the service can report them.
func extraOrgIDs(inputs []string, orgs []*domain.Organization) []string {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if org, err := resolveOrganization(in, orgs); err == nil {
			ids = append(ids, org.ID)
			continue
		}
		ids = append(ids, in)
	}
	return ids
}

func newProjectListCmd(app *App) *cobra.Command {
	var templatesOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Planning.List(cmd.Context(), templatesOnly)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&templatesOnly, "templates", false, "Only list templates")
	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a project's plan tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			tree, err := app.Planning.Tree(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectTree(tree))
			return nil
		},
	}
}

func newProjectExportCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Print a project's live tree as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			data, err := app.Planning.Export(cmd.Context(), id, format)
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

func newProjectTemplateCmd(app *App) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "template ID",
		Short: "Mark a project as a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Planning.SetTemplate(cmd.Context(), id, !off); err != nil {
				return err
			}
			state := "is now a template"
			if off {
				state = "is no longer a template"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Bold(args[0]), state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Clear the template flag")
	return cmd
}

func newProjectImportCmd(app *App) *cobra.Command {
	var asTemplate bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project from a JSON or YAML tree (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			principal, err := app.Principal.Resolve(cmd.Context())
			if err != nil {
				return err
			}
			res, err := app.Planning.ImportTree(cmd.Context(), principal, data, asTemplate)
			if err != nil {
				return err
			}

			verb := "Imported"
			if asTemplate {
				verb = "Imported template"
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCreateResult(verb, formatter.CreateSummary{
				Project:       res.Project,
				Counts:        res.Counts,
				DroppedLinks:  res.DroppedLinks,
				MembershipGap: res.MembershipGap,
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTemplate, "template", false, "Flag the imported project as a template")
	return cmd
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a project with its plan and snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Planning.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
			return nil
		},
	}
}
