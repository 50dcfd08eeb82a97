package cli

import (
	"fmt"

	"github.com/alexanderramin/grantplan/internal/cli/formatter"
	"github.com/alexanderramin/grantplan/internal/domain"
	"github.com/spf13/cobra"
)

func newOrgCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage the shared organization directory",
	}

	cmd.AddCommand(
		newOrgAddCmd(app),
		newOrgListCmd(app),
		newOrgAffiliateCmd(app),
	)

	return cmd
}

func newOrgAddCmd(app *App) *cobra.Command {
	var o domain.Organization

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Orgs.Create(cmd.Context(), &o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added organization %s %s\n", formatter.Bold(o.Name), formatter.TruncID(o.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&o.Name, "name", "", "Organization name")
	cmd.Flags().StringVar(&o.Nation, "nation", "", "Two-letter nation code")
	cmd.Flags().StringVar(&o.City, "city", "", "City")
	cmd.Flags().StringVar(&o.Type, "type", "", "Organization type (e.g. NGO, school)")
	cmd.Flags().StringVar(&o.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&o.Phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&o.Website, "website", "", "Website")
	cmd.Flags().StringVar(&o.Address, "address", "", "Postal address")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newOrgListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgs, err := app.Orgs.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOrganizationList(orgs))
			return nil
		},
	}
}

func newOrgAffiliateCmd(app *App) *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:   "affiliate ORG",
		Short: "Affiliate the acting user with an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			orgs, err := app.Orgs.List(ctx)
			if err != nil {
				return err
			}
			org, err := resolveOrganization(args[0], orgs)
			if err != nil {
				return err
			}
			principal, err := app.Principal.Resolve(ctx)
			if err != nil {
				return err
			}
			aff, err := app.Orgs.Affiliate(ctx, principal, org.ID, position)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAffiliation(org, aff))
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", "", "Role within the organization")
	return cmd
}
