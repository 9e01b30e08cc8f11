package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mentordoc/client/internal/actions"
	"mentordoc/client/internal/state"
	"mentordoc/client/internal/view"
)

func newOrgsCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "orgs",
		Short: "List your organizations; * marks the current one",
		Args:  cobra.NoArgs,
		RunE: env.withSession(func(s *session, _ []string) error {
			if err := run(s, s.client.Actions.FetchOrganizations, actions.FetchOrganizationsRequest{Request: request()}); err != nil {
				return err
			}
			root := s.state()
			view.RenderOrganizations(s.out, root.Organization.Organizations, root.Organization.CurrentOrganization)
			return nil
		}),
	}
}

func newUseOrgCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "use-org <organization-id>",
		Short: "Select the organization later commands work in",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			if err := run(s, s.client.Actions.FetchOrganizations, actions.FetchOrganizationsRequest{Request: request()}); err != nil {
				return err
			}
			for _, org := range s.state().Organization.Organizations {
				if org.Model.ID != args[0] {
					continue
				}
				s.client.API.Store.Dispatch(state.SetCurrentOrganization.Action(state.SetCurrentOrganizationPayload{CurrentOrganization: &org}))
				s.success("now using %s", org.Model.Name)
				return nil
			}
			return fmt.Errorf("organization %q not found", args[0])
		}),
	}
}
