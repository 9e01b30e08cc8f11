package actions

import (
	"context"

	"mentordoc/client/internal/model"
	"mentordoc/client/internal/state"
)

type FetchOrganizationsRequest struct {
	model.Request
}

// fetchOrganizations replaces the organization list and keeps the current
// organization in step with it: a stale selection is refreshed with its new
// capabilities, a vanished or missing one falls back to the first organization.
func (c *Catalog) fetchOrganizations(ctx context.Context, api *state.API, _ FetchOrganizationsRequest) error {
	orgs, err := api.Gateway.ListOrganizations(ctx)
	if err != nil {
		return err
	}
	if orgs == nil {
		orgs = []model.AclOrganization{}
	}

	current := selectOrganization(orgs, api.Store.State().Organization.CurrentOrganization)
	api.Store.DispatchAll(
		state.SetOrganizations.Action(state.SetOrganizationsPayload{Organizations: orgs}),
		state.SetCurrentOrganization.Action(state.SetCurrentOrganizationPayload{CurrentOrganization: current}),
	)
	return nil
}

func selectOrganization(orgs []model.AclOrganization, current *model.AclOrganization) *model.AclOrganization {
	if current != nil {
		for i := range orgs {
			if orgs[i].Model.ID == current.Model.ID {
				return &orgs[i]
			}
		}
	}
	if len(orgs) == 0 {
		return nil
	}
	return &orgs[0]
}
