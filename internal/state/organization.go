package state

import "mentordoc/client/internal/model"

type SetOrganizationsPayload struct {
	Organizations []model.AclOrganization
}

type SetCurrentOrganizationPayload struct {
	CurrentOrganization *model.AclOrganization
}

var SetOrganizations = newSyncAction(
	SliceOrganization, "set_organizations_type", "organizations", "setOrganizations",
	func(state OrganizationState, payload SetOrganizationsPayload) OrganizationState {
		next := state.clone()
		next.Organizations = append([]model.AclOrganization{}, payload.Organizations...)
		return next
	},
	func(root RootState) any { return root.Organization.Organizations },
)

var SetCurrentOrganization = newSyncAction(
	SliceOrganization, "set_current_organization_type", "currentOrganization", "setCurrentOrganization",
	func(state OrganizationState, payload SetCurrentOrganizationPayload) OrganizationState {
		next := state.clone()
		next.CurrentOrganization = nil
		if payload.CurrentOrganization != nil {
			org := *payload.CurrentOrganization
			next.CurrentOrganization = &org
		}
		return next
	},
	func(root RootState) any { return root.Organization.CurrentOrganization },
)
