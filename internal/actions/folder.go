package actions

import (
	"context"

	"mentordoc/client/internal/gateway"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/rbac"
	"mentordoc/client/internal/state"
)

type FetchFoldersRequest struct {
	model.Request

	OrganizationID string
	// ParentFolderID nil lists the organization root.
	ParentFolderID *string
}

type CreateFolderRequest struct {
	model.Request

	OrganizationID string
	ParentFolderID *string
	Name           string
}

type DeleteFolderRequest struct {
	model.Request

	FolderID string
}

func (c *Catalog) fetchFolders(ctx context.Context, api *state.API, req FetchFoldersRequest) error {
	folders, err := api.Gateway.ListFolders(ctx, req.OrganizationID, req.ParentFolderID)
	if err != nil {
		return err
	}
	api.Store.Dispatch(state.SetFolders.Action(state.FoldersPayload{Folders: folders}))
	return nil
}

func (c *Catalog) createFolder(ctx context.Context, api *state.API, req CreateFolderRequest) error {
	if err := checkContainer(api.Store.State(), req.OrganizationID, req.ParentFolderID, rbac.OpCreateFolder); err != nil {
		return err
	}

	folder, err := api.Gateway.CreateFolder(ctx, gateway.CreateFolderBody{
		OrganizationID: req.OrganizationID,
		ParentFolderID: req.ParentFolderID,
		Name:           req.Name,
	})
	if err != nil {
		return err
	}
	if folder == nil {
		return model.NewHTTPError("failed to create folder")
	}

	api.Store.Dispatch(state.SetFolders.Action(state.FoldersPayload{Folders: []model.AclFolder{*folder}}))
	c.FindParentAndUpdate(ctx, api, folder.Model.OrganizationID, folder.Model.ParentFolderID)
	return nil
}

func (c *Catalog) deleteFolder(ctx context.Context, api *state.API, req DeleteFolderRequest) error {
	if cached, ok := api.Store.State().Folder.FindFolder(req.FolderID); ok {
		if err := rbac.Check(cached, rbac.OpDelete, "folder"); err != nil {
			return err
		}
	}

	folder, err := api.Gateway.DeleteFolder(ctx, req.FolderID)
	if err != nil {
		return err
	}
	if folder == nil {
		return model.NewHTTPError("failed to delete folder")
	}

	api.Store.Dispatch(state.UnsetFolders.Action(state.FoldersPayload{Folders: []model.AclFolder{*folder}}))
	c.FindParentAndUpdate(ctx, api, folder.Model.OrganizationID, folder.Model.ParentFolderID)
	return nil
}

// FindParentAndUpdate refreshes the listing that contains parentFolderID so
// the parent's child count reflects a write beneath it. Nothing happens for
// writes at the organization root. An uncached parent is assumed to live at
// the root.
func (c *Catalog) FindParentAndUpdate(ctx context.Context, api *state.API, organizationID string, parentFolderID *string) {
	if parentFolderID == nil || *parentFolderID == "" {
		return
	}

	var grandparent *string
	if parent, ok := api.Store.State().Folder.FindFolder(*parentFolderID); ok {
		organizationID = parent.Model.OrganizationID
		grandparent = parent.Model.ParentFolderID
	}

	c.FetchFolders.Run(ctx, api, FetchFoldersRequest{
		OrganizationID: organizationID,
		ParentFolderID: grandparent,
	})
}

// checkContainer gates creating something inside a folder, or inside the
// organization root when parentFolderID is nil. Containers that are not
// cached are left to the API to judge.
func checkContainer(root state.RootState, organizationID string, parentFolderID *string, op rbac.Operation) error {
	if parentFolderID != nil && *parentFolderID != "" {
		if parent, ok := root.Folder.FindFolder(*parentFolderID); ok {
			return rbac.Check(parent, op, "folder")
		}
		return nil
	}
	if org := root.Organization.CurrentOrganization; org != nil && org.Model.ID == organizationID {
		return rbac.Check(*org, op, "organization")
	}
	return nil
}
