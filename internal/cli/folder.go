package cli

import (
	"github.com/spf13/cobra"

	"mentordoc/client/internal/actions"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/state"
	"mentordoc/client/internal/view"
)

func newFoldersCmd(env *environment) *cobra.Command {
	var orgID, parent string
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List the folders of the organization root or of --parent",
		Args:  cobra.NoArgs,
		RunE: env.withSession(func(s *session, _ []string) error {
			org, err := s.organization(orgID)
			if err != nil {
				return err
			}
			parentID := model.StringPtr(parent)
			if err := run(s, s.client.Actions.FetchFolders, actions.FetchFoldersRequest{Request: request(), OrganizationID: org, ParentFolderID: parentID}); err != nil {
				return err
			}
			view.RenderFolders(s.out, s.state().Folder.View().Child(org, parentID))
			return nil
		}),
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id (defaults to the current organization)")
	cmd.Flags().StringVar(&parent, "parent", "", "parent folder id")
	return cmd
}

func newMkdirCmd(env *environment) *cobra.Command {
	var orgID, parent string
	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			org, err := s.organization(orgID)
			if err != nil {
				return err
			}
			parentID := model.StringPtr(parent)
			if parentID != nil {
				// the parent's capabilities come from its listing
				grandparent := parentOf(s, *parentID)
				if err := run(s, s.client.Actions.FetchFolders, actions.FetchFoldersRequest{Request: request(), OrganizationID: org, ParentFolderID: grandparent}); err != nil {
					return err
				}
			}
			err = run(s, s.client.Actions.CreateFolder, actions.CreateFolderRequest{
				Request:        request(),
				OrganizationID: org,
				ParentFolderID: parentID,
				Name:           args[0],
			})
			if err != nil {
				return err
			}
			s.success("created folder %s", args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id (defaults to the current organization)")
	cmd.Flags().StringVar(&parent, "parent", "", "parent folder id")
	return cmd
}

func newRmdirCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <folder-id>",
		Short: "Delete a folder",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			if err := run(s, s.client.Actions.DeleteFolder, actions.DeleteFolderRequest{Request: request(), FolderID: args[0]}); err != nil {
				return err
			}
			s.success("deleted folder %s", args[0])
			return nil
		}),
	}
}

func newTreeCmd(env *environment) *cobra.Command {
	var orgID string
	var depth int
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show folders and documents as a tree",
		Args:  cobra.NoArgs,
		RunE: env.withSession(func(s *session, _ []string) error {
			org, err := s.organization(orgID)
			if err != nil {
				return err
			}
			if err := loadLevel(s, org, nil, depth); err != nil {
				return err
			}
			props := view.Connect(s.client.API,
				[]state.Selector{state.SetFolders.Selector, state.SetDocuments.Selector},
				nil,
			)
			view.RenderTree(s.out, props.Select(), org)
			return nil
		}),
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id (defaults to the current organization)")
	cmd.Flags().IntVar(&depth, "depth", 3, "how many folder levels to load")
	return cmd
}

// loadLevel fetches the folders and documents under parentID, then descends
// into each folder until depth runs out.
func loadLevel(s *session, org string, parentID *string, depth int) error {
	if depth <= 0 {
		return nil
	}
	if err := run(s, s.client.Actions.FetchFolders, actions.FetchFoldersRequest{Request: request(), OrganizationID: org, ParentFolderID: parentID}); err != nil {
		return err
	}
	if err := run(s, s.client.Actions.FetchDocuments, actions.FetchDocumentsRequest{Request: request(), OrganizationID: org, FolderID: parentID}); err != nil {
		return err
	}
	for _, folder := range s.state().Folder.View().Child(org, parentID) {
		id := folder.Model.ID
		if err := loadLevel(s, org, &id, depth-1); err != nil {
			return err
		}
	}
	return nil
}

func parentOf(s *session, folderID string) *string {
	if folder, ok := s.state().Folder.FindFolder(folderID); ok {
		return folder.Model.ParentFolderID
	}
	return nil
}
