package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mentordoc/client/internal/actions"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/view"
)

func newDocsCmd(env *environment) *cobra.Command {
	var orgID, folder string
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List the documents of the organization root or of --folder",
		Args:  cobra.NoArgs,
		RunE: env.withSession(func(s *session, _ []string) error {
			org, err := s.organization(orgID)
			if err != nil {
				return err
			}
			folderID := model.StringPtr(folder)
			if err := run(s, s.client.Actions.FetchDocuments, actions.FetchDocumentsRequest{Request: request(), OrganizationID: org, FolderID: folderID}); err != nil {
				return err
			}
			view.RenderDocuments(s.out, s.state().Document.View().Child(org, folderID))
			return nil
		}),
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id (defaults to the current organization)")
	cmd.Flags().StringVar(&folder, "folder", "", "folder id")
	return cmd
}

// loadDocument fetches the full document, which carries its current draft
// and the capabilities of the signed-in user.
func loadDocument(s *session, id string) (model.AclDocument, error) {
	if err := run(s, s.client.Actions.FetchFullDocument, actions.FetchFullDocumentRequest{Request: request(), DocumentID: id}); err != nil {
		return model.AclDocument{}, err
	}
	doc := s.state().Document.FullDocument
	if doc == nil {
		return model.AclDocument{}, fmt.Errorf("document %q not found", id)
	}
	return *doc, nil
}

func currentDraftID(doc model.AclDocument) (string, error) {
	if len(doc.Model.Drafts) == 0 {
		return "", errors.New("document has no draft")
	}
	return doc.Model.Drafts[0].ID, nil
}

func newShowCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "show <document-id>",
		Short: "Print a document's current draft",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			doc, err := loadDocument(s, args[0])
			if err != nil {
				return err
			}
			if err := run(s, s.client.Actions.FetchDocumentPath, actions.FetchDocumentPathRequest{Request: request(), DocumentID: args[0]}); err == nil {
				if path := s.state().Document.DocumentPath; len(path) > 0 {
					fmt.Fprintln(s.out, view.RenderPath(path))
				}
			}
			view.RenderDocument(s.out, doc)
			return nil
		}),
	}
}

func newCreateCmd(env *environment) *cobra.Command {
	var orgID, folder, content, file string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a document",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			org, err := s.organization(orgID)
			if err != nil {
				return err
			}
			body, _, err := s.readContent(content, file)
			if err != nil {
				return err
			}
			err = run(s, s.client.Actions.CreateDocument, actions.CreateDocumentRequest{
				Request:        request(),
				OrganizationID: org,
				FolderID:       model.StringPtr(folder),
				Name:           args[0],
				Content:        body,
			})
			if err != nil {
				return err
			}
			s.success("created document %s", args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id (defaults to the current organization)")
	cmd.Flags().StringVar(&folder, "folder", "", "folder id")
	cmd.Flags().StringVar(&content, "content", "", "document content")
	cmd.Flags().StringVar(&file, "file", "", "read content from a file, - for stdin")
	return cmd
}

func newEditCmd(env *environment) *cobra.Command {
	var name, content, file string
	cmd := &cobra.Command{
		Use:   "edit <document-id>",
		Short: "Rename a document or replace the content of its current draft",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			body, hasBody, err := s.readContent(content, file)
			if err != nil {
				return err
			}
			req := actions.UpdateDocumentRequest{Request: request(), DocumentID: args[0], Name: model.StringPtr(name)}
			if hasBody {
				req.Content = &body
			}
			if req.Name == nil && req.Content == nil {
				return errors.New("nothing to change: pass --name, --content or --file")
			}
			return updateDocument(s, req, "updated")
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringVar(&file, "file", "", "read content from a file, - for stdin")
	return cmd
}

func newPublishCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <document-id>",
		Short: "Publish a document's current draft",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			return updateDocument(s, actions.UpdateDocumentRequest{Request: request(), DocumentID: args[0], ShouldPublish: true}, "published")
		}),
	}
}

func newRetractCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "retract <document-id>",
		Short: "Retract a document's published draft",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			return updateDocument(s, actions.UpdateDocumentRequest{Request: request(), DocumentID: args[0], ShouldRetract: true}, "retracted")
		}),
	}
}

// updateDocument fills in the current draft id and applies req.
func updateDocument(s *session, req actions.UpdateDocumentRequest, verb string) error {
	doc, err := loadDocument(s, req.DocumentID)
	if err != nil {
		return err
	}
	if req.DraftID, err = currentDraftID(doc); err != nil {
		return err
	}
	if err := run(s, s.client.Actions.UpdateDocument, req); err != nil {
		return err
	}
	s.success("%s %s", verb, s.state().Document.FullDocument.Model.Name())
	return nil
}

func newDraftCmd(env *environment) *cobra.Command {
	var name, content, file string
	cmd := &cobra.Command{
		Use:   "draft <document-id>",
		Short: "Start a new draft of a document",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			doc, err := loadDocument(s, args[0])
			if err != nil {
				return err
			}
			body, hasBody, err := s.readContent(content, file)
			if err != nil {
				return err
			}
			if name == "" {
				name = doc.Model.Name()
			}
			if !hasBody && len(doc.Model.Drafts) > 0 && doc.Model.Drafts[0].Content != nil {
				body = doc.Model.Drafts[0].Content.Content
			}
			err = run(s, s.client.Actions.CreateDocumentDraft, actions.CreateDocumentDraftRequest{
				Request:    request(),
				DocumentID: args[0],
				Name:       name,
				Content:    body,
			})
			if err != nil {
				return err
			}
			s.success("started a new draft of %s", name)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "draft name (defaults to the current name)")
	cmd.Flags().StringVar(&content, "content", "", "draft content (defaults to the current content)")
	cmd.Flags().StringVar(&file, "file", "", "read content from a file, - for stdin")
	return cmd
}

func newRmCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <document-id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			if err := run(s, s.client.Actions.DeleteDocument, actions.DeleteDocumentRequest{Request: request(), DocumentID: args[0]}); err != nil {
				return err
			}
			s.success("deleted document %s", args[0])
			return nil
		}),
	}
}

func newSearchCmd(env *environment) *cobra.Command {
	var orgID string
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			req := actions.SearchDocumentsRequest{Request: request(), SearchQuery: strings.Join(args, " "), OrganizationID: orgID}
			if err := run(s, s.client.Actions.SearchDocuments, req); err != nil {
				return err
			}
			results := s.state().Document.SearchDocuments
			if len(results) == 0 {
				fmt.Fprintln(s.errOut, "no documents found")
				return nil
			}
			view.RenderDocuments(s.out, results)
			return nil
		}),
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id (defaults to the current organization)")
	return cmd
}

func newPathCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "path <document-id>",
		Short: "Show where a document lives",
		Args:  cobra.ExactArgs(1),
		RunE: env.withSession(func(s *session, args []string) error {
			if err := run(s, s.client.Actions.FetchDocumentPath, actions.FetchDocumentPathRequest{Request: request(), DocumentID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintln(s.out, view.RenderPath(s.state().Document.DocumentPath))
			return nil
		}),
	}
}
