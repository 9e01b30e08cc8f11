package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"mentordoc/client/internal/model"
	"mentordoc/client/internal/rbac"
	"mentordoc/client/internal/state"
)

const pathSeparator = " / "

// RenderPath renders a breadcrumb such as "Acme / Handbook / Onboarding".
// Documents still in draft are marked.
func RenderPath(path model.DocumentPath) string {
	parts := make([]string, 0, len(path))
	for _, item := range path {
		switch item.Kind {
		case model.PathOrganization:
			parts = append(parts, item.Organization.Model.Name)
		case model.PathFolder:
			parts = append(parts, item.Folder.Model.Name)
		case model.PathDocument:
			name := item.Document.Model.Name()
			if item.Document.Model.IsDraft() {
				name += " (draft)"
			}
			parts = append(parts, name)
		default:
			panic(fmt.Sprintf("view: unknown path kind %q", item.Kind))
		}
	}
	return strings.Join(parts, pathSeparator)
}

// RenderTree writes the cached folders and documents of an organization as
// an indented tree. selected must carry the folder and document cache views
// under their selector keys.
func RenderTree(w io.Writer, selected state.SelectorMap, organizationID string) {
	folders := cacheMap[model.AclFolder](selected, state.SetFolders.SelectorKey())
	documents := cacheMap[model.AclDocument](selected, state.SetDocuments.SelectorKey())
	renderLevel(w, folders, documents, organizationID, nil, 0)
}

func renderLevel(w io.Writer, folders map[string][]model.AclFolder, documents map[string][]model.AclDocument, organizationID string, parentID *string, depth int) {
	key := state.CompositeKey(organizationID, parentID)
	indent := strings.Repeat("  ", depth)

	for _, folder := range folders[key] {
		fmt.Fprintf(w, "%s%s/ (%d)\n", indent, folder.Model.Name, folder.Model.ChildCount)
		id := folder.Model.ID
		renderLevel(w, folders, documents, organizationID, &id, depth+1)
	}
	for _, doc := range documents[key] {
		marker := ""
		if doc.Model.IsDraft() {
			marker = " (draft)"
		}
		fmt.Fprintf(w, "%s%s%s\n", indent, doc.Model.Name(), marker)
	}
}

func cacheMap[T any](selected state.SelectorMap, key string) map[string][]T {
	view, ok := selected[key].(state.CacheView[T])
	if !ok {
		return nil
	}
	entries, _ := view.ByKey(state.LookupMap).(map[string][]T)
	return entries
}

// RenderOrganizations writes the organization list as a table, marking the
// current one.
func RenderOrganizations(w io.Writer, orgs []model.AclOrganization, current *model.AclOrganization) {
	table := newTable(w, []string{"", "ID", "NAME", "ALLOWED"})
	for _, org := range orgs {
		mark := ""
		if current != nil && current.Model.ID == org.Model.ID {
			mark = "*"
		}
		table.Append([]string{mark, org.Model.ID, org.Model.Name, allowed(org)})
	}
	table.Render()
}

func RenderFolders(w io.Writer, folders []model.AclFolder) {
	table := newTable(w, []string{"ID", "NAME", "CHILDREN", "ALLOWED"})
	for _, folder := range folders {
		table.Append([]string{folder.Model.ID, folder.Model.Name, fmt.Sprint(folder.Model.ChildCount), allowed(folder)})
	}
	table.Render()
}

func RenderDocuments(w io.Writer, docs []model.AclDocument) {
	table := newTable(w, []string{"ID", "NAME", "STATUS", "ALLOWED"})
	for _, doc := range docs {
		table.Append([]string{doc.Model.ID, doc.Model.Name(), documentStatus(doc.Model), allowed(doc)})
	}
	table.Render()
}

// RenderDocument writes the current draft of doc with its content.
func RenderDocument(w io.Writer, doc model.AclDocument) {
	fmt.Fprintf(w, "%s [%s]\n", doc.Model.Name(), documentStatus(doc.Model))
	if len(doc.Model.Drafts) == 0 {
		return
	}
	draft := doc.Model.Drafts[0]
	fmt.Fprintf(w, "draft %s\n\n", draft.ID)
	if draft.Content != nil {
		fmt.Fprintln(w, draft.Content.Content)
	}
}

func documentStatus(doc model.Document) string {
	switch {
	case len(doc.Drafts) == 0:
		return "empty"
	case doc.Drafts[0].RetractedAt != nil:
		return "retracted"
	case doc.IsDraft():
		return "draft"
	default:
		return "published"
	}
}

func allowed(g rbac.Grants) string {
	ops := rbac.Allowed(g)
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, string(op))
	}
	return strings.Join(names, ", ")
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return table
}
