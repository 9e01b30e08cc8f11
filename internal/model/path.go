package model

import (
	"encoding/json"
	"fmt"
)

type PathKind string

const (
	PathOrganization PathKind = "organization"
	PathFolder       PathKind = "folder"
	PathDocument     PathKind = "document"
)

// PathItem is one step on the way from an organization down to a document.
// Exactly one of the pointers is set, selected by Kind.
type PathItem struct {
	Kind         PathKind
	Organization *AclOrganization
	Folder       *AclFolder
	Document     *AclDocument
}

// DocumentPath lists the ancestors of a document, root first, ending with the document.
type DocumentPath []PathItem

func OrganizationItem(org AclOrganization) PathItem {
	return PathItem{Kind: PathOrganization, Organization: &org}
}

func FolderItem(folder AclFolder) PathItem {
	return PathItem{Kind: PathFolder, Folder: &folder}
}

func DocumentItem(doc AclDocument) PathItem {
	return PathItem{Kind: PathDocument, Document: &doc}
}

func (p PathItem) ID() string {
	switch p.Kind {
	case PathOrganization:
		return p.Organization.Model.ID
	case PathFolder:
		return p.Folder.Model.ID
	case PathDocument:
		return p.Document.Model.ID
	default:
		panic(fmt.Sprintf("model: unknown path kind %q", p.Kind))
	}
}

// Name is the display name of the step; documents use their current draft's name.
func (p PathItem) Name() string {
	switch p.Kind {
	case PathOrganization:
		return p.Organization.Model.Name
	case PathFolder:
		return p.Folder.Model.Name
	case PathDocument:
		return p.Document.Model.Name()
	default:
		panic(fmt.Sprintf("model: unknown path kind %q", p.Kind))
	}
}

type taggedPathItem struct {
	Type PathKind        `json:"type"`
	Item json.RawMessage `json:"item"`
}

func (p PathItem) MarshalJSON() ([]byte, error) {
	var item any
	switch p.Kind {
	case PathOrganization:
		item = p.Organization
	case PathFolder:
		item = p.Folder
	case PathDocument:
		item = p.Document
	default:
		return nil, fmt.Errorf("marshal path item: unknown kind %q", p.Kind)
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(taggedPathItem{Type: p.Kind, Item: raw})
}

// UnmarshalJSON accepts the tagged form written by MarshalJSON as well as the
// untagged ACL wrappers the API returns, which are told apart by their fields.
func (p *PathItem) UnmarshalJSON(data []byte) error {
	var tagged taggedPathItem
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("unmarshal path item: %w", err)
	}
	kind, raw := tagged.Type, []byte(tagged.Item)
	if kind == "" {
		detected, err := detectPathKind(data)
		if err != nil {
			return err
		}
		kind, raw = detected, data
	}

	switch kind {
	case PathOrganization:
		var org AclOrganization
		if err := json.Unmarshal(raw, &org); err != nil {
			return fmt.Errorf("unmarshal organization path item: %w", err)
		}
		*p = OrganizationItem(org)
	case PathFolder:
		var folder AclFolder
		if err := json.Unmarshal(raw, &folder); err != nil {
			return fmt.Errorf("unmarshal folder path item: %w", err)
		}
		*p = FolderItem(folder)
	case PathDocument:
		var doc AclDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("unmarshal document path item: %w", err)
		}
		*p = DocumentItem(doc)
	default:
		return fmt.Errorf("unmarshal path item: unknown kind %q", kind)
	}
	return nil
}

func detectPathKind(data []byte) (PathKind, error) {
	var peek struct {
		Model map[string]json.RawMessage `json:"model"`
	}
	if err := json.Unmarshal(data, &peek); err != nil {
		return "", fmt.Errorf("unmarshal path item: %w", err)
	}
	if peek.Model == nil {
		return "", fmt.Errorf("unmarshal path item: missing model")
	}
	if _, ok := peek.Model["drafts"]; ok {
		return PathDocument, nil
	}
	if _, ok := peek.Model["childCount"]; ok {
		return PathFolder, nil
	}
	if _, ok := peek.Model["parentFolderId"]; ok {
		return PathFolder, nil
	}
	return PathOrganization, nil
}
