// Package model holds the entities exchanged with the mentordoc API and kept in
// client state. Timestamps are unix milliseconds, as the API sends them.
package model

type Entity struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	DeletedAt *int64 `json:"deletedAt"`
}

type Organization struct {
	Entity

	Name string `json:"name"`
}

type Folder struct {
	Entity

	Name           string  `json:"name"`
	OrganizationID string  `json:"organizationId"`
	ParentFolderID *string `json:"parentFolderId"`
	ChildCount     int     `json:"childCount"`
}

type Document struct {
	Entity

	OrganizationID string          `json:"organizationId"`
	FolderID       *string         `json:"folderId"`
	Drafts         []DocumentDraft `json:"drafts"`
}

// IsDraft reports whether the document's current draft has not been published.
func (d Document) IsDraft() bool {
	if len(d.Drafts) == 0 {
		return false
	}
	return d.Drafts[0].PublishedAt == nil
}

// Name returns the name of the current draft, or "" for a document without drafts.
func (d Document) Name() string {
	if len(d.Drafts) == 0 {
		return ""
	}
	return d.Drafts[0].Name
}

type DocumentDraft struct {
	Entity

	DocumentID  string           `json:"documentId"`
	Name        string           `json:"name"`
	CreatorID   string           `json:"creatorId,omitempty"`
	PublishedAt *int64           `json:"publishedAt"`
	RetractedAt *int64           `json:"retractedAt"`
	Content     *DocumentContent `json:"content,omitempty"`
}

type DocumentContent struct {
	Entity

	DocumentID string `json:"documentId"`
	Content    string `json:"content"`
}

type User struct {
	Entity

	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type AuthenticationData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// StringPtr returns nil for "" so optional parent ids round-trip as JSON null.
func StringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// StringValue dereferences an optional id, treating nil as "".
func StringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
