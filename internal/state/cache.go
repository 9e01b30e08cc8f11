package state

import "mentordoc/client/internal/model"

// keySeparator joins an organization id and a parent id in cache keys. The
// write path and the read path both go through CompositeKey.
const keySeparator = ":"

// CompositeKey locates a list in the normalized cache: the organization's
// root level, or the children of one parent within it.
func CompositeKey(organizationID string, parentID *string) string {
	if parentID == nil || *parentID == "" {
		return organizationID
	}
	return organizationID + keySeparator + *parentID
}

// LookupKind selects what a cache selector returns.
type LookupKind string

const (
	LookupMap   LookupKind = "map"
	LookupChild LookupKind = "child"
)

// CacheView is the read side of a normalized entity cache.
type CacheView[T any] struct {
	entries map[string][]T
}

// Map returns the whole cache keyed by composite key. Callers must not modify it.
func (v CacheView[T]) Map() map[string][]T {
	return v.entries
}

// Child returns the entries stored under (organizationID, parentID).
func (v CacheView[T]) Child(organizationID string, parentID *string) []T {
	return v.entries[CompositeKey(organizationID, parentID)]
}

// ByKey is the string-keyed form used by connected views: "map" yields
// Map, "child" yields the Child function. Any other key yields nil.
func (v CacheView[T]) ByKey(kind LookupKind) any {
	switch kind {
	case LookupMap:
		return v.Map()
	case LookupChild:
		return v.Child
	default:
		return nil
	}
}

func cloneEntries[T any](entries map[string][]T) map[string][]T {
	next := make(map[string][]T, len(entries))
	for key, list := range entries {
		next[key] = append([]T{}, list...)
	}
	return next
}

// upsertEntries stores items in the already-cloned entries map, replacing
// an entry with the same id under the same key or appending otherwise.
func upsertEntries[T any](entries map[string][]T, items []T, keyOf func(T) string, idOf func(T) string) {
	for _, item := range items {
		key := keyOf(item)
		list := entries[key]
		replaced := false
		for i := range list {
			if idOf(list[i]) == idOf(item) {
				list[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, item)
		}
		entries[key] = list
	}
}

// removeEntries drops the first entry matching each item's id under its key.
// Items that are not cached are ignored.
func removeEntries[T any](entries map[string][]T, items []T, keyOf func(T) string, idOf func(T) string) {
	for _, item := range items {
		key := keyOf(item)
		list, ok := entries[key]
		if !ok {
			continue
		}
		for i := range list {
			if idOf(list[i]) == idOf(item) {
				entries[key] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

func folderKey(folder model.AclFolder) string {
	return CompositeKey(folder.Model.OrganizationID, folder.Model.ParentFolderID)
}

func folderID(folder model.AclFolder) string {
	return folder.Model.ID
}

func documentKey(doc model.AclDocument) string {
	return CompositeKey(doc.Model.OrganizationID, doc.Model.FolderID)
}

func documentID(doc model.AclDocument) string {
	return doc.Model.ID
}
