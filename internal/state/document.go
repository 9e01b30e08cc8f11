package state

import "mentordoc/client/internal/model"

type DocumentsPayload struct {
	Documents []model.AclDocument
}

type SetFullDocumentPayload struct {
	FullDocument *model.AclDocument
}

type SetSearchDocumentsPayload struct {
	// SearchDocuments nil means no search is active.
	SearchDocuments []model.AclDocument
}

type SetDocumentPathPayload struct {
	DocumentPath model.DocumentPath
}

var SetDocuments = newSyncAction(
	SliceDocument, "set_documents_type", "getDocuments", "setDocuments",
	func(state DocumentState, payload DocumentsPayload) DocumentState {
		next := state.clone()
		upsertEntries(next.DocumentMap, payload.Documents, documentKey, documentID)
		return next
	},
	func(root RootState) any { return root.Document.View() },
)

var UnsetDocuments = newSyncAction(
	SliceDocument, "unset_documents_type", "unsetDocuments", "unsetDocuments",
	func(state DocumentState, payload DocumentsPayload) DocumentState {
		next := state.clone()
		removeEntries(next.DocumentMap, payload.Documents, documentKey, documentID)
		return next
	},
	nil,
)

var SetFullDocument = newSyncAction(
	SliceDocument, "set_full_document_type", "fullDocument", "setFullDocument",
	func(state DocumentState, payload SetFullDocumentPayload) DocumentState {
		next := state.clone()
		next.FullDocument = nil
		if payload.FullDocument != nil {
			doc := *payload.FullDocument
			next.FullDocument = &doc
		}
		return next
	},
	func(root RootState) any { return root.Document.FullDocument },
)

var SetSearchDocuments = newSyncAction(
	SliceDocument, "set_search_documents_type", "searchDocuments", "setSearchDocuments",
	func(state DocumentState, payload SetSearchDocumentsPayload) DocumentState {
		next := state.clone()
		next.SearchDocuments = nil
		if payload.SearchDocuments != nil {
			next.SearchDocuments = append([]model.AclDocument{}, payload.SearchDocuments...)
		}
		return next
	},
	func(root RootState) any { return root.Document.SearchDocuments },
)

var SetDocumentPath = newSyncAction(
	SliceDocument, "set_document_path_type", "documentPath", "setDocumentPath",
	func(state DocumentState, payload SetDocumentPathPayload) DocumentState {
		next := state.clone()
		next.DocumentPath = nil
		if payload.DocumentPath != nil {
			next.DocumentPath = append(model.DocumentPath{}, payload.DocumentPath...)
		}
		return next
	},
	func(root RootState) any { return root.Document.DocumentPath },
)

func (s DocumentState) View() CacheView[model.AclDocument] {
	return CacheView[model.AclDocument]{entries: s.DocumentMap}
}
