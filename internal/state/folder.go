package state

import "mentordoc/client/internal/model"

type FoldersPayload struct {
	Folders []model.AclFolder
}

// SetFolders inserts each folder under the key of its parent, replacing a
// cached folder with the same id.
var SetFolders = newSyncAction(
	SliceFolder, "set_folders_type", "getFolders", "setFolders",
	func(state FolderState, payload FoldersPayload) FolderState {
		next := state.clone()
		upsertEntries(next.FolderMap, payload.Folders, folderKey, folderID)
		return next
	},
	func(root RootState) any { return root.Folder.View() },
)

var UnsetFolders = newSyncAction(
	SliceFolder, "unset_folders_type", "unsetFolders", "unsetFolders",
	func(state FolderState, payload FoldersPayload) FolderState {
		next := state.clone()
		removeEntries(next.FolderMap, payload.Folders, folderKey, folderID)
		return next
	},
	nil,
)

func (s FolderState) View() CacheView[model.AclFolder] {
	return CacheView[model.AclFolder]{entries: s.FolderMap}
}

// FindFolder searches the whole cache for a folder by id.
func (s FolderState) FindFolder(id string) (model.AclFolder, bool) {
	for _, list := range s.FolderMap {
		for _, folder := range list {
			if folder.Model.ID == id {
				return folder, true
			}
		}
	}
	return model.AclFolder{}, false
}
