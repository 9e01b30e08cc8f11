package model

// Capabilities the API grants on wrapped entities.
const (
	ActionView         = "view"
	ActionModify       = "modify"
	ActionDelete       = "delete"
	ActionPublish      = "publish"
	ActionCreateFolder = "create:folder"
	ActionCreateDoc    = "create:document"
)

// AclOrganization pairs an organization with the actions the current user may
// perform on it. Callers must check HasAction before offering an operation.
type AclOrganization struct {
	Model   Organization `json:"model"`
	Actions []string     `json:"actions"`
}

func (o AclOrganization) HasAction(action string) bool {
	return hasAction(o.Actions, action)
}

type AclFolder struct {
	Model   Folder   `json:"model"`
	Actions []string `json:"actions"`
}

func (f AclFolder) HasAction(action string) bool {
	return hasAction(f.Actions, action)
}

type AclDocument struct {
	Model   Document `json:"model"`
	Actions []string `json:"actions"`
}

func (d AclDocument) HasAction(action string) bool {
	return hasAction(d.Actions, action)
}

func hasAction(actions []string, action string) bool {
	for _, candidate := range actions {
		if candidate == action {
			return true
		}
	}
	return false
}
