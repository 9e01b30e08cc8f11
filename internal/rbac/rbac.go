// Package rbac maps client operations onto the capabilities the API attaches
// to every entity it returns. The API remains the authority; these checks
// only keep the client from offering what would be refused.
package rbac

import (
	"fmt"

	"mentordoc/client/internal/model"
)

// Grants is any wrapped entity carrying capabilities.
type Grants interface {
	HasAction(action string) bool
}

type Operation string

const (
	OpView           Operation = "view"
	OpEdit           Operation = "edit"
	OpPublish        Operation = "publish"
	OpRetract        Operation = "retract"
	OpDelete         Operation = "delete"
	OpCreateFolder   Operation = "create folder"
	OpCreateDocument Operation = "create document"
)

// Operations lists every operation in display order.
var Operations = []Operation{OpView, OpEdit, OpPublish, OpRetract, OpDelete, OpCreateFolder, OpCreateDocument}

// Required returns the capability op needs, or "" for unknown operations.
func Required(op Operation) string {
	switch op {
	case OpView:
		return model.ActionView
	case OpEdit:
		return model.ActionModify
	case OpPublish, OpRetract:
		return model.ActionPublish
	case OpDelete:
		return model.ActionDelete
	case OpCreateFolder:
		return model.ActionCreateFolder
	case OpCreateDocument:
		return model.ActionCreateDoc
	default:
		return ""
	}
}

func Can(g Grants, op Operation) bool {
	required := Required(op)
	if required == "" || g == nil {
		return false
	}
	return g.HasAction(required)
}

// Check returns a displayable error when op is not granted on g. noun names
// the entity in the message ("folder", "document").
func Check(g Grants, op Operation, noun string) error {
	if Can(g, op) {
		return nil
	}
	return model.NewHTTPError(fmt.Sprintf("you are not allowed to %s this %s", op, noun))
}

// Allowed lists the operations granted on g.
func Allowed(g Grants) []Operation {
	var ops []Operation
	for _, op := range Operations {
		if Can(g, op) {
			ops = append(ops, op)
		}
	}
	return ops
}
