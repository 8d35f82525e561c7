package core

import (
	"errors"
	"fmt"
)

// Action is the kind of operation an audit event describes.
type Action string

const (
	ActionCreate   Action = "CREATE"
	ActionUpdate   Action = "UPDATE"
	ActionDelete   Action = "DELETE"
	ActionUpload   Action = "UPLOAD"
	ActionDownload Action = "DOWNLOAD"
	ActionLogin    Action = "LOGIN"
	ActionLogout   Action = "LOGOUT"
)

// Entity is the kind of row an audit event refers to.
type Entity string

const (
	EntityProduct  Entity = "PRODUCT"
	EntityDocument Entity = "DOCUMENT"
	EntityUser     Entity = "USER"
)

// ErrInvalidEnumValue is matched by every *InvalidEnumValueError.
var ErrInvalidEnumValue = errors.New("invalid enum value")

// InvalidEnumValueError reports a tag outside its closed set.
type InvalidEnumValueError struct {
	Kind  string
	Value string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
}

func (e *InvalidEnumValueError) Is(target error) bool {
	return target == ErrInvalidEnumValue
}

// Actions lists every action in declaration order.
func Actions() []Action {
	return []Action{
		ActionCreate, ActionUpdate, ActionDelete, ActionUpload,
		ActionDownload, ActionLogin, ActionLogout,
	}
}

// Entities lists every entity in declaration order.
func Entities() []Entity {
	return []Entity{EntityProduct, EntityDocument, EntityUser}
}

// Validate returns an *InvalidEnumValueError when a is not a known action.
func (a Action) Validate() error {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionUpload,
		ActionDownload, ActionLogin, ActionLogout:
		return nil
	}
	return &InvalidEnumValueError{Kind: "action", Value: string(a)}
}

// Validate returns an *InvalidEnumValueError when e is not a known entity.
func (e Entity) Validate() error {
	switch e {
	case EntityProduct, EntityDocument, EntityUser:
		return nil
	}
	return &InvalidEnumValueError{Kind: "entity", Value: string(e)}
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

func ParseEntity(s string) (Entity, error) {
	e := Entity(s)
	if err := e.Validate(); err != nil {
		return "", err
	}
	return e, nil
}
