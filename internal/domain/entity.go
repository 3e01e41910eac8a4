package domain

import (
	"fmt"
	"net/http"
	"strings"
)

// Kind is the closed set of endpoint groups the API exposes. The zero value is
// invalid and Kind values cannot be built outside this package.
type Kind struct {
	name string
}

var (
	KindEmployee   = Kind{name: "employee"}
	KindProject    = Kind{name: "project"}
	KindAllocation = Kind{name: "allocation"}
	// KindGeneric is the root-level group (login, details, registration).
	KindGeneric = Kind{name: "generic"}
)

// Kinds lists the record kinds, in display order.
func Kinds() []Kind {
	return []Kind{KindEmployee, KindProject, KindAllocation}
}

// ParseKind maps a user-supplied name to a record kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employee", "employees", "emp":
		return KindEmployee, nil
	case "project", "projects", "proj":
		return KindProject, nil
	case "allocation", "allocations", "alloc":
		return KindAllocation, nil
	}
	return Kind{}, fmt.Errorf("unknown entity kind %q", s)
}

func (k Kind) String() string { return k.name }

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindEmployee, KindProject, KindAllocation, KindGeneric:
		return true
	}
	return false
}

// PathSegment is the URL segment that prefixes every action of the group.
func (k Kind) PathSegment() string {
	if k == KindGeneric {
		return ""
	}
	return k.name
}

// Title is the capitalised display name used in user messages.
func (k Kind) Title() string {
	if k.name == "" {
		return ""
	}
	return strings.ToUpper(k.name[:1]) + k.name[1:]
}

// Action is one remote operation. Each action has a fixed verb and either
// requires a qualifier path segment or forbids one.
type Action struct {
	name      string
	method    string
	qualified bool
}

func (a Action) String() string { return a.name }

func (a Action) Method() string { return a.method }

func (a Action) NeedsQualifier() bool { return a.qualified }

var (
	GetAll         = Action{"getAll", http.MethodGet, false}
	GetAllActive   = Action{"getAllActive", http.MethodGet, false}
	GetByID        = Action{"getById", http.MethodGet, true}
	GetByName      = Action{"getByName", http.MethodGet, true}
	GetAllByName   = Action{"getAllByName", http.MethodGet, true}
	GetNames       = Action{"getNames", http.MethodGet, true}
	GetIDs         = Action{"getIds", http.MethodGet, true}
	GetAllNames    = Action{"getAllNames", http.MethodGet, false}
	GetNameByEmail = Action{"getNameByEmail", http.MethodGet, true}
	GetRoles       = Action{"getRoles", http.MethodGet, false}
	Add            = Action{"add", http.MethodPost, false}
	UpdateID       = Action{"updateId", http.MethodPut, true}
	UpdateName     = Action{"updateName", http.MethodPut, true}
	DeleteAll      = Action{"deleteAll", http.MethodDelete, false}
	DeleteID       = Action{"deleteId", http.MethodDelete, true}
	DeleteName     = Action{"deleteName", http.MethodDelete, true}
	DownloadExcel  = Action{"downloadExcel", http.MethodGet, false}

	GetByEmpName          = Action{"getByEmpName", http.MethodGet, true}
	GetByProjName         = Action{"getByProjName", http.MethodGet, true}
	GetByEmpID            = Action{"getByEmpId", http.MethodGet, true}
	GetByProjID           = Action{"getByProjId", http.MethodGet, true}
	GetEmpIDByName        = Action{"getEmpIdByName", http.MethodGet, true}
	GetProjIDByName       = Action{"getProjIdByName", http.MethodGet, true}
	GetAllocDelByEmpName  = Action{"getAllocDelByEmpName", http.MethodGet, true}
	GetAllocDelByProjName = Action{"getAllocDelByProjName", http.MethodGet, true}
	DeleteEmpID           = Action{"deleteEmpId", http.MethodDelete, true}
	DeleteProjID          = Action{"deleteProjId", http.MethodDelete, true}

	Login               = Action{"login", http.MethodPost, false}
	Logout              = Action{"logout", http.MethodGet, false}
	Details             = Action{"details", http.MethodGet, false}
	Register            = Action{"register", http.MethodPost, false}
	RegisterWithDetails = Action{"registerWithDetails", http.MethodPost, false}
	UpdatePassword      = Action{"updatePassword", http.MethodPost, false}
	GetIsAdmin          = Action{"getIsAdmin", http.MethodGet, true}
	GetEmpIDByEmail     = Action{"getEmpIdByEmail", http.MethodGet, true}
)

var recordActions = []Action{
	GetAll, GetAllActive, GetByID, GetByName, GetAllByName, GetNames, GetIDs,
	Add, UpdateID, UpdateName, DeleteAll, DeleteID, DeleteName, DownloadExcel,
}

var actionTable = map[Kind][]Action{
	KindEmployee: append([]Action{GetAllNames, GetNameByEmail, GetRoles}, recordActions...),
	KindProject:  recordActions,
	KindAllocation: append([]Action{
		GetByEmpName, GetByProjName, GetByEmpID, GetByProjID,
		GetEmpIDByName, GetProjIDByName,
		GetAllocDelByEmpName, GetAllocDelByProjName,
		DeleteEmpID, DeleteProjID,
	}, recordActions...),
	KindGeneric: {
		Login, Logout, Details, Register, RegisterWithDetails,
		UpdatePassword, GetIsAdmin, GetEmpIDByEmail,
	},
}

// Supports reports whether the group k exposes action a.
func (k Kind) Supports(a Action) bool {
	for _, candidate := range actionTable[k] {
		if candidate == a {
			return true
		}
	}
	return false
}

// Actions returns the action table of k.
func (k Kind) Actions() []Action {
	out := make([]Action, len(actionTable[k]))
	copy(out, actionTable[k])
	return out
}
