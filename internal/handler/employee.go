package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/security/middleware"
	"github.com/aryan0dhankhar/allocdesk/internal/service"
)

// EmployeeHandler serves /employee/*
type EmployeeHandler struct {
	employees *service.EmployeeService
	export    *service.ExportService
	logger    *slog.Logger
}

func NewEmployeeHandler(employees *service.EmployeeService, export *service.ExportService, logger *slog.Logger) *EmployeeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeHandler{employees: employees, export: export, logger: logger}
}

func (h *EmployeeHandler) Routes() Routes {
	return Routes{
		domain.GetAll:       h.list(false),
		domain.GetAllActive: h.list(true),
		domain.GetByID:      h.getByID,
		domain.GetByName:    h.getByName,
		domain.GetAllByName: h.getAllByName,
		domain.GetNames:     h.names(func(r domain.NameRef) any { return r.Name }),
		domain.GetIDs:       h.names(func(r domain.NameRef) any { return r.ID }),
		domain.GetAllNames: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, h.employees.AllNames())
		},
		domain.GetNameByEmail: h.nameByEmail,
		domain.GetRoles: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, h.employees.Roles())
		},
		domain.Add:           h.add,
		domain.UpdateID:      h.updateByID,
		domain.UpdateName:    h.updateByName,
		domain.DeleteAll:     h.deleteAll,
		domain.DeleteID:      h.deleteByID,
		domain.DeleteName:    h.deleteByName,
		domain.DownloadExcel: downloadExcel(domain.KindEmployee, h.export, h.logger),
	}
}

func (h *EmployeeHandler) list(activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nonNil(h.employees.List(activeOnly)))
	}
}

func (h *EmployeeHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	e, err := h.employees.Get(id)
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EmployeeHandler) getByName(w http.ResponseWriter, r *http.Request) {
	e, err := h.employees.GetByName(qualifier(r))
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EmployeeHandler) getAllByName(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(h.employees.SearchByName(qualifier(r))))
}

func (h *EmployeeHandler) names(field func(domain.NameRef) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pluck(h.employees.Names(qualifier(r)), field))
	}
}

func (h *EmployeeHandler) nameByEmail(w http.ResponseWriter, r *http.Request) {
	name, err := h.employees.NameByEmail(qualifier(r))
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeJSON(w, http.StatusOK, name)
}

func (h *EmployeeHandler) add(w http.ResponseWriter, r *http.Request) {
	var e domain.Employee
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	if _, err := h.employees.Add(e); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Employee added successfully")
}

func (h *EmployeeHandler) updateByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	var e domain.Employee
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	if _, err := h.employees.UpdateByID(id, e); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeMessage(w, http.StatusOK, "Employee updated successfully")
}

func (h *EmployeeHandler) updateByName(w http.ResponseWriter, r *http.Request) {
	var e domain.Employee
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	if _, err := h.employees.UpdateByName(qualifier(r), e); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeMessage(w, http.StatusOK, "Employee updated successfully")
}

func (h *EmployeeHandler) deleteAll(w http.ResponseWriter, r *http.Request) {
	keep := ""
	if c := middleware.GetClaimsFromContext(r.Context()); c != nil {
		keep = c.Email
	}
	n := h.employees.DeleteAll(keep)
	writeMessage(w, http.StatusOK, "%d employees deleted", n)
}

func (h *EmployeeHandler) deleteByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = h.employees.Delete(id)
	}
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeMessage(w, http.StatusOK, "Employee deleted successfully")
}

func (h *EmployeeHandler) deleteByName(w http.ResponseWriter, r *http.Request) {
	if err := h.employees.DeleteByName(qualifier(r)); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeMessage(w, http.StatusOK, "Employee deleted successfully")
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func pluck(refs []domain.NameRef, field func(domain.NameRef) any) []any {
	out := make([]any, len(refs))
	for i, r := range refs {
		out[i] = field(r)
	}
	return out
}
