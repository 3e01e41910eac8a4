package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/security/middleware"
	"github.com/aryan0dhankhar/allocdesk/internal/service"
)

// AllocationHandler serves /allocation/*, including the cross-entity
// lookups the client resolves names with.
type AllocationHandler struct {
	allocations *service.AllocationService
	employees   *service.EmployeeService
	projects    *service.ProjectService
	export      *service.ExportService
	logger      *slog.Logger
}

func NewAllocationHandler(svc *service.Services, logger *slog.Logger) *AllocationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AllocationHandler{
		allocations: svc.Allocations,
		employees:   svc.Employees,
		projects:    svc.Projects,
		export:      svc.Export,
		logger:      logger,
	}
}

func (h *AllocationHandler) Routes() Routes {
	return Routes{
		domain.GetAll: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, nonNil(h.allocations.List(false)))
		},
		domain.GetAllActive: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, nonNil(h.allocations.List(true)))
		},
		domain.GetByID:   h.getByID,
		domain.GetByName: h.getByName,
		domain.GetAllByName: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, nonNil(h.allocations.SearchByName(qualifier(r))))
		},
		domain.GetNames: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, pluck(h.allocations.Names(qualifier(r)), func(ref domain.NameRef) any { return ref.Name }))
		},
		domain.GetIDs: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, pluck(h.allocations.Names(qualifier(r)), func(ref domain.NameRef) any { return ref.ID }))
		},

		domain.GetByEmpName: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, h.allocations.ByEmployeeName(qualifier(r), false))
		},
		domain.GetByProjName: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, h.allocations.ByProjectName(qualifier(r), false))
		},
		domain.GetByEmpID:  h.byParentID(domain.KindEmployee, h.allocations.ByEmployeeID),
		domain.GetByProjID: h.byParentID(domain.KindProject, h.allocations.ByProjectID),
		domain.GetEmpIDByName: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, h.employees.IDByName(qualifier(r)))
		},
		domain.GetProjIDByName: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, h.projects.IDByName(qualifier(r)))
		},
		domain.GetAllocDelByEmpName: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, h.allocations.ByEmployeeName(qualifier(r), true))
		},
		domain.GetAllocDelByProjName: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, h.allocations.ByProjectName(qualifier(r), true))
		},
		domain.DeleteEmpID:  h.deleteForParent(domain.KindEmployee, h.allocations.DeleteActiveByEmployeeID),
		domain.DeleteProjID: h.deleteForParent(domain.KindProject, h.allocations.DeleteActiveByProjectID),

		domain.Add:        h.add,
		domain.UpdateID:   h.updateByID,
		domain.UpdateName: h.updateByName,
		domain.DeleteAll: func(w http.ResponseWriter, r *http.Request) {
			writeMessage(w, http.StatusOK, "%d allocations deleted", h.allocations.DeleteAll())
		},
		domain.DeleteID:      h.deleteByID,
		domain.DeleteName:    h.deleteByName,
		domain.DownloadExcel: downloadExcel(domain.KindAllocation, h.export, h.logger),
	}
}

func (h *AllocationHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	a, err := h.allocations.Get(id)
	if err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AllocationHandler) getByName(w http.ResponseWriter, r *http.Request) {
	a, err := h.allocations.GetByName(qualifier(r))
	if err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AllocationHandler) byParentID(parent domain.Kind, lookup func(int64) ([]domain.Allocation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, h.logger, parent, err)
			return
		}
		recs, err := lookup(id)
		if err != nil {
			writeError(w, h.logger, parent, err)
			return
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

func (h *AllocationHandler) deleteForParent(parent domain.Kind, del func(int64) (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, h.logger, parent, err)
			return
		}
		n, err := del(id)
		if err != nil {
			writeError(w, h.logger, parent, err)
			return
		}
		writeMessage(w, http.StatusOK, "%d allocations deleted", n)
	}
}

// add defaults the allocator to the signed-in user's employee name.
func (h *AllocationHandler) add(w http.ResponseWriter, r *http.Request) {
	var a domain.Allocation
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	actor := ""
	if c := middleware.GetClaimsFromContext(r.Context()); c != nil {
		actor, _ = h.employees.NameByEmail(c.Email)
	}
	if _, err := h.allocations.Add(a, actor); err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Allocation created successfully!")
}

func (h *AllocationHandler) updateByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	var a domain.Allocation
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	if _, err := h.allocations.UpdateByID(id, a); err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	writeMessage(w, http.StatusOK, "Allocation updated successfully!")
}

func (h *AllocationHandler) updateByName(w http.ResponseWriter, r *http.Request) {
	var a domain.Allocation
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	if _, err := h.allocations.UpdateByName(qualifier(r), a); err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	writeMessage(w, http.StatusOK, "Allocation updated successfully!")
}

func (h *AllocationHandler) deleteByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = h.allocations.Delete(id)
	}
	if err != nil {
		writeError(w, h.logger, domain.KindAllocation, err)
		return
	}
	writeMessage(w, http.StatusOK, "Allocation Deleted Successfully!")
}

func (h *AllocationHandler) deleteByName(w http.ResponseWriter, r *http.Request) {
	n, err := h.allocations.DeleteByName(qualifier(r))
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeMessage(w, http.StatusOK, "%d allocations deleted", n)
}
