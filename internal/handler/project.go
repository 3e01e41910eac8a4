package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/service"
)

// ProjectHandler serves /project/*
type ProjectHandler struct {
	projects *service.ProjectService
	export   *service.ExportService
	logger   *slog.Logger
}

func NewProjectHandler(projects *service.ProjectService, export *service.ExportService, logger *slog.Logger) *ProjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectHandler{projects: projects, export: export, logger: logger}
}

func (h *ProjectHandler) Routes() Routes {
	return Routes{
		domain.GetAll:       h.list(false),
		domain.GetAllActive: h.list(true),
		domain.GetByID:      h.getByID,
		domain.GetByName:    h.getByName,
		domain.GetAllByName: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, nonNil(h.projects.SearchByName(qualifier(r))))
		},
		domain.GetNames: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, pluck(h.projects.Names(qualifier(r)), func(ref domain.NameRef) any { return ref.Name }))
		},
		domain.GetIDs: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, pluck(h.projects.Names(qualifier(r)), func(ref domain.NameRef) any { return ref.ID }))
		},
		domain.Add:        h.add,
		domain.UpdateID:   h.update(true),
		domain.UpdateName: h.update(false),
		domain.DeleteAll: func(w http.ResponseWriter, r *http.Request) {
			writeMessage(w, http.StatusOK, "%d projects deleted", h.projects.DeleteAll())
		},
		domain.DeleteID:      h.delete(true),
		domain.DeleteName:    h.delete(false),
		domain.DownloadExcel: downloadExcel(domain.KindProject, h.export, h.logger),
	}
}

func (h *ProjectHandler) list(activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nonNil(h.projects.List(activeOnly)))
	}
}

func (h *ProjectHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, domain.KindProject, err)
		return
	}
	p, err := h.projects.Get(id)
	if err != nil {
		writeError(w, h.logger, domain.KindProject, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) getByName(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.GetByName(qualifier(r))
	if err != nil {
		writeError(w, h.logger, domain.KindProject, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) add(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, h.logger, domain.KindProject, err)
		return
	}
	if _, err := h.projects.Add(p); err != nil {
		writeError(w, h.logger, domain.KindProject, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Project added successfully")
}

// update serves updateId when byID is set and updateName otherwise.
func (h *ProjectHandler) update(byID bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p domain.Project
		if err := decodeJSON(r, &p); err != nil {
			writeError(w, h.logger, domain.KindProject, err)
			return
		}
		var err error
		if byID {
			var id int64
			if id, err = pathID(r); err == nil {
				_, err = h.projects.UpdateByID(id, p)
			}
		} else {
			_, err = h.projects.UpdateByName(qualifier(r), p)
		}
		if err != nil {
			writeError(w, h.logger, domain.KindProject, err)
			return
		}
		writeMessage(w, http.StatusOK, "Project updated successfully")
	}
}

func (h *ProjectHandler) delete(byID bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		if byID {
			var id int64
			if id, err = pathID(r); err == nil {
				err = h.projects.Delete(id)
			}
		} else {
			err = h.projects.DeleteByName(qualifier(r))
		}
		if err != nil {
			writeError(w, h.logger, domain.KindProject, err)
			return
		}
		writeMessage(w, http.StatusOK, "Project deleted successfully")
	}
}
