package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/compspread/comps-backend/internal/comps"
	"github.com/compspread/comps-backend/internal/models"
)

// project ids come from the client; keep them filesystem/URL safe
var projectIDRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type projectSaveRequest struct {
	Name string               `json:"name"`
	Data []comps.MetricRecord `json:"data"`
}

func (s *Server) requireProjects(w http.ResponseWriter) bool {
	if s.projects == nil {
		writeError(w, http.StatusServiceUnavailable, "project storage not configured")
		return false
	}
	return true
}

func projectID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !projectIDRegexp.MatchString(id) {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return "", false
	}
	return id, true
}

func (s *Server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	if !s.requireProjects(w) {
		return
	}

	list, err := s.projects.List(r.Context())
	if err != nil {
		fmt.Printf("[API] Project list failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if list == nil {
		list = []models.ProjectSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleProjectGet(w http.ResponseWriter, r *http.Request) {
	if !s.requireProjects(w) {
		return
	}
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	p, err := s.projects.Get(r.Context(), id)
	if err != nil {
		fmt.Printf("[API] Project get failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to load project")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProjectSave(w http.ResponseWriter, r *http.Request) {
	if !s.requireProjects(w) {
		return
	}
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var req projectSaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "project name is required")
		return
	}

	p, err := s.projects.Save(r.Context(), id, req.Name, req.Data)
	if err != nil {
		fmt.Printf("[API] Project save failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to save project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireProjects(w) {
		return
	}
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	found, err := s.projects.Delete(r.Context(), id)
	if err != nil {
		fmt.Printf("[API] Project delete failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}
