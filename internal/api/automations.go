package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-companion/internal/automation"
)

// handleListAutomations returns all automations, optionally filtered.
//
// Query parameters:
//   - node_id: automations owned by or acting on the node
func (s *Server) handleListAutomations(w http.ResponseWriter, r *http.Request) {
	query := listAutomationsQuery{NodeID: r.URL.Query().Get("node_id")}
	if err := validateRequest(query); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var automations []automation.Automation
	if query.NodeID != "" {
		automations = s.automations.ListByNode(r.Context(), query.NodeID)
	} else {
		automations = s.automations.ListAutomations(r.Context())
	}
	if automations == nil {
		automations = []automation.Automation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"automations": automations, "count": len(automations)})
}

// handleGetAutomation returns a single automation by ID.
func (s *Server) handleGetAutomation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	a, err := s.automations.GetAutomation(r.Context(), id)
	if err != nil {
		if errors.Is(err, automation.ErrAutomationNotFound) {
			writeNotFound(w, "automation not found")
			return
		}
		writeInternalError(w, "failed to get automation")
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// handleCreateAutomation stores a new automation. An ID is assigned when
// the body has none; an existing ID is a conflict.
func (s *Server) handleCreateAutomation(w http.ResponseWriter, r *http.Request) {
	a, ok := readAutomation(w, r)
	if !ok {
		return
	}

	if a.ID != "" {
		if _, err := s.automations.GetAutomation(r.Context(), a.ID); err == nil {
			writeConflict(w, "automation already exists")
			return
		}
	}

	if !s.saveAutomation(r.Context(), w, a) {
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// handlePutAutomation creates or replaces the automation at the URL ID.
// An automation_id in the body must match the URL.
func (s *Server) handlePutAutomation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	a, ok := readAutomation(w, r)
	if !ok {
		return
	}
	if a.ID == "" {
		a.ID = id
	}
	if a.ID != id {
		writeBadRequest(w, "automation_id does not match URL")
		return
	}

	if !s.saveAutomation(r.Context(), w, a) {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleDeleteAutomation removes an automation and its retained summary.
func (s *Server) handleDeleteAutomation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := s.automations.DeleteAutomation(r.Context(), id); err != nil {
		if errors.Is(err, automation.ErrAutomationNotFound) {
			writeNotFound(w, "automation not found")
			return
		}
		writeInternalError(w, "failed to delete automation")
		return
	}

	if err := s.summariser.ClearSummary(id); err != nil && !errors.Is(err, automation.ErrMQTTUnavailable) {
		s.logger.Warn("failed to clear summary", "automation_id", id, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetSummary renders a stored automation against the live catalog.
// Unresolved references leave the strings short or empty; that is not an error.
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	summary, err := s.summariser.Summary(r.Context(), id)
	if err != nil {
		if errors.Is(err, automation.ErrAutomationNotFound) {
			writeNotFound(w, "automation not found")
			return
		}
		writeInternalError(w, "failed to render summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// readAutomation decodes an automation record from the request body.
func readAutomation(w http.ResponseWriter, r *http.Request) (*automation.Automation, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "failed to read request body")
		return nil, false
	}

	a, err := automation.DecodeJSON(body)
	if err != nil {
		writeBadRequest(w, err.Error())
		return nil, false
	}
	return a, true
}

// saveAutomation validates and stores a, then publishes its summary.
// It writes the error response and returns false on failure.
func (s *Server) saveAutomation(ctx context.Context, w http.ResponseWriter, a *automation.Automation) bool {
	if err := s.automations.SaveAutomation(ctx, a); err != nil {
		if errors.Is(err, automation.ErrInvalidAutomation) ||
			errors.Is(err, automation.ErrInvalidName) ||
			errors.Is(err, automation.ErrInvalidValue) {
			writeValidationError(w, err.Error())
			return false
		}
		writeInternalError(w, "failed to save automation")
		return false
	}

	if err := s.summariser.Publish(ctx, a); err != nil && !errors.Is(err, automation.ErrMQTTUnavailable) {
		s.logger.Warn("failed to publish summary", "automation_id", a.ID, "error", err)
	}
	return true
}
