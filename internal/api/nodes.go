package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-companion/internal/automation"
	"github.com/nerrad567/gray-logic-companion/internal/catalog"
)

// handleListNodes returns all catalog nodes ordered by ID.
func (s *Server) handleListNodes(w http.ResponseWriter, _ *http.Request) {
	nodes := s.catalog.ListNodes()
	writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes, "count": len(nodes)})
}

// handleGetNode returns a single node by ID.
func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	node, err := s.catalog.GetNode(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNodeNotFound) {
			writeNotFound(w, "node not found")
			return
		}
		writeInternalError(w, "failed to get node")
		return
	}

	writeJSON(w, http.StatusOK, node)
}

// handlePutNode stores a node-config document under the URL ID.
// A node_id in the body must match the URL.
func (s *Server) handlePutNode(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "failed to read request body")
		return
	}

	node, err := catalog.ParseNodeConfig(body)
	if err != nil {
		writeBadRequest(w, "invalid node config")
		return
	}
	if node.ID == "" {
		node.ID = id
	}
	if node.ID != id {
		writeBadRequest(w, "node_id does not match URL")
		return
	}

	if err := s.catalog.SaveNode(r.Context(), node); err != nil {
		if isCatalogValidationError(err) {
			writeValidationError(w, err.Error())
			return
		}
		writeInternalError(w, "failed to save node")
		return
	}

	s.republishNode(r.Context(), id)
	writeJSON(w, http.StatusOK, node)
}

// handleDeleteNode removes a node. Summaries that referenced it lose
// the lines for its devices.
func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := s.catalog.DeleteNode(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNodeNotFound) {
			writeNotFound(w, "node not found")
			return
		}
		writeInternalError(w, "failed to delete node")
		return
	}

	s.republishNode(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// handleListNodeAutomations returns the automations owned by or acting on a node.
func (s *Server) handleListNodeAutomations(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	automations := s.automations.ListByNode(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{"automations": automations, "count": len(automations)})
}

// republishNode refreshes the retained summaries that reference a node.
func (s *Server) republishNode(ctx context.Context, nodeID string) {
	if err := s.summariser.PublishForNode(ctx, nodeID); err != nil && !errors.Is(err, automation.ErrMQTTUnavailable) {
		s.logger.Warn("failed to republish summaries", "node_id", nodeID, "error", err)
	}
}

func isCatalogValidationError(err error) bool {
	return errors.Is(err, catalog.ErrInvalidNode) ||
		errors.Is(err, catalog.ErrDuplicateDevice) ||
		errors.Is(err, catalog.ErrDuplicateParam) ||
		errors.Is(err, catalog.ErrInvalidDataType)
}
