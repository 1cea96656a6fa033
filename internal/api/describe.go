package api

import (
	"net/http"

	"github.com/nerrad567/gray-logic-companion/internal/automation"
	"github.com/nerrad567/gray-logic-companion/internal/catalog"
)

// handleDescribe renders an automation that is not stored.
//
// Request body:
//
//	{"automation": {...}, "nodes": [{node config}, ...]}
//
// When nodes is omitted the live catalog is used.
func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := automation.DecodeJSON(req.Automation)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var lookup automation.CatalogLookup = s.catalog.Snapshot()
	if req.Nodes != nil {
		nodes := make([]catalog.Node, 0, len(req.Nodes))
		for _, raw := range req.Nodes {
			node, err := catalog.ParseNodeConfig(raw)
			if err != nil {
				writeBadRequest(w, err.Error())
				return
			}
			nodes = append(nodes, *node)
		}
		lookup = catalog.New(nodes)
	}

	writeJSON(w, http.StatusOK, s.summariser.Render(a, lookup, automation.SourceDescribe))
}
