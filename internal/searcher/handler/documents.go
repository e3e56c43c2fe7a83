package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/norajeanett/S-tek/internal/ingest"
	"github.com/norajeanett/S-tek/pkg/logger"
)

// AddDocument handles POST /api/v1/documents. It is only available when the
// service runs over an in-memory corpus.
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "document ingestion is disabled")
		return
	}

	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req ingest.AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	doc, err := h.store.Add(ctx, &req)
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": verr.Fields,
			})
			return
		}
		log.Error("document ingestion failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}

	// Cached evaluations may now be stale.
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			log.Error("cache invalidation after ingest failed", "error", err)
		}
	}
	if h.metrics != nil {
		h.metrics.CorpusDocuments.Inc()
	}

	log.Info("document accepted", "doc_id", doc.ID)
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"document_id": doc.ID,
		"status":      "indexed",
	})
}
