package server

import (
	"encoding/json"
	"log"
	"net/http"

	"policychat/internal/retrieval"
)

// ChatResponse is the reply to a chat request.
type ChatResponse struct {
	Response     string            `json:"response"`
	RelevantDocs []retrieval.Match `json:"relevant_docs,omitempty"`
}

// handleChat handles POST /api/chat
// Request: {"message": "question text"}
// Response: {"response": "...", "relevant_docs": [...]}
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Message == "" {
		writeJSONError(w, http.StatusBadRequest, "message is required")
		return
	}

	matches, err := s.ranker.Rank(r.Context(), req.Message)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "retrieval failed: "+err.Error())
		return
	}

	answer := s.answerer.Answer(r.Context(), req.Message, matches)

	if _, err := s.store.LogInteraction(r.Context(), req.Message, answer); err != nil {
		// The user still gets their answer when history logging fails.
		log.Printf("[Server] Failed to log chat interaction: %v", err)
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:     answer,
		RelevantDocs: matches,
	})
}

// handleDocuments handles GET (list) and POST (add) on /api/documents.
// Adding a document rebuilds the retrieval index so the new policy is
// immediately searchable.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		docs, err := s.store.ListDocuments(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "list failed: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"documents": docs,
			"count":     len(docs),
		})

	case http.MethodPost:
		var req struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		if req.Title == "" {
			writeJSONError(w, http.StatusBadRequest, "title is required")
			return
		}
		if req.Content == "" {
			writeJSONError(w, http.StatusBadRequest, "content is required")
			return
		}

		id, err := s.store.AddDocument(r.Context(), req.Title, req.Content)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "add failed: "+err.Error())
			return
		}

		if err := s.indexer.Reinitialize(r.Context()); err != nil {
			// The document is stored; the old index stays in effect
			// until the next successful rebuild.
			log.Printf("[Server] Reindex after add failed: %v", err)
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"id":     id,
			"status": "created",
		})

	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleReindex handles POST /api/reindex, the explicit rebuild signal for
// corpus changes made outside this API.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.indexer.Reinitialize(r.Context()); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "reindex failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "reindexed",
	})
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] Failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
