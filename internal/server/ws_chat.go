package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"policychat/internal/retrieval"
)

// WebSocket chat message types
const (
	wsTypeAsk    = "ask"
	wsTypeAnswer = "answer"
	wsTypeError  = "error"
)

// wsMessage is one frame on the chat socket. Clients send {type: "ask",
// message: ...}; the server replies with an answer or error frame carrying
// the same id.
type wsMessage struct {
	Type         string            `json:"type"`
	ID           string            `json:"id,omitempty"`
	Message      string            `json:"message,omitempty"`
	Response     string            `json:"response,omitempty"`
	RelevantDocs []retrieval.Match `json:"relevant_docs,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// handleWSChat handles GET /ws/chat, a persistent chat connection carrying
// one question per frame.
func (s *Server) handleWSChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Server] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[Server] WebSocket chat client connected: %s", r.RemoteAddr)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Server] WebSocket read error: %v", err)
			}
			return
		}

		reply := s.answerWS(r, msg)
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("[Server] WebSocket write error: %v", err)
			return
		}
	}
}

func (s *Server) answerWS(r *http.Request, msg wsMessage) wsMessage {
	if msg.Type != wsTypeAsk {
		return wsMessage{Type: wsTypeError, ID: msg.ID, Error: "unsupported message type: " + msg.Type}
	}
	if msg.Message == "" {
		return wsMessage{Type: wsTypeError, ID: msg.ID, Error: "message is required"}
	}

	ctx := r.Context()
	matches, err := s.ranker.Rank(ctx, msg.Message)
	if err != nil {
		return wsMessage{Type: wsTypeError, ID: msg.ID, Error: "retrieval failed: " + err.Error()}
	}

	answer := s.answerer.Answer(ctx, msg.Message, matches)

	if _, err := s.store.LogInteraction(ctx, msg.Message, answer); err != nil {
		log.Printf("[Server] Failed to log chat interaction: %v", err)
	}

	return wsMessage{
		Type:         wsTypeAnswer,
		ID:           msg.ID,
		Response:     answer,
		RelevantDocs: matches,
	}
}
