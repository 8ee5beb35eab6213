package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"docchat/internal/document"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type       string            `json:"type"` // "ask"
	DocumentID string            `json:"document_id"`
	Content    string            `json:"content"`
	Selection  *selectionPayload `json:"selection,omitempty"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type     string `json:"type"` // "response" or "error"
	Content  string `json:"content"`
	AnswerID string `json:"answer_id,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

// handleWebSocket runs a chat session over one connection. The conversation
// history lives only as long as the connection and is bounded to the
// configured number of turns.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	history := document.NewHistory(s.cfg.HistoryTurns)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendChatError(conn, "invalid message format")
			continue
		}
		if req.Content == "" {
			s.sendChatError(conn, "content is required")
			continue
		}
		if req.DocumentID == "" {
			s.sendChatError(conn, "document_id is required")
			continue
		}

		switch req.Type {
		case "ask":
			s.handleChatAsk(conn, r, req, history)
		default:
			s.sendChatError(conn, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleChatAsk(conn *websocket.Conn, r *http.Request, req chatRequest, history *document.History) {
	rec, err := s.engine.Answer(r.Context(), req.DocumentID, req.Content, req.Selection.toSelection(), history.Turns())
	if err != nil {
		s.sendChatError(conn, "question failed: "+err.Error())
		return
	}

	// The selection itself is ephemeral; only the turns persist.
	history.Add(document.RoleUser, req.Content)
	history.Add(document.RoleAssistant, rec.Answer)

	s.sendChatResponse(conn, chatResponse{
		Type:     "response",
		Content:  rec.Answer,
		AnswerID: rec.ID,
	})
}

func (s *Server) sendChatResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("websocket write: %v", err)
	}
}

func (s *Server) sendChatError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(chatResponse{Type: "error", Content: message}); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}
