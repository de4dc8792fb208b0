package http

import (
	"encoding/json"
	"log"
	"net/http"

	"trivia-ladder-service/internal/app"
	"trivia-ladder-service/internal/domain"

	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	QuizID string `json:"quizId"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

type answerPayload struct {
	SessionID  string `json:"sessionId"`
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId"`
	TimeUsed   int    `json:"timeUsed"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// answerView is a client-safe answer option: no correctness marker.
type answerView struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

// questionView is the client-safe shape of the question a player is about to
// attempt. The correct answer ID is only revealed in answer results.
type questionView struct {
	ID        string               `json:"id"`
	Text      string               `json:"text"`
	Type      domain.QuestionType  `json:"type"`
	Level     int                  `json:"level"`
	TimeLimit int                  `json:"timeLimit"`
	Answers   []answerView         `json:"answers"`
	Media     *domain.MediaContent `json:"media,omitempty"`
}

type sessionView struct {
	SessionID          string              `json:"sessionId"`
	QuizID             string              `json:"quizId"`
	QuizTitle          string              `json:"quizTitle"`
	CurrentLevel       int                 `json:"currentLevel"`
	CurrentPrizeAmount int64               `json:"currentPrizeAmount"`
	GuaranteedAmount   int64               `json:"guaranteedAmount"`
	PrizeLadder        []domain.PrizeLevel `json:"prizeLadder"`
	CurrentQuestion    questionView        `json:"currentQuestion"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game
// session use cases. One connection serves one player; per-session writes
// are already serialized inside the service.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid start payload")
				continue
			}
			result := h.service.StartSession(r.Context(), payload.QuizID, playerID)
			h.write(conn, outboundMessage[app.StartResult]{Type: "started", Payload: result})

		case "resume":
			var payload sessionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid resume payload")
				continue
			}
			result := h.service.ResumeSession(r.Context(), payload.SessionID)
			if !result.Success {
				h.writeError(conn, result.Error)
				continue
			}
			h.write(conn, outboundMessage[sessionView]{Type: "state", Payload: newSessionView(result)})

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid answer payload")
				continue
			}
			outcome := h.service.AnswerQuestion(r.Context(), payload.SessionID, payload.QuestionID, payload.AnswerID, payload.TimeUsed)
			h.write(conn, outboundMessage[app.AnswerOutcome]{Type: "answerResult", Payload: outcome})

		case "timeout":
			var payload sessionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid timeout payload")
				continue
			}
			outcome := h.service.TimeOut(r.Context(), payload.SessionID)
			h.write(conn, outboundMessage[app.AnswerOutcome]{Type: "answerResult", Payload: outcome})

		case "walkAway":
			var payload sessionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid walkAway payload")
				continue
			}
			result := h.service.Abandon(r.Context(), payload.SessionID)
			h.write(conn, outboundMessage[app.AbandonResult]{Type: "abandoned", Payload: result})

		default:
			h.writeError(conn, "unsupported message type")
		}
	}
}

func (h *WSHandler) write(conn *websocket.Conn, msg any) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, msg string) {
	h.write(conn, outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: msg}})
}

func newSessionView(result app.ResumeResult) sessionView {
	q := result.CurrentQuestion
	answers := make([]answerView, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, answerView{ID: a.ID, Text: a.Text, Label: a.Label})
	}
	return sessionView{
		SessionID:          result.Session.ID,
		QuizID:             result.Quiz.ID,
		QuizTitle:          result.Quiz.Title,
		CurrentLevel:       result.Session.CurrentLevel,
		CurrentPrizeAmount: result.Session.CurrentPrizeAmount,
		GuaranteedAmount:   result.Session.GuaranteedAmount,
		PrizeLadder:        result.Quiz.PrizeLadder,
		CurrentQuestion: questionView{
			ID:        q.ID,
			Text:      q.Text,
			Type:      q.Type,
			Level:     q.Level,
			TimeLimit: q.TimeLimit,
			Answers:   answers,
			Media:     q.Media,
		},
	}
}
