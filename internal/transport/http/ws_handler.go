package http

import (
	"context"
	"encoding/json"
	"net/http"

	"mbti-quiz-service/internal/app"
	"mbti-quiz-service/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler drives one test attempt per websocket connection. The attempt's
// engine lives only as long as the connection.
type WSHandler struct {
	service  *app.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.Service, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
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
	Tier string `json:"tier"`
}

type answerPayload struct {
	StatementID int `json:"statementId"`
	Score       int `json:"score"`
}

type navigatePayload struct {
	Direction string `json:"direction"`
}

type readyPayload struct {
	Tiers []domain.TierSpec `json:"tiers"`
}

type sessionPayload struct {
	Progress  domain.Progress    `json:"progress"`
	Questions []domain.Statement `json:"questions"`
}

type answerRecorded struct {
	StatementID int             `json:"statementId"`
	Score       int             `json:"score"`
	Progress    domain.Progress `json:"progress"`
}

type cursorPayload struct {
	Progress  domain.Progress   `json:"progress"`
	Statement *domain.Statement `json:"statement,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// jsonConn is the part of *websocket.Conn the attempt loop needs.
type jsonConn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
}

// ServeWS upgrades HTTP requests to websockets and wires them into a fresh engine.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	h.serve(r.Context(), conn)
}

// serve runs one attempt until the client goes away or the writer fails.
func (h *WSHandler) serve(ctx context.Context, conn jsonConn) {
	engine := h.service.NewEngine()
	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	// push reports false once the writer has stopped; nothing would drain send.
	push := func(msg outboundMessage[any]) bool {
		select {
		case <-writerDone:
			return false
		default:
		}
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	if push(outboundMessage[any]{Type: "ready", Payload: readyPayload{Tiers: h.service.Tiers()}}) {
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				break
			}
			if !push(h.handle(ctx, engine, inbound)) {
				break
			}
		}
	}

	close(send)
	<-writerDone
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

// handle applies one client message to the engine and builds the reply.
func (h *WSHandler) handle(ctx context.Context, engine *app.Engine, inbound inboundMessage) outboundMessage[any] {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid start payload")
		}
		tier, err := domain.ParseTier(payload.Tier)
		if err != nil {
			return errorMessage(err.Error())
		}
		if err := engine.StartSession(ctx, tier); err != nil {
			return errorMessage(err.Error())
		}
		return outboundMessage[any]{Type: "session", Payload: sessionPayload{
			Progress:  engine.Progress(),
			Questions: engine.Questions(),
		}}
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid answer payload")
		}
		if err := engine.RecordAnswer(payload.StatementID, payload.Score); err != nil {
			return errorMessage(err.Error())
		}
		return outboundMessage[any]{Type: "answerRecorded", Payload: answerRecorded{
			StatementID: payload.StatementID,
			Score:       payload.Score,
			Progress:    engine.Progress(),
		}}
	case "navigate":
		var payload navigatePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid navigate payload")
		}
		dir, err := app.ParseDirection(payload.Direction)
		if err != nil {
			return errorMessage(err.Error())
		}
		engine.Navigate(dir)
		cursor := cursorPayload{Progress: engine.Progress()}
		if current, ok := engine.Current(); ok {
			cursor.Statement = &current
		}
		return outboundMessage[any]{Type: "cursor", Payload: cursor}
	case "finalize":
		result, err := engine.Finalize(ctx)
		if err != nil {
			return errorMessage(err.Error())
		}
		report := domain.Report{Result: result}
		if d, ok := h.service.Describe(result.Type); ok {
			report.Description = &d
		}
		return outboundMessage[any]{Type: "result", Payload: report}
	}
	return errorMessage("unsupported message type")
}
