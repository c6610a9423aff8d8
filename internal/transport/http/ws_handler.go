package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

const closeWriteWait = time.Second

// WSHandler runs one play per websocket connection.
type WSHandler struct {
	plays    *app.PlayService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(plays *app.PlayService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		plays:  plays,
		logger: logger,
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

type pickPayload struct {
	Choice string `json:"choice"`
}

type startedPayload struct {
	PlayID string `json:"playId"`
	SetID  string `json:"setId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type wsErrorPayload struct {
	Message  string `json:"message"`
	NotFound bool   `json:"notFound,omitempty"`
}

// closeFrame asks the writer to send a normal close after the last update.
const closeFrame = "close"

// ServeWS upgrades /play?setId= and streams the round: card, tick, feedback
// and complete messages out; pick and next messages in.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	setID := r.URL.Query().Get("setId")
	if setID == "" {
		http.Error(w, "missing setId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	play, err := h.plays.Start(r.Context(), setID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[wsErrorPayload]{Type: "error", Payload: wsErrorPayload{
			Message:  err.Error(),
			NotFound: domain.IsNotFound(err),
		}})
		return
	}
	defer h.plays.Finish(play.ID())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	forwardDone := make(chan struct{})
	runDone := make(chan struct{})

	send <- outboundMessage[any]{Type: "started", Payload: startedPayload{PlayID: play.ID(), SetID: play.SetID()}}

	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if msg.Type == closeFrame {
				deadline := time.Now().Add(closeWriteWait)
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "round complete"), deadline)
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", "error", err)
				failed = true
			}
		}
	}()

	go func() {
		defer close(runDone)
		if err := play.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			h.logger.Error("play stopped", "play_id", play.ID(), "error", err)
		}
	}()

	go func() {
		defer close(forwardDone)
		for update := range play.Updates() {
			select {
			case send <- toOutbound(update):
			case <-closeSignals:
				return
			}
		}
		select {
		case send <- outboundMessage[any]{Type: closeFrame}:
		case <-closeSignals:
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var cmdErr error
		switch inbound.Type {
		case "pick":
			var payload pickPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid pick payload")
				continue
			}
			cmdErr = play.Pick(ctx, payload.Choice)
		case "next":
			cmdErr = play.Next(ctx)
		default:
			send <- errorMessage("unsupported message type")
			continue
		}
		if cmdErr != nil {
			send <- errorMessage(cmdErr.Error())
		}
	}

	cancel()
	close(closeSignals)
	<-runDone
	<-forwardDone
	close(send)
	<-writerDone
}

func toOutbound(u app.Update) outboundMessage[any] {
	msg := outboundMessage[any]{Type: string(u.Type)}
	switch u.Type {
	case app.UpdateCard:
		msg.Payload = u.Card
	case app.UpdateTick:
		msg.Payload = u.Tick
	case app.UpdateFeedback:
		msg.Payload = u.Feedback
	case app.UpdateComplete:
		// Only the counters travel; the results view recomputes XP.
		msg.Payload = u.Summary
	}
	return msg
}

func errorMessage(text string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: wsErrorPayload{Message: text}}
}
