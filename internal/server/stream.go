package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/abhisek/parla/internal/tutor"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const writeWait = 10 * time.Second

// Frame types sent to and received from stream clients.
const (
	FramePartial = "partial"
	FrameResult  = "result"
	FrameError   = "error"
	FrameReset   = "reset"
)

// ClientFrame is a control message from the client. Audio is sent as a
// binary message instead.
type ClientFrame struct {
	Type string `json:"type"`
}

// ServerFrame is pushed to the client.
type ServerFrame struct {
	Type    string            `json:"type"`
	Result  *tutor.TurnResult `json:"result,omitempty"`
	Message string            `json:"message,omitempty"`
}

// handleStream upgrades to a WebSocket. Each binary message is one
// recording; the turn runs in streaming mode and every chunk is pushed as a
// partial frame before the final result frame.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxAudioBytes)

	logger := s.logger.With("session", sess.ID)
	logger.Info("stream connected")
	defer logger.Info("stream disconnected")

	var writeMu sync.Mutex
	send := func(f ServerFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(f)
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("stream read failed", "error", err)
			}
			return
		}

		switch msgType {
		case websocket.TextMessage:
			var f ClientFrame
			if err := json.Unmarshal(data, &f); err != nil || f.Type != FrameReset {
				send(ServerFrame{Type: FrameError, Message: "unknown control frame"})
				continue
			}
			sess.Reset()
			send(ServerFrame{Type: FrameReset})

		case websocket.BinaryMessage:
			in := tutor.TurnInput{Stream: true}
			if len(data) > 0 {
				path, err := s.saveUpload(bytes.NewReader(data), ".wav")
				if err != nil {
					logger.Error("save upload failed", "error", err)
					send(ServerFrame{Type: FrameError, Message: "failed to store audio"})
					continue
				}
				in.AudioPath = path
			}

			res, err := s.tutor.Turn(r.Context(), sess, in, func(p tutor.TurnResult) {
				send(ServerFrame{Type: FramePartial, Result: &p})
			})
			if in.AudioPath != "" {
				os.Remove(in.AudioPath)
			}
			if err != nil {
				logger.Warn("turn failed", "error", err)
				if send(ServerFrame{Type: FrameError, Message: err.Error()}) != nil {
					return
				}
				continue
			}
			if send(ServerFrame{Type: FrameResult, Result: &res}) != nil {
				return
			}
		}
	}
}
