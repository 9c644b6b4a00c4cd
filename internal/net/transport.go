package net

import (
	"net/http"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"chalkpad/internal/state"
)

// Message types on the pointer stream.
const (
	MsgDown  = "down"
	MsgMove  = "move"
	MsgUp    = "up"
	MsgLeave = "leave"
	MsgPen   = "pen"
	MsgClear = "clear"
	MsgSync  = "sync"
	MsgError = "error"
)

// Message is one JSON text frame on the pointer stream.
type Message struct {
	Type    string             `json:"type"`
	X       float64            `json:"x,omitempty"`
	Y       float64            `json:"y,omitempty"`
	Pen     *state.PenSettings `json:"pen,omitempty"`
	Message string             `json:"message,omitempty"`
}

var penRules = validator.New()

// Board is what the pointer stream drives.
type Board interface {
	PointerDownAt(p state.Point)
	PointerMove(p state.Point)
	PointerUp()
	PointerLeave()
	SetPen(s state.PenSettings)
	Pen() state.PenSettings
	Clear()
}

// Apply performs msg on b. Sync is a no-op here; the caller answers it.
func Apply(b Board, msg Message) error {
	p := state.Point{X: msg.X, Y: msg.Y}
	switch msg.Type {
	case MsgDown:
		b.PointerDownAt(p)
	case MsgMove:
		b.PointerMove(p)
	case MsgUp:
		b.PointerUp()
	case MsgLeave:
		b.PointerLeave()
	case MsgPen:
		if msg.Pen == nil {
			return errors.New("pen message without pen")
		}
		if err := penRules.Struct(msg.Pen); err != nil {
			return errors.Wrap(err, "invalid pen")
		}
		b.SetPen(state.PenSettings{Color: strings.ToLower(msg.Pen.Color), Width: msg.Pen.Width})
	case MsgClear:
		b.Clear()
	case MsgSync:
	default:
		return errors.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

// InputServer accepts a single remote pointer (a tablet or browser page)
// over a websocket and applies its events to the board in arrival order.
// A second concurrent connection is refused.
type InputServer struct {
	board    Board
	upgrader websocket.Upgrader
	active   bool
	mu       sync.Mutex
}

func NewInputServer(b Board) *InputServer {
	return &InputServer{
		board: b,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (s *InputServer) claim() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return false
	}
	s.active = true
	return true
}

func (s *InputServer) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

func (s *InputServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.claim() {
		http.Error(w, "another pointer is already connected", http.StatusConflict)
		return
	}
	defer s.release()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	addr := conn.RemoteAddr().String()
	log.Printf("[WS] pointer connected from %s", addr)

	// A stroke must not outlive its pointer.
	defer s.board.PointerLeave()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[WS] pointer %s disconnected: %v", addr, err)
			return
		}
		var msg Message
		if err := sonic.Unmarshal(data, &msg); err != nil {
			s.reply(conn, Message{Type: MsgError, Message: "invalid json"})
			continue
		}
		if err := Apply(s.board, msg); err != nil {
			log.Debugf("[WS] %s: %v", addr, err)
			s.reply(conn, Message{Type: MsgError, Message: err.Error()})
			continue
		}
		if msg.Type == MsgSync {
			pen := s.board.Pen()
			s.reply(conn, Message{Type: MsgSync, Pen: &pen})
		}
	}
}

func (s *InputServer) reply(conn *websocket.Conn, msg Message) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		log.Printf("[WS] encode reply: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[WS] write reply: %v", err)
	}
}
