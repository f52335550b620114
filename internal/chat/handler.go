package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go-matchchat/internal/apperr"
	"go-matchchat/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for now (Dev mode)
	},
}

type Handler struct {
	hub      *Hub
	service  *Service
	sessions auth.SessionProvider
}

func NewHandler(hub *Hub, service *Service, sessions auth.SessionProvider) *Handler {
	return &Handler{
		hub:      hub,
		service:  service,
		sessions: sessions,
	}
}

// ServeWs upgrades the connection and binds it to an identity. Connections
// without a resolvable token are kept open in an anonymous state: their
// join/send frames are dropped, nothing is pushed back.
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	identity, authed := auth.Identity{}, false
	if token := auth.TokenFromRequest(r); token != "" {
		identity, authed = h.sessions.Resolve(token)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := &Client{
		ID:       uuid.NewString(),
		Hub:      h.hub,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Identity: identity,
		Authed:   authed,
		service:  h.service,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// History serves GET /api/messages/{peerID}: the conversation between the
// session user and the peer, ascending by id.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	peerID, err := strconv.Atoi(chi.URLParam(r, "peerID"))
	if err != nil {
		http.Error(w, "invalid peer id", http.StatusBadRequest)
		return
	}

	messages, err := h.service.History(r.Context(), id.UserID, peerID)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}
