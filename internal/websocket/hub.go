package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/srushti1125/techdigest/internal/models"
)

// Hub maintains the set of active dashboard clients and broadcasts
// pipeline activity to them. Clients registered with a source label only
// receive articles from that source; clients without one get everything.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Messages for global broadcast.
	Broadcast chan []byte

	// Newly stored articles, routed by source label.
	articles chan models.Article

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		articles:   make(chan models.Article),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop. All client-map access
// happens here.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}
		case article := <-h.articles:
			message, err := json.Marshal(NewArticleMessage(article))
			if err != nil {
				log.Error().Err(err).Msg("Failed to encode article broadcast")
				continue
			}
			for client := range h.clients {
				if client.Source == "" || client.Source == article.Source {
					h.deliver(client, message)
				}
			}
		}
	}
}

// BroadcastArticle pushes a newly stored article to interested clients.
func (h *Hub) BroadcastArticle(article models.Article) {
	h.articles <- article
}

// BroadcastEvent pushes a pipeline event to every client.
func (h *Hub) BroadcastEvent(event models.Event) {
	message, err := json.Marshal(NewEventMessage(event))
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode event broadcast")
		return
	}
	h.Broadcast <- message
}

// deliver sends to one client, dropping clients whose send buffer is full.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		close(client.Send)
		delete(h.clients, client)
	}
}
