package websocket

import "github.com/srushti1125/techdigest/internal/models"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewArticleMessage wraps a newly stored article for broadcast.
func NewArticleMessage(article models.Article) Message {
	return Message{Action: "article_stored", Payload: article}
}

// NewEventMessage wraps a pipeline event for broadcast.
func NewEventMessage(event models.Event) Message {
	return Message{Action: "pipeline_event", Payload: event}
}
