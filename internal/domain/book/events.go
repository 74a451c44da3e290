package book

import (
	"context"
	"time"
)

// 事件路由键
const (
	EventCreated = "book.created"
	EventUpdated = "book.updated"
	EventDeleted = "book.deleted"
	EventLiked   = "book.liked"
)

// Publisher 事件发布接口（pkg/mq实现）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Event 图书事件消息体
type Event struct {
	Type       string    `json:"type"`
	BookID     string    `json:"bookId"`
	Title      string    `json:"title,omitempty"`
	AuthorID   string    `json:"authorId,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newEvent(eventType string, b *Book) Event {
	return Event{
		Type:       eventType,
		BookID:     b.ID,
		Title:      b.Title,
		AuthorID:   b.AuthorID,
		OccurredAt: nowUTC(),
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
