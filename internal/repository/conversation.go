package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianesg/ralph/internal/domain"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	List(ctx context.Context, limit int) ([]*domain.Conversation, error)
	GetMostRecent(ctx context.Context) (*domain.Conversation, error)
	GetByPartialID(ctx context.Context, partialID string) (*domain.Conversation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetTitle(ctx context.Context, id uuid.UUID, title string) error
	AddMessage(ctx context.Context, convID uuid.UUID, msg *domain.Message) error
}
