package sqlite

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/meridianesg/ralph/internal/domain"
	"github.com/meridianesg/ralph/internal/repository"
)

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) repository.ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Create(ctx context.Context, conv *domain.Conversation) error {
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		return errors.Wrap(err, "failed to create conversation")
	}
	return nil
}

func (r *conversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.WithContext(ctx).Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("messages.created_at ASC")
	}).First(&conv, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoConversationError{}
		}
		return nil, errors.Wrap(err, "failed to get conversation")
	}
	return &conv, nil
}

func (r *conversationRepo) List(ctx context.Context, limit int) ([]*domain.Conversation, error) {
	var convs []*domain.Conversation
	query := r.db.WithContext(ctx).Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&convs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list conversations")
	}
	return convs, nil
}

func (r *conversationRepo) GetMostRecent(ctx context.Context) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.WithContext(ctx).Order("updated_at DESC").First(&conv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoConversationError{}
		}
		return nil, errors.Wrap(err, "failed to get most recent conversation")
	}
	return &conv, nil
}

// GetByPartialID matches a conversation by ID prefix so the CLI can accept
// short identifiers.
func (r *conversationRepo) GetByPartialID(ctx context.Context, partialID string) (*domain.Conversation, error) {
	var convs []*domain.Conversation
	partial := strings.ToLower(partialID)
	if err := r.db.WithContext(ctx).Where("id LIKE ?", partial+"%").Limit(2).Find(&convs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find conversation")
	}
	switch len(convs) {
	case 0:
		return nil, domain.NoConversationError{}
	case 1:
		return convs[0], nil
	default:
		return nil, errors.Errorf("conversation id %q is ambiguous", partialID)
	}
}

func (r *conversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete conversation messages")
		}
		if err := tx.Delete(&domain.Conversation{}, "id = ?", id).Error; err != nil {
			return errors.Wrap(err, "failed to delete conversation")
		}
		return nil
	})
}

func (r *conversationRepo) SetTitle(ctx context.Context, id uuid.UUID, title string) error {
	result := r.db.WithContext(ctx).Model(&domain.Conversation{}).Where("id = ?", id).Update("title", title)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set conversation title")
	}
	if result.RowsAffected == 0 {
		return domain.NoConversationError{}
	}
	return nil
}

func (r *conversationRepo) AddMessage(ctx context.Context, convID uuid.UUID, msg *domain.Message) error {
	msg.ConversationID = convID
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return errors.Wrap(err, "failed to add message")
	}
	return nil
}
