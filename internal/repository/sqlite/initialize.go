package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/meridianesg/ralph/internal/domain"
	"github.com/meridianesg/ralph/internal/repository"
)

// Initialize opens (or creates) the local cache database at dbPath and
// returns a conversation repository backed by it.
func Initialize(dbPath string) (repository.ConversationRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Conversation{}, &domain.Message{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewConversationRepository(db), nil
}
