package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/meridianesg/ralph/internal/domain"
	"github.com/meridianesg/ralph/internal/repository"
)

func newTestRepo(t *testing.T) repository.ConversationRepository {
	t.Helper()
	repo, err := Initialize(filepath.Join(t.TempDir(), "ralph.db"))
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return repo
}

func TestConversationLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	conv := &domain.Conversation{Title: "Portfolio carbon questions"}
	if err := repo.Create(ctx, conv); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if conv.ID == uuid.Nil {
		t.Fatal("Create() did not assign an ID")
	}

	if err := repo.AddMessage(ctx, conv.ID, &domain.Message{
		Role:     domain.RoleUser,
		Content:  "What is the fund's scope 3 exposure?",
		RemoteID: "msg-remote-1",
	}); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if err := repo.AddMessage(ctx, conv.ID, &domain.Message{
		Role:     domain.RoleAssistant,
		Content:  "Scope 3 exposure is concentrated in two holdings.",
		RemoteID: "msg-remote-2",
	}); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	got, err := repo.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("GetByID() returned %d messages, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != domain.RoleUser || got.Messages[1].Role != domain.RoleAssistant {
		t.Errorf("messages out of order: %v, %v", got.Messages[0].Role, got.Messages[1].Role)
	}
	if got.Messages[1].RemoteID != "msg-remote-2" {
		t.Errorf("RemoteID = %q, want msg-remote-2", got.Messages[1].RemoteID)
	}

	if err := repo.SetTitle(ctx, conv.ID, "Scope 3 exposure"); err != nil {
		t.Fatalf("SetTitle() error = %v", err)
	}
	got, err = repo.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Scope 3 exposure" {
		t.Errorf("Title = %q", got.Title)
	}

	if err := repo.Delete(ctx, conv.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, conv.ID); !domain.IsNoConversationError(err) {
		t.Errorf("GetByID() after delete error = %v, want NoConversationError", err)
	}
}

func TestGetMostRecentOnEmptyDatabase(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetMostRecent(context.Background()); !domain.IsNoConversationError(err) {
		t.Errorf("GetMostRecent() error = %v, want NoConversationError", err)
	}
}

func TestGetByPartialID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	conv := &domain.Conversation{Title: "ESG screening"}
	if err := repo.Create(ctx, conv); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByPartialID(ctx, conv.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetByPartialID() error = %v", err)
	}
	if got.ID != conv.ID {
		t.Errorf("GetByPartialID() = %s, want %s", got.ID, conv.ID)
	}

	if _, err := repo.GetByPartialID(ctx, "zzzzzzzz"); !domain.IsNoConversationError(err) {
		t.Errorf("GetByPartialID() error = %v, want NoConversationError", err)
	}
}
