package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kingcader/attache/internal/fault"
	"github.com/kingcader/attache/internal/models"
	"github.com/kingcader/attache/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *store.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Task{}, &models.FollowUpSuggestion{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	st := store.New(gdb)
	svc, err := NewService(Opts{Tasks: st, Suggestions: st})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, st
}

func strptr(s string) *string { return &s }

func TestCreate_RequiresTitle(t *testing.T) {
	svc, _ := newTestService(t)

	for _, title := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), CreateInput{Title: title})
		if !fault.IsValidation(err) {
			t.Fatalf("Create(%q) error = %v, want ValidationError", title, err)
		}
		if !strings.Contains(err.Error(), "Title is required and must be a non-empty string") {
			t.Errorf("error = %q", err.Error())
		}
	}

	// No placeholder row was written.
	got, err := svc.List(context.Background(), "", "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("failed create left %d rows behind", len(got))
	}
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.Create(context.Background(), CreateInput{Title: "chase invoice"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("Priority = %q, want medium", task.Priority)
	}
	if task.Status != models.TaskTodo {
		t.Errorf("Status = %q, want todo", task.Status)
	}
	if task.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", task.DueDate)
	}
}

func TestCreate_InvalidEnums(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Title: "x", Priority: "critical"})
	if !fault.IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if !strings.Contains(err.Error(), "low, medium, high") {
		t.Errorf("error = %q, want allowed priorities", err.Error())
	}

	_, err = svc.Create(context.Background(), CreateInput{Title: "x", Status: "archived"})
	if !fault.IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if !strings.Contains(err.Error(), "todo, in_progress, completed, cancelled") {
		t.Errorf("error = %q, want allowed statuses", err.Error())
	}
}

func TestCreate_DueDateFormats(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.Create(context.Background(), CreateInput{Title: "x", DueDate: "2026-04-01"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2026-04-01" {
		t.Errorf("DueDate = %v", task.DueDate)
	}

	_, err = svc.Create(context.Background(), CreateInput{Title: "x", DueDate: "next tuesday"})
	if !fault.IsValidation(err) {
		t.Errorf("error = %v, want ValidationError for bad date", err)
	}
}

func TestUpdate_StatusOnlyPath(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "x"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Update(ctx, created.ID, Patch{Status: strptr(models.TaskInProgress)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Status != models.TaskInProgress {
		t.Errorf("Status = %q, want in_progress", got.Status)
	}
	if got.Title != "x" {
		t.Errorf("status-only update touched Title: %q", got.Title)
	}
}

func TestUpdate_InvalidStatusLeavesTaskUnmodified(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "x"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Update(ctx, created.ID, Patch{Status: strptr("archived")})
	if !fault.IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if !strings.Contains(err.Error(), "todo, in_progress, completed, cancelled") {
		t.Errorf("error = %q, want allowed values named", err.Error())
	}

	reloaded, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if reloaded.Status != models.TaskTodo {
		t.Errorf("task modified despite invalid status: %q", reloaded.Status)
	}
}

func TestUpdate_StatusWithOtherFieldsTakesFieldPath(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "x"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Update(ctx, created.ID, Patch{
		Title:  strptr("renamed"),
		Status: strptr(models.TaskCompleted),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Title != "renamed" {
		t.Errorf("Title = %q, want renamed", got.Title)
	}
	if got.Status != models.TaskCompleted {
		t.Errorf("Status = %q, field path should still apply status", got.Status)
	}
}

func TestUpdate_Reopen(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "x", Status: models.TaskCompleted})
	got, err := svc.Update(ctx, created.ID, Patch{Status: strptr(models.TaskTodo)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Status != models.TaskTodo {
		t.Errorf("Status = %q, reopen via explicit status set should work", got.Status)
	}
}

func TestUpdate_EmptyPatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "x"})
	_, err := svc.Update(ctx, created.ID, Patch{})
	if !fault.IsValidation(err) {
		t.Errorf("error = %v, want ValidationError for empty patch", err)
	}
}

func TestUpdate_ClearDueDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "x", DueDate: "2026-04-01"})
	got, err := svc.Update(ctx, created.ID, Patch{DueDate: strptr("")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.DueDate != nil {
		t.Errorf("DueDate = %v, want cleared", got.DueDate)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "missing", Patch{Status: strptr(models.TaskTodo)})
	if !fault.IsNotFound(err) {
		t.Errorf("error = %v, want NotFoundError", err)
	}
}

func TestList_InvalidFilters(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), "archived", "")
	if !fault.IsValidation(err) {
		t.Errorf("status filter error = %v, want ValidationError", err)
	}
	_, err = svc.List(context.Background(), "", "someday")
	if !fault.IsValidation(err) {
		t.Errorf("due filter error = %v, want ValidationError", err)
	}
}

func TestPromoteSuggestion(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	sug := &models.FollowUpSuggestion{
		ID: "s-1", ThreadID: "t-1",
		DraftSubject: "Follow up: Invoice #42",
		DraftBody:    "Just checking in.",
		Status:       models.SuggestionPending,
	}
	if err := st.CreateSuggestion(ctx, sug); err != nil {
		t.Fatalf("create suggestion: %v", err)
	}

	task, err := svc.PromoteSuggestion(ctx, "s-1", PromoteInput{Priority: models.PriorityHigh})
	if err != nil {
		t.Fatalf("PromoteSuggestion() error = %v", err)
	}
	if task.Title != "Follow up: Invoice #42" {
		t.Errorf("Title = %q, want draft subject", task.Title)
	}
	if task.Description != "Just checking in." {
		t.Errorf("Description = %q, want draft body", task.Description)
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("Priority = %q, want override", task.Priority)
	}
	if task.SuggestionID == nil || *task.SuggestionID != "s-1" {
		t.Errorf("SuggestionID = %v, want back-reference", task.SuggestionID)
	}

	promoted, err := st.SuggestionByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("reload suggestion: %v", err)
	}
	if promoted.Status != models.SuggestionApproved {
		t.Errorf("suggestion status = %q, want approved", promoted.Status)
	}

	// Terminal suggestions cannot be promoted again.
	_, err = svc.PromoteSuggestion(ctx, "s-1", PromoteInput{})
	if !fault.IsValidation(err) {
		t.Errorf("second promote error = %v, want ValidationError", err)
	}
}

func TestPromoteSuggestion_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PromoteSuggestion(context.Background(), "missing", PromoteInput{})
	if !fault.IsNotFound(err) {
		t.Errorf("error = %v, want NotFoundError", err)
	}
}

func TestParseDueDate_RFC3339(t *testing.T) {
	got, err := parseDueDate("2026-04-01T15:00:00Z")
	if err != nil {
		t.Fatalf("parseDueDate() error = %v", err)
	}
	want := time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseDueDate() = %v, want %v", got, want)
	}
}
