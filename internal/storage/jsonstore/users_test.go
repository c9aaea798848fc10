package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/schedule"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	os.Exit(m.Run())
}

func newTestUserStore(t *testing.T) *UserStore {
	t.Helper()
	return NewUserStore(filepath.Join(t.TempDir(), "users.json"))
}

func TestEnsureUserIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestUserStore(t)

	if err := s.EnsureUser(ctx, 42, "Ivan", "Petrov"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	if err := s.AddBlock(ctx, 42, schedule.Monday, schedule.Block{Title: "Работа", Start: "09:00", End: "18:00"}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}

	// Second call must not wipe existing data
	if err := s.EnsureUser(ctx, 42, "Ivan", "Petrov"); err != nil {
		t.Fatalf("EnsureUser repeat: %v", err)
	}
	blocks, err := s.DayBlocks(ctx, 42, schedule.Monday)
	if err != nil {
		t.Fatalf("DayBlocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
}

func TestAddBlockTruncatesTitle(t *testing.T) {
	ctx := context.Background()
	s := newTestUserStore(t)
	if err := s.EnsureUser(ctx, 1, "A", "B"); err != nil {
		t.Fatal(err)
	}

	long := "очень длинное название блока"
	if err := s.AddBlock(ctx, 1, schedule.Tuesday, schedule.Block{Title: long, Start: "10:00", End: "11:00"}); err != nil {
		t.Fatal(err)
	}
	blocks, err := s.DayBlocks(ctx, 1, schedule.Tuesday)
	if err != nil {
		t.Fatal(err)
	}
	if got := []rune(blocks[0].Title); len(got) != schedule.MaxTitleLen {
		t.Errorf("title length = %d runes, want %d", len(got), schedule.MaxTitleLen)
	}
}

func TestDeleteBlockOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := newTestUserStore(t)
	if err := s.EnsureUser(ctx, 1, "A", "B"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBlock(ctx, 1, schedule.Monday, schedule.Block{Title: "x", Start: "09:00", End: "10:00"}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteBlock(ctx, 1, schedule.Monday, 0); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	// Same index again must fail: the list is empty now
	if err := s.DeleteBlock(ctx, 1, schedule.Monday, 0); err != schedule.ErrBlockIndex {
		t.Fatalf("second delete = %v, want ErrBlockIndex", err)
	}
	if err := s.DeleteBlock(ctx, 1, schedule.Monday, -1); err != schedule.ErrBlockIndex {
		t.Fatalf("negative index = %v, want ErrBlockIndex", err)
	}
}

func TestEditBlockPartialPatch(t *testing.T) {
	ctx := context.Background()
	s := newTestUserStore(t)
	if err := s.EnsureUser(ctx, 1, "A", "B"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBlock(ctx, 1, schedule.Friday, schedule.Block{Title: "Спорт", Start: "18:00", End: "19:00"}); err != nil {
		t.Fatal(err)
	}

	start := "17:30"
	if err := s.EditBlock(ctx, 1, schedule.Friday, 0, schedule.BlockPatch{Start: &start}); err != nil {
		t.Fatal(err)
	}
	blocks, err := s.DayBlocks(ctx, 1, schedule.Friday)
	if err != nil {
		t.Fatal(err)
	}
	if blocks[0].Start != "17:30" || blocks[0].Title != "Спорт" || blocks[0].End != "19:00" {
		t.Errorf("patched block = %+v", blocks[0])
	}
}

func TestCopyDayDeepCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestUserStore(t)
	if err := s.EnsureUser(ctx, 1, "A", "B"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBlock(ctx, 1, schedule.Monday, schedule.Block{Title: "Пара", Start: "09:00", End: "10:30"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CopyDay(ctx, 1, schedule.Monday, schedule.Tuesday); err != nil {
		t.Fatal(err)
	}

	// Mutating the source afterwards must not affect the copy
	title := "Другая пара"
	if err := s.EditBlock(ctx, 1, schedule.Monday, 0, schedule.BlockPatch{Title: &title}); err != nil {
		t.Fatal(err)
	}
	blocks, err := s.DayBlocks(ctx, 1, schedule.Tuesday)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || blocks[0].Title != "Пара" {
		t.Errorf("copied day = %+v", blocks)
	}
}

func TestClearDay(t *testing.T) {
	ctx := context.Background()
	s := newTestUserStore(t)
	if err := s.EnsureUser(ctx, 1, "A", "B"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBlock(ctx, 1, schedule.Sunday, schedule.Block{Title: "Отдых", Start: "12:00", End: "20:00"}); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearDay(ctx, 1, schedule.Sunday); err != nil {
		t.Fatal(err)
	}
	blocks, err := s.DayBlocks(ctx, 1, schedule.Sunday)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 0 {
		t.Errorf("blocks after clear = %d, want 0", len(blocks))
	}
}

func TestMalformedUsersFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewUserStore(path)

	// Malformed file reads as empty; the store recovers on next write
	if _, err := s.DayBlocks(ctx, 1, schedule.Monday); err != schedule.ErrUserNotFound {
		t.Fatalf("DayBlocks = %v, want ErrUserNotFound", err)
	}
	if err := s.EnsureUser(ctx, 1, "A", "B"); err != nil {
		t.Fatalf("EnsureUser after malformed: %v", err)
	}
	if _, err := s.DayBlocks(ctx, 1, schedule.Monday); err != nil {
		t.Fatalf("DayBlocks after recover: %v", err)
	}
}

func TestUnknownUser(t *testing.T) {
	ctx := context.Background()
	s := newTestUserStore(t)
	if err := s.AddBlock(ctx, 99, schedule.Monday, schedule.Block{Title: "x", Start: "09:00", End: "10:00"}); err != schedule.ErrUserNotFound {
		t.Fatalf("AddBlock = %v, want ErrUserNotFound", err)
	}
}
