package dialog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/planbot/internal/schedule"
	"github.com/m3rciful/planbot/internal/session"
	"github.com/m3rciful/planbot/internal/tracker"
)

type fakeView struct {
	prompts   []string
	refreshed int
	nextMsgID int
}

func (f *fakeView) Prompt(_ context.Context, _ int64, text string) (int, error) {
	f.prompts = append(f.prompts, text)
	f.nextMsgID++
	return f.nextMsgID, nil
}

func (f *fakeView) RefreshDay(_ context.Context, _, _ int64, _ int, _ schedule.Day) error {
	f.refreshed++
	return nil
}

func (f *fakeView) lastPrompt() string {
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeStore struct {
	blocks map[schedule.Day][]schedule.Block
}

func newFakeStore() *fakeStore {
	return &fakeStore{blocks: make(map[schedule.Day][]schedule.Block)}
}

func (f *fakeStore) EnsureUser(context.Context, int64, string, string) error { return nil }

func (f *fakeStore) DayBlocks(_ context.Context, _ int64, day schedule.Day) ([]schedule.Block, error) {
	return f.blocks[day], nil
}

func (f *fakeStore) AddBlock(_ context.Context, _ int64, day schedule.Day, b schedule.Block) error {
	b.Title = schedule.TruncateTitle(b.Title)
	f.blocks[day] = append(f.blocks[day], b)
	return nil
}

func (f *fakeStore) EditBlock(_ context.Context, _ int64, day schedule.Day, index int, patch schedule.BlockPatch) error {
	if index < 0 || index >= len(f.blocks[day]) {
		return schedule.ErrBlockIndex
	}
	if patch.Title != nil {
		f.blocks[day][index].Title = *patch.Title
	}
	if patch.Start != nil {
		f.blocks[day][index].Start = *patch.Start
	}
	if patch.End != nil {
		f.blocks[day][index].End = *patch.End
	}
	return nil
}

func (f *fakeStore) DeleteBlock(_ context.Context, _ int64, day schedule.Day, index int) error {
	if index < 0 || index >= len(f.blocks[day]) {
		return schedule.ErrBlockIndex
	}
	f.blocks[day] = append(f.blocks[day][:index], f.blocks[day][index+1:]...)
	return nil
}

func (f *fakeStore) CopyDay(_ context.Context, _ int64, src, dst schedule.Day) error {
	copied := make([]schedule.Block, len(f.blocks[src]))
	copy(copied, f.blocks[src])
	f.blocks[dst] = copied
	return nil
}

func (f *fakeStore) ClearDay(_ context.Context, _ int64, day schedule.Day) error {
	f.blocks[day] = nil
	return nil
}

type noopDeleter struct{}

func (noopDeleter) Delete(int64, int) error { return nil }

func newTestMachine() (*Machine, *session.MemoryStore, *fakeStore, *fakeView) {
	sessions := session.NewMemoryStore()
	store := newFakeStore()
	view := &fakeView{}
	m := NewMachine(sessions, store, tracker.New(noopDeleter{}), view, time.Millisecond)
	return m, sessions, store, view
}

const (
	testUser int64 = 42
	testChat int64 = 4242
)

func selectDay(t *testing.T, sessions *session.MemoryStore, day schedule.Day) {
	t.Helper()
	if err := sessions.SetDay(context.Background(), testUser, day, 777); err != nil {
		t.Fatal(err)
	}
}

func TestAddFlow(t *testing.T) {
	ctx := context.Background()
	m, sessions, store, view := newTestMachine()
	selectDay(t, sessions, schedule.Monday)

	if err := m.Start(ctx, testUser, testChat, session.ActionAdd); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !m.InProgress(ctx, testUser) {
		t.Fatal("dialog not in progress after Start")
	}

	steps := []struct {
		reply      string
		wantPrompt string
	}{
		{"Работа", msgAskStart},
		{"9:00", msgAskEnd},
		{"10:30", msgActionDone},
	}
	for i, s := range steps {
		if err := m.HandleText(ctx, testUser, testChat, 100+i, s.reply); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got := view.lastPrompt(); got != s.wantPrompt {
			t.Fatalf("step %d prompt = %q, want %q", i, got, s.wantPrompt)
		}
	}

	blocks := store.blocks[schedule.Monday]
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if blocks[0] != (schedule.Block{Title: "Работа", Start: "09:00", End: "10:30"}) {
		t.Errorf("block = %+v", blocks[0])
	}
	if view.refreshed != 1 {
		t.Errorf("refreshed = %d, want 1", view.refreshed)
	}

	st, _ := sessions.State(ctx, testUser)
	if st.InDialog() {
		t.Error("dialog not cleared after commit")
	}
	if st.Day != schedule.Monday || st.DayMessageID != 777 {
		t.Errorf("day context lost: %+v", st)
	}
}

func TestEditFlow(t *testing.T) {
	ctx := context.Background()
	m, sessions, store, view := newTestMachine()
	store.blocks[schedule.Friday] = []schedule.Block{
		{Title: "Спорт", Start: "18:00", End: "19:00"},
	}
	selectDay(t, sessions, schedule.Friday)

	if err := m.Start(ctx, testUser, testChat, session.ActionEdit); err != nil {
		t.Fatal(err)
	}
	if got := view.lastPrompt(); got != msgAskIndexEdit {
		t.Fatalf("start prompt = %q", got)
	}

	for i, reply := range []string{"1", "Бассейн", "17:00", "18:00"} {
		if err := m.HandleText(ctx, testUser, testChat, 200+i, reply); err != nil {
			t.Fatalf("reply %q: %v", reply, err)
		}
	}
	if got := view.lastPrompt(); got != msgActionDone {
		t.Fatalf("final prompt = %q", got)
	}
	want := schedule.Block{Title: "Бассейн", Start: "17:00", End: "18:00"}
	if got := store.blocks[schedule.Friday][0]; got != want {
		t.Errorf("block = %+v, want %+v", got, want)
	}
}

func TestDeleteFlow(t *testing.T) {
	ctx := context.Background()
	m, sessions, store, view := newTestMachine()
	store.blocks[schedule.Monday] = []schedule.Block{
		{Title: "x", Start: "09:00", End: "10:00"},
	}
	selectDay(t, sessions, schedule.Monday)

	if err := m.Start(ctx, testUser, testChat, session.ActionDelete); err != nil {
		t.Fatal(err)
	}
	if err := m.HandleText(ctx, testUser, testChat, 300, "1"); err != nil {
		t.Fatal(err)
	}
	if got := view.lastPrompt(); got != msgActionDone {
		t.Fatalf("prompt = %q", got)
	}
	if len(store.blocks[schedule.Monday]) != 0 {
		t.Error("block not deleted")
	}
}

func TestDeleteOutOfRangeReportsFailure(t *testing.T) {
	ctx := context.Background()
	m, sessions, _, view := newTestMachine()
	selectDay(t, sessions, schedule.Monday)

	if err := m.Start(ctx, testUser, testChat, session.ActionDelete); err != nil {
		t.Fatal(err)
	}
	if err := m.HandleText(ctx, testUser, testChat, 300, "5"); err != nil {
		t.Fatal(err)
	}
	if got := view.lastPrompt(); got != msgActionFailed {
		t.Fatalf("prompt = %q, want failure notice", got)
	}
	// The dialog still completes
	if m.InProgress(ctx, testUser) {
		t.Error("dialog left open after failed commit")
	}
}

func TestNonNumericIndexReprompts(t *testing.T) {
	ctx := context.Background()
	m, sessions, _, view := newTestMachine()
	selectDay(t, sessions, schedule.Monday)

	if err := m.Start(ctx, testUser, testChat, session.ActionDelete); err != nil {
		t.Fatal(err)
	}
	if err := m.HandleText(ctx, testUser, testChat, 300, "первый"); err != nil {
		t.Fatal(err)
	}
	if got := view.lastPrompt(); got != msgBadIndex {
		t.Fatalf("prompt = %q", got)
	}
	if !m.InProgress(ctx, testUser) {
		t.Error("dialog aborted by invalid input")
	}
}

func TestInvalidTimesReprompt(t *testing.T) {
	ctx := context.Background()
	m, sessions, store, view := newTestMachine()
	selectDay(t, sessions, schedule.Tuesday)

	if err := m.Start(ctx, testUser, testChat, session.ActionAdd); err != nil {
		t.Fatal(err)
	}
	if err := m.HandleText(ctx, testUser, testChat, 1, "Обед"); err != nil {
		t.Fatal(err)
	}

	if err := m.HandleText(ctx, testUser, testChat, 2, "25:00"); err != nil {
		t.Fatal(err)
	}
	if got := view.lastPrompt(); got != msgBadStart {
		t.Fatalf("prompt = %q", got)
	}

	if err := m.HandleText(ctx, testUser, testChat, 3, "13:00"); err != nil {
		t.Fatal(err)
	}
	if err := m.HandleText(ctx, testUser, testChat, 4, "12:59"); err != nil {
		t.Fatal(err)
	}
	if got := view.lastPrompt(); got != msgEndBeforeStart {
		t.Fatalf("prompt = %q", got)
	}

	if err := m.HandleText(ctx, testUser, testChat, 5, "14:00"); err != nil {
		t.Fatal(err)
	}
	if got := view.lastPrompt(); got != msgActionDone {
		t.Fatalf("prompt = %q", got)
	}
	if len(store.blocks[schedule.Tuesday]) != 1 {
		t.Fatal("block not added after re-prompts")
	}
}

func TestTitleTruncated(t *testing.T) {
	ctx := context.Background()
	m, sessions, store, _ := newTestMachine()
	selectDay(t, sessions, schedule.Monday)

	if err := m.Start(ctx, testUser, testChat, session.ActionAdd); err != nil {
		t.Fatal(err)
	}
	long := strings.Repeat("а", 30)
	for _, reply := range []string{long, "09:00", "10:00"} {
		if err := m.HandleText(ctx, testUser, testChat, 1, reply); err != nil {
			t.Fatal(err)
		}
	}
	title := store.blocks[schedule.Monday][0].Title
	if got := len([]rune(title)); got != schedule.MaxTitleLen {
		t.Errorf("title = %d runes, want %d", got, schedule.MaxTitleLen)
	}
}

func TestStartWithoutDay(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := newTestMachine()
	if err := m.Start(ctx, testUser, testChat, session.ActionAdd); err == nil {
		t.Fatal("Start without selected day must fail")
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	m, sessions, _, _ := newTestMachine()
	selectDay(t, sessions, schedule.Monday)

	if err := m.Start(ctx, testUser, testChat, session.ActionAdd); err != nil {
		t.Fatal(err)
	}
	if err := m.Reset(ctx, testUser); err != nil {
		t.Fatal(err)
	}
	if m.InProgress(ctx, testUser) {
		t.Error("dialog survives Reset")
	}
	st, _ := sessions.State(ctx, testUser)
	if st.Day != schedule.Monday {
		t.Error("day context lost on Reset")
	}
}

func TestTextIgnoredOutsideDialog(t *testing.T) {
	ctx := context.Background()
	m, _, _, view := newTestMachine()
	if err := m.HandleText(ctx, testUser, testChat, 1, "привет"); err != nil {
		t.Fatal(err)
	}
	if len(view.prompts) != 0 {
		t.Errorf("unexpected prompts: %v", view.prompts)
	}
}
