package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/orgball2608/tg-channel-recon/internal/domain"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), logger.New(logger.Opts{}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestDirUsesNumericTokenPrefix(t *testing.T) {
	got := Dir("/cache", "123456:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw")
	if want := filepath.Join("/cache", "123456"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestBotIdentityRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.BotID(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if id != 0 {
		t.Errorf("BotID() on fresh store = %d, want 0", id)
	}

	if err := store.SetBot(ctx, 42, "recon_bot"); err != nil {
		t.Fatal(err)
	}
	id, err = store.BotID(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if id != 42 {
		t.Errorf("BotID() = %d, want 42", id)
	}

	// SetBot replaces, never accumulates.
	if err := store.SetBot(ctx, 43, "other_bot"); err != nil {
		t.Fatal(err)
	}
	id, _ = store.BotID(ctx)
	if id != 43 {
		t.Errorf("BotID() after replace = %d, want 43", id)
	}
}

func TestChatsRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	chats := []domain.ChatSummary{
		{ChatID: 2, DisplayName: "Beta"},
		{ChatID: 1, DisplayName: "Alpha", IsPrivate: true},
	}
	if err := store.SaveChats(ctx, chats); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadChats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d chats, want 2", len(loaded))
	}
	if loaded[0].DisplayName != "Alpha" || !loaded[0].IsPrivate {
		t.Errorf("first chat = %+v, want Alpha (private), ordered by title", loaded[0])
	}

	// Saving again with an updated title upserts rather than duplicating.
	if err := store.SaveChats(ctx, []domain.ChatSummary{{ChatID: 2, DisplayName: "Beta 2"}}); err != nil {
		t.Fatal(err)
	}
	loaded, _ = store.LoadChats(ctx)
	if len(loaded) != 2 {
		t.Errorf("got %d chats after upsert, want 2", len(loaded))
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	nextID, msgs, err := store.LoadHistory(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if nextID != 1 || len(msgs) != 0 {
		t.Errorf("fresh history = (%d, %d msgs), want (1, 0)", nextID, len(msgs))
	}

	saved := []domain.StoredMessage{
		{MessageID: 2, Transcript: "line two", Envelope: []byte(`{"message_id":2}`)},
		{MessageID: 1, Transcript: "line one", Envelope: []byte(`{"message_id":1}`)},
	}
	if err := store.SaveHistory(ctx, 1, 5, saved); err != nil {
		t.Fatal(err)
	}

	nextID, msgs, err = store.LoadHistory(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if nextID != 5 {
		t.Errorf("cursor = %d, want 5", nextID)
	}
	if len(msgs) != 2 || msgs[0].MessageID != 1 || msgs[1].MessageID != 2 {
		t.Errorf("messages = %+v, want ordered by message id", msgs)
	}

	// Re-saving the same walk is idempotent.
	if err := store.SaveHistory(ctx, 1, 5, saved); err != nil {
		t.Fatal(err)
	}
	_, msgs, _ = store.LoadHistory(ctx, 1)
	if len(msgs) != 2 {
		t.Errorf("got %d messages after re-save, want 2", len(msgs))
	}
}

func TestResetDropsEverything(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.SetBot(ctx, 42, "recon_bot"); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveChats(ctx, []domain.ChatSummary{{ChatID: 1, DisplayName: "Alpha"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveHistory(ctx, 1, 3, []domain.StoredMessage{
		{MessageID: 1, Transcript: "x", Envelope: []byte(`{}`)},
	}); err != nil {
		t.Fatal(err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	if id, _ := store.BotID(ctx); id != 0 {
		t.Errorf("BotID() after reset = %d, want 0", id)
	}
	if chats, _ := store.LoadChats(ctx); len(chats) != 0 {
		t.Errorf("got %d chats after reset, want 0", len(chats))
	}
	if nextID, msgs, _ := store.LoadHistory(ctx, 1); nextID != 1 || len(msgs) != 0 {
		t.Errorf("history after reset = (%d, %d msgs), want (1, 0)", nextID, len(msgs))
	}
}
