package botimpl

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tg-channel-recon/internal/domain"
	"github.com/orgball2608/tg-channel-recon/internal/registry"
	"github.com/orgball2608/tg-channel-recon/internal/snapshot"
	"github.com/orgball2608/tg-channel-recon/pkg/config"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
)

const testChatID int64 = -100123

type fakeAPI struct {
	self        tgbotapi.User
	updates     []tgbotapi.Update
	originals   map[int]tgbotapi.Message
	files       map[string]string
	nextProbeID int

	forwardCalls int
	deletedIDs   []int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		self:      tgbotapi.User{ID: 99, UserName: "recon_bot", IsBot: true},
		originals: make(map[int]tgbotapi.Message),
		files:     make(map[string]string),
	}
}

func (f *fakeAPI) Self() tgbotapi.User { return f.self }

func (f *fakeAPI) GetUpdates(ctx context.Context) ([]tgbotapi.Update, error) {
	return f.updates, nil
}

func (f *fakeAPI) GetChat(ctx context.Context, chatID int64) (tgbotapi.Chat, error) {
	return tgbotapi.Chat{ID: chatID, Title: "Target", Type: "supergroup"}, nil
}

func (f *fakeAPI) GetChatAdministrators(ctx context.Context, chatID int64) ([]tgbotapi.ChatMember, error) {
	return nil, nil
}

func (f *fakeAPI) GetChatMemberCount(ctx context.Context, chatID int64) (int, error) {
	return 2, nil
}

func (f *fakeAPI) SendMessage(ctx context.Context, chatID int64, text string, silent bool) (tgbotapi.Message, error) {
	return tgbotapi.Message{MessageID: f.nextProbeID}, nil
}

func (f *fakeAPI) ForwardMessage(ctx context.Context, chatID, fromChatID int64, messageID int) (tgbotapi.Message, error) {
	original, ok := f.originals[messageID]
	if !ok {
		return tgbotapi.Message{}, tgbotapi.Error{Code: 400, Message: "message to forward not found"}
	}
	f.forwardCalls++
	fwd := original
	fwd.MessageID = messageID + 1000
	return fwd, nil
}

func (f *fakeAPI) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	f.deletedIDs = append(f.deletedIDs, messageID)
	return nil
}

func (f *fakeAPI) SendDocument(ctx context.Context, chatID int64, path string) error {
	return nil
}

func (f *fakeAPI) LeaveChat(ctx context.Context, chatID int64) error { return nil }

func (f *fakeAPI) FileURL(ctx context.Context, fileID string) (string, error) {
	return "https://files.local/" + fileID, nil
}

func (f *fakeAPI) DownloadFile(ctx context.Context, url string, w io.Writer) (int64, error) {
	content := f.files[filepath.Base(url)]
	n, err := w.Write([]byte(content))
	return int64(n), err
}

func photoMessage(uniqueID, fileID string) tgbotapi.Message {
	return tgbotapi.Message{
		ForwardDate: 1700000000,
		Photo:       []tgbotapi.PhotoSize{{FileID: fileID, FileUniqueID: uniqueID, Width: 800}},
	}
}

func documentMessage(name, fileID string) tgbotapi.Message {
	return tgbotapi.Message{
		ForwardDate: 1700000000,
		Document:    &tgbotapi.Document{FileID: fileID, FileName: name},
	}
}

func newTestBot(t *testing.T, fake *fakeAPI) (*BotImpl, *snapshot.Store) {
	t.Helper()

	log := logger.New(logger.Opts{})
	store, err := snapshot.Open(t.TempDir(), log)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{}
	cfg.Download.Dir = t.TempDir()

	return New(Opts{
		API:      fake,
		Registry: registry.New(fake, log),
		Snapshot: store,
		Logger:   log,
		Config:   cfg,
	}), store
}

func TestDownloadAllHonorsMode(t *testing.T) {
	fake := newFakeAPI()
	fake.originals[1] = photoMessage("photo1", "p1")
	fake.originals[2] = documentMessage("report.pdf", "d1")
	fake.nextProbeID = 3
	fake.files["p1"] = "PNGDATA"
	fake.files["d1"] = "PDFDATA"

	b, _ := newTestBot(t, fake)
	count, err := b.DownloadAll(context.Background(), testChatID, domain.ModeMedia)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("DownloadAll() = %d files, want 1", count)
	}

	dir := filepath.Join(b.Config.Download.Dir, "100123")
	data, err := os.ReadFile(filepath.Join(dir, "photo1.png"))
	if err != nil {
		t.Fatalf("photo not downloaded: %v", err)
	}
	if string(data) != "PNGDATA" {
		t.Errorf("photo content = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "report.pdf")); !os.IsNotExist(err) {
		t.Error("document should not be downloaded in media mode")
	}
}

func TestExportTranscriptWritesMessagesFile(t *testing.T) {
	fake := newFakeAPI()
	fake.originals[1] = tgbotapi.Message{ForwardDate: 1700000000, Text: "hello"}
	fake.originals[2] = tgbotapi.Message{ForwardDate: 1700000100, Text: "world"}
	fake.nextProbeID = 3

	b, _ := newTestBot(t, fake)
	path, err := b.ExportTranscript(context.Background(), testChatID)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "messages.txt" {
		t.Errorf("transcript path = %q, want messages.txt", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") || !strings.Contains(string(data), "world") {
		t.Errorf("transcript content = %q", data)
	}
}

func TestDeleteAllTargetsOriginalIDs(t *testing.T) {
	fake := newFakeAPI()
	fake.originals[1] = tgbotapi.Message{ForwardDate: 1700000000, Text: "one"}
	fake.originals[2] = tgbotapi.Message{ForwardDate: 1700000100, Text: "two"}
	fake.nextProbeID = 3

	b, _ := newTestBot(t, fake)
	count, err := b.DeleteAll(context.Background(), testChatID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("DeleteAll() = %d, want 2", count)
	}

	targeted := make(map[int]bool)
	for _, id := range fake.deletedIDs {
		targeted[id] = true
	}
	if !targeted[1] || !targeted[2] {
		t.Errorf("originals 1 and 2 not deleted, deleted ids = %v", fake.deletedIDs)
	}
}

func TestRestoreSnapshotDiscardsForeignState(t *testing.T) {
	fake := newFakeAPI()
	b, store := newTestBot(t, fake)
	ctx := context.Background()

	// State written by a different bot must not survive.
	if err := store.SetBot(ctx, 7, "old_bot"); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveChats(ctx, []domain.ChatSummary{{ChatID: 1, DisplayName: "Stale"}}); err != nil {
		t.Fatal(err)
	}

	if err := b.RestoreSnapshot(ctx); err != nil {
		t.Fatal(err)
	}
	if len(b.Chats()) != 0 {
		t.Errorf("stale chats survived: %+v", b.Chats())
	}
	if id, _ := store.BotID(ctx); id != fake.self.ID {
		t.Errorf("BotID() = %d, want %d", id, fake.self.ID)
	}
}

func TestRestoreSnapshotResumesCursor(t *testing.T) {
	fake := newFakeAPI()
	fake.updates = []tgbotapi.Update{{
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: testChatID, Title: "Target", Type: "supergroup"}},
	}}
	fake.originals[1] = tgbotapi.Message{ForwardDate: 1700000000, Text: "one"}
	fake.originals[2] = tgbotapi.Message{ForwardDate: 1700000100, Text: "two"}
	fake.nextProbeID = 3

	b, store := newTestBot(t, fake)
	ctx := context.Background()

	if err := b.RestoreSnapshot(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := b.RefreshChats(ctx); err != nil {
		t.Fatal(err)
	}
	lines, err := b.History(ctx, testChatID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d transcript lines, want 2", len(lines))
	}

	// A second process over the same snapshot picks up where this one left off.
	fake2 := newFakeAPI()
	fake2.nextProbeID = 3
	log := logger.New(logger.Opts{})
	cfg := &config.Config{}
	cfg.Download.Dir = t.TempDir()
	b2 := New(Opts{
		API:      fake2,
		Registry: registry.New(fake2, log),
		Snapshot: store,
		Logger:   log,
		Config:   cfg,
	})

	if err := b2.RestoreSnapshot(ctx); err != nil {
		t.Fatal(err)
	}
	if len(b2.Chats()) != 1 {
		t.Fatalf("restored %d chats, want 1", len(b2.Chats()))
	}

	lines, err = b2.History(ctx, testChatID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Errorf("restored transcript has %d lines, want 2", len(lines))
	}
	if fake2.forwardCalls != 0 {
		t.Errorf("restored walk issued %d forwards, want 0", fake2.forwardCalls)
	}
}
