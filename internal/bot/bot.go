package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tg-channel-recon/internal/domain"
	"github.com/orgball2608/tg-channel-recon/internal/history"
)

// Client exposes the toolkit's caller-facing operations. Reads are served
// from already-reconstructed state; history-backed operations trigger a
// reconstruction first.
type Client interface {
	Identity() tgbotapi.User

	RestoreSnapshot(ctx context.Context) error
	RefreshChats(ctx context.Context) ([]domain.ChatSummary, error)
	Chats() []domain.ChatSummary

	ChatInfo(ctx context.Context, chatID int64) (*domain.ChatInfo, error)
	IsInChat(ctx context.Context, chatID int64) bool

	History(ctx context.Context, chatID int64, onProgress history.Progress) ([]string, error)
	FileCounts(ctx context.Context, chatID int64) (domain.FileCounts, map[string]int, error)
	Files(ctx context.Context, chatID int64, mode domain.DownloadMode) ([]domain.FileDescriptor, error)
	DownloadAll(ctx context.Context, chatID int64, mode domain.DownloadMode) (int, error)
	ExportTranscript(ctx context.Context, chatID int64) (string, error)

	SendMessage(ctx context.Context, chatID int64, text string) error
	SendFile(ctx context.Context, chatID int64, path string) error
	DeleteAll(ctx context.Context, chatID int64) (int, error)
	LeaveChat(ctx context.Context, chatID int64) error
}
