package api

import (
	"context"
	"io"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client is the Bot API surface the toolkit depends on. Every call is a
// single blocking HTTP round-trip.
type Client interface {
	Self() tgbotapi.User

	GetUpdates(ctx context.Context) ([]tgbotapi.Update, error)
	GetChat(ctx context.Context, chatID int64) (tgbotapi.Chat, error)
	GetChatAdministrators(ctx context.Context, chatID int64) ([]tgbotapi.ChatMember, error)
	GetChatMemberCount(ctx context.Context, chatID int64) (int, error)

	SendMessage(ctx context.Context, chatID int64, text string, silent bool) (tgbotapi.Message, error)
	ForwardMessage(ctx context.Context, chatID, fromChatID int64, messageID int) (tgbotapi.Message, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SendDocument(ctx context.Context, chatID int64, path string) error
	LeaveChat(ctx context.Context, chatID int64) error

	FileURL(ctx context.Context, fileID string) (string, error)
	DownloadFile(ctx context.Context, url string, w io.Writer) (int64, error)
}
