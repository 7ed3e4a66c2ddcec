package registry

import (
	"context"
	"sort"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tg-channel-recon/internal/api"
	"github.com/orgball2608/tg-channel-recon/internal/domain"
	"github.com/orgball2608/tg-channel-recon/internal/history"
	apperrors "github.com/orgball2608/tg-channel-recon/pkg/errors"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
)

// Registry derives the set of chats the bot belongs to from the inbound
// update log and owns one lazily created history reconstructor per chat id.
type Registry struct {
	api    api.Client
	logger logger.Logger
	chats  map[int64]*history.Reconstructor
}

func New(apiClient api.Client, log logger.Logger) *Registry {
	return &Registry{
		api:    apiClient,
		logger: log.WithComponent("Registry"),
		chats:  make(map[int64]*history.Reconstructor),
	}
}

// Refresh replaces the chat list from a fresh update snapshot. A failed
// fetch yields an empty set and ErrSourceUnavailable; the process carries on.
func (g *Registry) Refresh(ctx context.Context) ([]domain.ChatSummary, error) {
	updates, err := g.api.GetUpdates(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSourceUnavailable, "getUpdates failed")
	}
	return g.Scan(updates), nil
}

// Scan extracts chat summaries from an update snapshot: unique per chat id,
// first-seen display name, chats whose most recent event is the bot being
// removed are dropped. The result is ordered by display name.
func (g *Registry) Scan(updates []tgbotapi.Update) []domain.ChatSummary {
	self := g.api.Self()
	seen := make(map[int64]domain.ChatSummary)

	for _, upd := range updates {
		msg := upd.Message
		if msg == nil || msg.Chat == nil {
			continue
		}

		if msg.LeftChatMember != nil && msg.LeftChatMember.ID == self.ID {
			delete(seen, msg.Chat.ID)
			continue
		}

		if _, ok := seen[msg.Chat.ID]; !ok {
			seen[msg.Chat.ID] = domain.ChatSummary{
				DisplayName: chatTitle(msg.Chat),
				ChatID:      msg.Chat.ID,
				IsPrivate:   msg.Chat.IsPrivate(),
			}
		}
	}

	out := make([]domain.ChatSummary, 0, len(seen))
	for _, summary := range seen {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayName < out[j].DisplayName
	})

	for _, summary := range out {
		g.ensure(summary.ChatID)
	}

	return out
}

// Chat returns the reconstructor handle for a chat, creating it on first
// sight. Handles are never replaced.
func (g *Registry) Chat(chatID int64) *history.Reconstructor {
	return g.ensure(chatID)
}

func (g *Registry) ensure(chatID int64) *history.Reconstructor {
	if rec, ok := g.chats[chatID]; ok {
		return rec
	}
	rec := history.New(chatID, g.api, g.logger)
	g.chats[chatID] = rec
	return rec
}

func chatTitle(chat *tgbotapi.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	return domain.PrivateChatName
}
