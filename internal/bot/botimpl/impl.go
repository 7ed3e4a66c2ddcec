package botimpl

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tg-channel-recon/internal/api"
	"github.com/orgball2608/tg-channel-recon/internal/bot"
	"github.com/orgball2608/tg-channel-recon/internal/domain"
	"github.com/orgball2608/tg-channel-recon/internal/history"
	"github.com/orgball2608/tg-channel-recon/internal/registry"
	"github.com/orgball2608/tg-channel-recon/internal/snapshot"
	"github.com/orgball2608/tg-channel-recon/pkg/config"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	API      api.Client
	Registry *registry.Registry
	Snapshot *snapshot.Store
	Logger   logger.Logger
	Config   *config.Config
}

type BotImpl struct {
	API      api.Client
	Registry *registry.Registry
	Snapshot *snapshot.Store
	Logger   logger.Logger
	Config   *config.Config

	chats []domain.ChatSummary
}

func New(opts Opts) *BotImpl {
	return &BotImpl{
		API:      opts.API,
		Registry: opts.Registry,
		Snapshot: opts.Snapshot,
		Logger:   opts.Logger.WithComponent("Bot"),
		Config:   opts.Config,
	}
}

var _ bot.Client = (*BotImpl)(nil)

func (b *BotImpl) Identity() tgbotapi.User {
	return b.API.Self()
}

// RestoreSnapshot reloads cached state and revalidates it against the live
// API. A snapshot written by a different bot is discarded wholesale.
func (b *BotImpl) RestoreSnapshot(ctx context.Context) error {
	storedID, err := b.Snapshot.BotID(ctx)
	if err != nil {
		return err
	}

	self := b.API.Self()
	if storedID != 0 && storedID != self.ID {
		b.Logger.Warn("Cached snapshot belongs to a different bot, discarding",
			"cachedID", storedID, "botID", self.ID)
		if err := b.Snapshot.Reset(ctx); err != nil {
			return err
		}
	}

	if err := b.Snapshot.SetBot(ctx, self.ID, self.UserName); err != nil {
		return err
	}

	chats, err := b.Snapshot.LoadChats(ctx)
	if err != nil {
		return err
	}

	for _, chat := range chats {
		rec := b.Registry.Chat(chat.ChatID)
		nextID, msgs, err := b.Snapshot.LoadHistory(ctx, chat.ChatID)
		if err != nil {
			return err
		}
		if err := rec.Restore(nextID, msgs); err != nil {
			b.Logger.Warn("Corrupt cached history, starting fresh",
				"chatID", chat.ChatID, "error", err)
		}
	}

	b.chats = chats
	if len(chats) > 0 {
		b.Logger.Info("Snapshot restored", "chats", len(chats))
	}
	return nil
}

func (b *BotImpl) RefreshChats(ctx context.Context) ([]domain.ChatSummary, error) {
	chats, err := b.Registry.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	b.chats = chats
	if err := b.Snapshot.SaveChats(ctx, chats); err != nil {
		b.Logger.Warn("Couldn't persist chat list", "error", err)
	}
	return chats, nil
}

func (b *BotImpl) Chats() []domain.ChatSummary {
	return b.chats
}

func (b *BotImpl) History(ctx context.Context, chatID int64, onProgress history.Progress) ([]string, error) {
	rec := b.Registry.Chat(chatID)
	lines, err := rec.Fetch(ctx, onProgress)
	if err != nil {
		return nil, err
	}

	b.persistHistory(ctx, chatID, rec)
	return lines, nil
}

func (b *BotImpl) persistHistory(ctx context.Context, chatID int64, rec *history.Reconstructor) {
	msgs, err := rec.Snapshot()
	if err != nil {
		b.Logger.Warn("Couldn't serialize history snapshot", "chatID", chatID, "error", err)
		return
	}
	if err := b.Snapshot.SaveHistory(ctx, chatID, rec.NextID(), msgs); err != nil {
		b.Logger.Warn("Couldn't persist history snapshot", "chatID", chatID, "error", err)
	}
}

// chatDir maps a chat id to its per-chat output directory name, dropping
// the sign so supergroup ids don't produce hidden-looking paths.
func chatDir(chatID int64) string {
	return strings.ReplaceAll(strconv.FormatInt(chatID, 10), "-", "")
}
