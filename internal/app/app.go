package app

import (
	"context"

	"github.com/orgball2608/tg-channel-recon/internal/api"
	"github.com/orgball2608/tg-channel-recon/internal/api/apiimpl"
	"github.com/orgball2608/tg-channel-recon/internal/bot"
	"github.com/orgball2608/tg-channel-recon/internal/bot/botimpl"
	"github.com/orgball2608/tg-channel-recon/internal/menu"
	"github.com/orgball2608/tg-channel-recon/internal/ratelimit"
	"github.com/orgball2608/tg-channel-recon/internal/registry"
	"github.com/orgball2608/tg-channel-recon/internal/snapshot"
	"github.com/orgball2608/tg-channel-recon/pkg/config"
	apperrors "github.com/orgball2608/tg-channel-recon/pkg/errors"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		newPacer,
		snapshot.New,
	),
	fx.Provide(
		fx.Annotate(
			apiimpl.New,
			fx.As(new(api.Client)),
		),
		registry.New,
		fx.Annotate(
			botimpl.New,
			fx.As(new(bot.Client)),
		),
		menu.New,
	),
	fx.Invoke(run),
)

func newPacer(cfg *config.Config) *ratelimit.Pacer {
	return ratelimit.NewPacer(cfg.API.RequestsPerSecond, cfg.API.Burst)
}

func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, log logger.Logger, botClient bot.Client, m *menu.Menu) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ctx := context.Background()

				if err := botClient.RestoreSnapshot(ctx); err != nil {
					log.Warn("Couldn't restore cached snapshot", "error", err)
				}

				if _, err := botClient.RefreshChats(ctx); err != nil {
					if apperrors.IsSourceUnavailable(err) {
						log.Warn("Update log unavailable, starting with cached chats")
					} else {
						log.Warn("Couldn't refresh chat list", "error", err)
					}
				}

				if err := m.Run(ctx); err != nil {
					log.Error("Menu exited with error", "error", err)
				}

				if err := shutdowner.Shutdown(); err != nil {
					log.Error("Failed to shut down", "error", err)
				}
			}()
			return nil
		},
	})
}
