package apiimpl

import (
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tg-channel-recon/internal/api"
	"github.com/orgball2608/tg-channel-recon/internal/ratelimit"
	"github.com/orgball2608/tg-channel-recon/pkg/config"
	apperrors "github.com/orgball2608/tg-channel-recon/pkg/errors"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
	Pacer  *ratelimit.Pacer
}

type APIImpl struct {
	bot    *tgbotapi.BotAPI
	http   *http.Client
	pacer  *ratelimit.Pacer
	logger logger.Logger
}

// New creates the Bot API client. The underlying library performs a getMe
// call on construction, so an invalid token fails here and nowhere else.
func New(opts Opts) (*APIImpl, error) {
	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Bot identity check failed, token might be invalid", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrAuthInvalid, "getMe failed")
	}

	opts.Logger.Info("Bot loaded",
		"firstName", bot.Self.FirstName,
		"username", bot.Self.UserName)

	return &APIImpl{
		bot:    bot,
		http:   &http.Client{Timeout: 5 * time.Minute},
		pacer:  opts.Pacer,
		logger: opts.Logger.WithComponent("BotAPI"),
	}, nil
}

var _ api.Client = (*APIImpl)(nil)

func (c *APIImpl) Self() tgbotapi.User {
	return c.bot.Self
}
