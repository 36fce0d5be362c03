package notifyimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/perhitsiksha/events-ingest/internal/notify"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// TelegramImpl sends run summaries to a Telegram chat. Without a token it
// degrades to a no-op so the pipeline works unconfigured.
type TelegramImpl struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger logger.Logger
}

func New(opts Opts) (*TelegramImpl, error) {
	if opts.Config.Telegram.Token == "" {
		opts.Logger.Debug("Telegram notifications disabled")
		return &TelegramImpl{logger: opts.Logger}, nil
	}

	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramImpl{
		bot:    bot,
		chatID: opts.Config.Telegram.ChatID,
		logger: opts.Logger,
	}, nil
}

var _ notify.Client = (*TelegramImpl)(nil)

func (t *TelegramImpl) Notify(message string) {
	if t.bot == nil {
		return
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, message)); err != nil {
		t.logger.Error("Failed to send notification", "chatID", t.chatID, "error", err)
		return
	}

	t.logger.Info("Notification sent", "chatID", t.chatID)
}
