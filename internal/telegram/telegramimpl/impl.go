package telegramimpl

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"

	"github.com/icewatch/x-monitor/internal/telegram"
	"github.com/icewatch/x-monitor/pkg/config"
	"github.com/icewatch/x-monitor/pkg/logger"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	TgBot  *tgbotapi.BotAPI
	Logger logger.Logger
	Config *config.Config
}

// New builds the notifier. Without a token it degrades to a disabled
// notifier rather than failing startup; telegram notices are optional,
// not a hard dependency of ingestion.
func New(opts Opts) (*TelegramImpl, error) {
	impl := &TelegramImpl{
		Logger: opts.Logger.WithComponent("TelegramNotifier"),
		Config: opts.Config,
	}

	if opts.Config.Telegram.Token == "" {
		impl.Logger.Info("Telegram token not configured, notifications disabled")
		return impl, nil
	}

	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Error creating telegram bot", "error", err)
		return nil, err
	}

	impl.TgBot = tgBot
	return impl, nil
}

var _ telegram.Notifier = (*TelegramImpl)(nil)

// SendMessage delivers text to the configured admin chat. No-op when the
// notifier is disabled.
func (tg *TelegramImpl) SendMessage(text string) {
	if tg.TgBot == nil {
		return
	}

	msg := tgbotapi.NewMessage(tg.Config.Telegram.ChatID, text)
	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending telegram message",
			"chatID", tg.Config.Telegram.ChatID,
			"error", err)
		return
	}

	tg.Logger.Debug("Telegram message sent", "chatID", tg.Config.Telegram.ChatID)
}
