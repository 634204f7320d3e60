package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/salman-dev-app/pro-bot-heroku/internal/config"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/dropbox/dropbox_service"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/media"
)

type Bot struct {
	Api       *tgbotapi.BotAPI
	cfg       *config.Config
	processor *media.Processor
	store     UploadStore
}

func New(cfg *config.Config, store UploadStore) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %v", err)
	}

	return &Bot{
		Api:       api,
		cfg:       cfg,
		processor: media.NewProcessor(api),
		store:     store,
	}, nil
}

// Start runs the long-poll update loop until the updates channel closes.
// Commands are handled inline; media messages get their own goroutine so a
// slow upload never blocks command handling. Nothing a single message does
// can take the loop down.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.Api.GetUpdatesChan(u)

	log.Printf("Authorized on account %s", b.Api.Self.UserName)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		msg := update.Message

		if msg.IsCommand() {
			b.handleCommand(msg)
			continue
		}

		if info := media.Extract(msg); info != nil {
			go b.handleMediaMessage(msg, info)
		}
	}
}

func (b *Bot) clientConfig() dropbox_service.ClientConfig {
	return dropbox_service.ClientConfig{
		AppKey:         b.cfg.AppKey,
		AppSecret:      b.cfg.AppSecret,
		RefreshToken:   b.cfg.RefreshToken,
		LogServerURL:   b.cfg.LogServerURL,
		APIBaseURL:     b.cfg.APIBaseURL,
		ContentBaseURL: b.cfg.ContentBaseURL,
	}
}

func (b *Bot) newAuthFlow() *dropbox_service.AuthFlow {
	flow := dropbox_service.NewAuthFlow(b.cfg.AppKey, b.cfg.AppSecret, b.cfg.LogServerURL)
	if b.cfg.AuthBaseURL != "" {
		flow.AuthBaseURL = b.cfg.AuthBaseURL
	}
	if b.cfg.APIBaseURL != "" {
		flow.APIBaseURL = b.cfg.APIBaseURL
	}
	return flow
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.Api.Send(msg); err != nil {
		log.Printf("Error sending message to %d: %v", chatID, err)
	}
}
