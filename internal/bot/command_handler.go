package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStartCommand(msg)
	case "auth":
		b.handleAuthCommand(msg)
	case "history":
		b.handleHistoryCommand(msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Send me a video or a document to upload it, or use /start.")
	}
}

// handleStartCommand greets a configured bot or walks the operator through
// the one-time Dropbox setup.
func (b *Bot) handleStartCommand(msg *tgbotapi.Message) {
	name := "there"
	if msg.From != nil && msg.From.FirstName != "" {
		name = msg.From.FirstName
	}

	if b.cfg.Configured() {
		b.reply(msg.Chat.ID, fmt.Sprintf("Hello %s! I am fully configured and ready.", name))
		return
	}

	authURL := b.newAuthFlow().BeginAuthorization()

	text := fmt.Sprintf("Hello %s! <b>Welcome to the one-time setup.</b>\n\n"+
		"1. Click here to authorize the bot: <a href=\"%s\"><b>Authorize Now</b></a>\n"+
		"2. Click 'Allow' and copy the unique code Dropbox gives you.\n"+
		"3. Send the code back to me like this: /auth YOUR_CODE",
		name, authURL)

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	reply.DisableWebPagePreview = true
	if _, err := b.Api.Send(reply); err != nil {
		log.Printf("Error sending setup instructions to %d: %v", msg.Chat.ID, err)
	}
}

// handleAuthCommand exchanges a pasted authorization code for the
// permanent refresh token. The token is not persisted here: the operator
// must set it as a config var and restart, which keeps secrets out of the
// process entirely.
func (b *Bot) handleAuthCommand(msg *tgbotapi.Message) {
	code := strings.TrimSpace(msg.CommandArguments())
	if code == "" {
		b.reply(msg.Chat.ID, "Usage: /auth <authorization_code>")
		return
	}

	refreshToken, err := b.newAuthFlow().Finish(context.Background(), code)
	if err != nil {
		log.Printf("Auth command error: %v", err)
		b.reply(msg.Chat.ID, "❌ Authentication failed. Please try /start again.")
		return
	}

	text := "✅ <b>SUCCESS!</b> Here is your permanent Refresh Token.\n\n" +
		"<b>FINAL STEP:</b> You must now add this token to your hosting config. Run:\n" +
		"<code>heroku config:set DROPBOX_REFRESH_TOKEN=THE_TOKEN_BELOW</code>\n\n" +
		"Copy the token now:"

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	if _, err := b.Api.Send(reply); err != nil {
		log.Printf("Error sending auth success to %d: %v", msg.Chat.ID, err)
	}

	b.reply(msg.Chat.ID, refreshToken)
}

func (b *Bot) handleHistoryCommand(msg *tgbotapi.Message) {
	records, err := b.store.RecentUploads(msg.Chat.ID, 10)
	if err != nil {
		log.Printf("Error reading upload history for %d: %v", msg.Chat.ID, err)
		b.reply(msg.Chat.ID, "❌ Could not read the upload history.")
		return
	}

	if len(records) == 0 {
		b.reply(msg.Chat.ID, "No uploads yet. Send me a video or a document.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Your recent uploads:\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("\n• %s (%s)\n%s\n",
			r.FileName, r.UploadedAt.Format("2006-01-02 15:04"), r.SharedURL))
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.DisableWebPagePreview = true
	if _, err := b.Api.Send(reply); err != nil {
		log.Printf("Error sending history to %d: %v", msg.Chat.ID, err)
	}
}
