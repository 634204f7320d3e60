package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/dropbox/dropbox_service"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/media"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/uploads/domain"
)

// handleMediaMessage relays one incoming video or document to Dropbox and
// answers with a direct streaming link. It runs in its own goroutine; every
// failure is converted into a status-message edit here, at the handler
// boundary, and nothing propagates to the update loop.
func (b *Bot) handleMediaMessage(msg *tgbotapi.Message, info *media.Info) {
	if !b.cfg.Configured() {
		b.reply(msg.Chat.ID, "Bot not configured. Please use /start for setup.")
		return
	}

	status, err := b.Api.Send(tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("Processing '%s'...", info.FileName)))
	if err != nil {
		log.Printf("Error sending status message to %d: %v", msg.Chat.ID, err)
		return
	}

	ctx := context.Background()

	client, err := dropbox_service.NewClient(ctx, b.clientConfig())
	if err != nil {
		b.failStatus(status, err)
		return
	}

	fileData, err := b.processor.Download(info)
	if err != nil {
		log.Printf("Media handler error: %v", err)
		b.editStatus(status, "❌ Failed to download the file from Telegram.")
		return
	}

	b.editStatus(status, "Uploading to Dropbox...")

	remotePath := dropbox_service.RemotePath(info.FileName)
	if err := client.UploadFile(ctx, remotePath, fileData); err != nil {
		b.failStatus(status, err)
		return
	}

	b.editStatus(status, "Creating direct streaming link...")

	sharedURL, err := client.SharedLink(ctx, remotePath)
	if err != nil {
		b.failStatus(status, err)
		return
	}

	directURL := dropbox_service.DirectStreamURL(sharedURL)

	b.saveHistory(msg.Chat.ID, info, remotePath, directURL, int64(len(fileData)))

	done := tgbotapi.NewEditMessageText(status.Chat.ID, status.MessageID,
		fmt.Sprintf("✅ *Upload Complete!*\n\n*File:* `%s`\n*Direct Link:* %s",
			info.FileName, directURL))
	done.ParseMode = tgbotapi.ModeMarkdown
	done.DisableWebPagePreview = true
	if _, err := b.Api.Send(done); err != nil {
		log.Printf("Error sending final status to %d: %v", status.Chat.ID, err)
	}
}

func (b *Bot) saveHistory(chatID int64, info *media.Info, remotePath, url string, size int64) {
	record := &domain.Record{
		ChatID:     chatID,
		FileName:   info.FileName,
		RemotePath: remotePath,
		SharedURL:  url,
		SizeBytes:  size,
	}
	if err := b.store.SaveUpload(record); err != nil {
		log.Printf("Error saving upload history: %v", err)
	}
}

func (b *Bot) editStatus(status tgbotapi.Message, text string) {
	edit := tgbotapi.NewEditMessageText(status.Chat.ID, status.MessageID, text)
	if _, err := b.Api.Send(edit); err != nil {
		log.Printf("Error editing status message %d: %v", status.MessageID, err)
	}
}

// failStatus maps an error kind to a user-visible message and logs the
// full detail.
func (b *Bot) failStatus(status tgbotapi.Message, err error) {
	log.Printf("Media handler error: %v", err)

	switch {
	case errors.Is(err, dropbox_service.ErrNotConfigured):
		b.editStatus(status, "Bot not configured. Please use /start for setup.")
	case errors.Is(err, dropbox_service.ErrAuth):
		b.editStatus(status, "❌ Auth Error: The Dropbox Refresh Token is invalid. Please use /start to re-authenticate.")
	case errors.Is(err, dropbox_service.ErrDuplicateLink):
		b.editStatus(status, "❌ A shared link already exists for this file and could not be retrieved.")
	case errors.Is(err, dropbox_service.ErrUpload):
		b.editStatus(status, "❌ Upload failed. Check the logs.")
	default:
		b.editStatus(status, "❌ A critical error occurred. Check the logs.")
	}
}
