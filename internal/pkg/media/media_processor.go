package media

import (
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Info describes the single file payload of an incoming message.
type Info struct {
	FileID   string
	FileName string
	Type     string // "video" or "document"
	Size     int64
}

// Processor downloads media bytes from the Telegram file endpoint.
type Processor struct {
	botAPI *tgbotapi.BotAPI

	// FileBaseURL is overridable in tests; empty means the real endpoint.
	FileBaseURL string
}

func NewProcessor(botAPI *tgbotapi.BotAPI) *Processor {
	return &Processor{botAPI: botAPI}
}

// Extract picks the file payload out of a message. Only videos and generic
// documents trigger the relay; photos and every other message type return
// nil. A payload without a name gets a fallback built from its unique file
// ID so the remote path is still stable across retries.
func Extract(msg *tgbotapi.Message) *Info {
	switch {
	case msg.Video != nil:
		info := &Info{
			FileID:   msg.Video.FileID,
			FileName: msg.Video.FileName,
			Type:     "video",
			Size:     int64(msg.Video.FileSize),
		}
		if info.FileName == "" {
			info.FileName = fmt.Sprintf("video_%s.mp4", msg.Video.FileUniqueID)
		}
		return info

	case msg.Document != nil:
		info := &Info{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			Type:     "document",
			Size:     int64(msg.Document.FileSize),
		}
		if info.FileName == "" {
			info.FileName = fmt.Sprintf("video_%s.mp4", msg.Document.FileUniqueID)
		}
		return info

	default:
		return nil
	}
}

// Download fetches the file content from Telegram into memory. Files are
// bounded by Telegram's bot download limit, so buffering is fine here.
func (p *Processor) Download(info *Info) ([]byte, error) {
	file, err := p.botAPI.GetFile(tgbotapi.FileConfig{FileID: info.FileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file from Telegram: %v", err)
	}

	base := p.FileBaseURL
	if base == "" {
		base = "https://api.telegram.org"
	}
	fileURL := fmt.Sprintf("%s/file/bot%s/%s", base, p.botAPI.Token, file.FilePath)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download file from Telegram: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file from Telegram: status=%d", resp.StatusCode)
	}

	fileData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %v", err)
	}

	return fileData, nil
}
