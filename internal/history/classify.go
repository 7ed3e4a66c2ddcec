package history

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Classify renders one forwarded message into a transcript line. The first
// matching category wins; a well-formed envelope carries exactly one.
func Classify(msg tgbotapi.Message) string {
	sender := senderName(msg)
	date := forwardDate(msg)

	switch {
	case msg.Photo != nil:
		return fmt.Sprintf("%s - %s: [Photo] %s", date, sender, msg.Caption)
	case msg.Animation != nil:
		return fmt.Sprintf("%s: [GIF]", sender)
	case msg.Voice != nil:
		return fmt.Sprintf("%s - %s: [Voice Message - %ds]", date, sender, msg.Voice.Duration)
	case msg.Sticker != nil:
		return fmt.Sprintf("%s - %s: [Sticker]", date, sender)
	case msg.Video != nil:
		return fmt.Sprintf("%s - %s: [Video - %ds]", date, sender, msg.Video.Duration)
	case msg.Document != nil:
		return fmt.Sprintf("%s - %s: [%s] %s", date, sender, msg.Document.FileName, msg.Caption)
	default:
		return fmt.Sprintf("%s - %s: %s", date, sender, msg.Text)
	}
}

// senderName resolves the display name of the original sender: explicit
// forward-sender name first, then the forwarded-from user's handle, then
// their first name.
func senderName(msg tgbotapi.Message) string {
	if msg.ForwardSenderName != "" {
		return msg.ForwardSenderName
	}
	if msg.ForwardFrom != nil {
		if msg.ForwardFrom.UserName != "" {
			return msg.ForwardFrom.UserName
		}
		return msg.ForwardFrom.FirstName
	}
	return "Unknown"
}

func forwardDate(msg tgbotapi.Message) string {
	return time.Unix(int64(msg.ForwardDate), 0).Format("2006-01-02 15:04:05")
}
