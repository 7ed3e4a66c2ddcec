package botimpl

import (
	"context"
)

func (b *BotImpl) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := b.API.SendMessage(ctx, chatID, text, false)
	return err
}

func (b *BotImpl) SendFile(ctx context.Context, chatID int64, path string) error {
	return b.API.SendDocument(ctx, chatID, path)
}

// DeleteAll deletes every retained original message, reconstructing history
// first so the id list is current. Telegram only allows bots to delete
// messages younger than 48 hours; older ids fail individually and are
// counted out of the aggregate.
func (b *BotImpl) DeleteAll(ctx context.Context, chatID int64) (int, error) {
	rec := b.Registry.Chat(chatID)
	if _, err := rec.Fetch(ctx, nil); err != nil {
		return 0, err
	}
	b.persistHistory(ctx, chatID, rec)

	count := 0
	for _, id := range rec.MessageIDs() {
		if err := b.API.DeleteMessage(ctx, chatID, id); err != nil {
			b.Logger.Warn("Couldn't delete message", "chatID", chatID, "messageID", id, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (b *BotImpl) LeaveChat(ctx context.Context, chatID int64) error {
	return b.API.LeaveChat(ctx, chatID)
}
