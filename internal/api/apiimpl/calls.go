package apiimpl

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	apperrors "github.com/orgball2608/tg-channel-recon/pkg/errors"
)

func (c *APIImpl) GetUpdates(ctx context.Context) ([]tgbotapi.Update, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	updates, err := c.bot.GetUpdates(tgbotapi.UpdateConfig{})
	if err != nil {
		c.logger.Warn("Couldn't fetch update log", "error", err)
		return nil, err
	}
	return updates, nil
}

func (c *APIImpl) GetChat(ctx context.Context, chatID int64) (tgbotapi.Chat, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return tgbotapi.Chat{}, err
	}
	return c.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
}

func (c *APIImpl) GetChatAdministrators(ctx context.Context, chatID int64) ([]tgbotapi.ChatMember, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	return c.bot.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
}

func (c *APIImpl) GetChatMemberCount(ctx context.Context, chatID int64) (int, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return 0, err
	}
	return c.bot.GetChatMembersCount(tgbotapi.ChatMemberCountConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
}

func (c *APIImpl) SendMessage(ctx context.Context, chatID int64, text string, silent bool) (tgbotapi.Message, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return tgbotapi.Message{}, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableNotification = silent
	return c.bot.Send(msg)
}

func (c *APIImpl) ForwardMessage(ctx context.Context, chatID, fromChatID int64, messageID int) (tgbotapi.Message, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return tgbotapi.Message{}, err
	}
	fwd := tgbotapi.NewForward(chatID, fromChatID, messageID)
	// The forwarded copy must stay silent and unforwardable: it exists only
	// for the brief window between forward and delete.
	fwd.DisableNotification = true
	fwd.ProtectContent = true
	return c.bot.Send(fwd)
}

func (c *APIImpl) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}
	_, err := c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func (c *APIImpl) SendDocument(ctx context.Context, chatID int64, path string) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	_, err := c.bot.Send(doc)
	return err
}

func (c *APIImpl) LeaveChat(ctx context.Context, chatID int64) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}
	_, err := c.bot.Request(tgbotapi.LeaveChatConfig{ChatID: chatID})
	return err
}

// FileURL resolves a file id to its download URL. The Bot API refuses to
// serve files above its size limit, which surfaces here as ErrFileTooLarge.
func (c *APIImpl) FileURL(ctx context.Context, fileID string) (string, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return "", err
	}
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrFileTooLarge, fileID)
	}
	return file.Link(c.bot.Token), nil
}

func (c *APIImpl) DownloadFile(ctx context.Context, url string, w io.Writer) (int64, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error("Error closing response body", "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.Copy(w, resp.Body)
}
