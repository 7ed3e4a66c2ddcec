package botimpl

import (
	"context"
	"sort"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tg-channel-recon/internal/domain"
)

// ChatInfo collects the metadata header for a chat: invite link, the bot's
// permissions, the admin list and the member count. Private chats report
// placeholder data since they have no administrators.
func (b *BotImpl) ChatInfo(ctx context.Context, chatID int64) (*domain.ChatInfo, error) {
	chat, err := b.API.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	info := &domain.ChatInfo{
		ChatID:     chatID,
		Title:      chatTitle(chat),
		InviteLink: inviteLink(chat),
		IsPrivate:  chat.IsPrivate(),
	}

	if count, err := b.API.GetChatMemberCount(ctx, chatID); err == nil {
		info.MemberCount = count
	}

	if chat.IsPrivate() {
		info.Permissions = []string{"None"}
		info.Admins = []domain.Admin{{
			ID:        chat.ID,
			FirstName: chat.FirstName,
			UserName:  chat.UserName,
			Status:    "creator",
		}}
		return info, nil
	}

	admins, err := b.API.GetChatAdministrators(ctx, chatID)
	if err != nil {
		b.Logger.Warn("Couldn't list chat administrators", "chatID", chatID, "error", err)
		return info, nil
	}

	self := b.API.Self()
	for _, member := range admins {
		if member.User == nil {
			continue
		}
		info.Admins = append(info.Admins, domain.Admin{
			ID:          member.User.ID,
			FirstName:   member.User.FirstName,
			UserName:    member.User.UserName,
			Status:      member.Status,
			IsBot:       member.User.IsBot,
			IsAnonymous: member.IsAnonymous,
		})
		if member.User.ID == self.ID {
			info.Permissions = grantedPermissions(member)
		}
	}

	return info, nil
}

// IsInChat reports whether the bot can still see the chat. Private chats
// are always reachable; for groups and channels the administrator list is
// the cheapest membership probe.
func (b *BotImpl) IsInChat(ctx context.Context, chatID int64) bool {
	chat, err := b.API.GetChat(ctx, chatID)
	if err != nil {
		return false
	}
	if chat.IsPrivate() {
		return true
	}

	_, err = b.API.GetChatAdministrators(ctx, chatID)
	return err == nil
}

func grantedPermissions(member tgbotapi.ChatMember) []string {
	granted := map[string]bool{
		"can_be_edited":           member.CanBeEdited,
		"can_change_info":         member.CanChangeInfo,
		"can_delete_messages":     member.CanDeleteMessages,
		"can_edit_messages":       member.CanEditMessages,
		"can_invite_users":        member.CanInviteUsers,
		"can_manage_chat":         member.CanManageChat,
		"can_pin_messages":        member.CanPinMessages,
		"can_post_messages":       member.CanPostMessages,
		"can_promote_members":     member.CanPromoteMembers,
		"can_restrict_members":    member.CanRestrictMembers,
		"can_send_messages":       member.CanSendMessages,
		"can_send_media_messages": member.CanSendMediaMessages,
	}

	var perms []string
	for name, ok := range granted {
		if ok {
			perms = append(perms, name)
		}
	}
	sort.Strings(perms)
	return perms
}

func chatTitle(chat tgbotapi.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	return domain.PrivateChatName
}

func inviteLink(chat tgbotapi.Chat) string {
	if chat.InviteLink != "" {
		return chat.InviteLink
	}
	return "N/A"
}
