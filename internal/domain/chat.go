package domain

import (
	"fmt"
	"strings"
)

// PrivateChatName is the display-name placeholder for chats without a title.
const PrivateChatName = "Private Chat"

// ChatSummary is one entry of the refreshed chat list. Uniqueness is keyed
// on ChatID; DisplayName is metadata only.
type ChatSummary struct {
	DisplayName string
	ChatID      int64
	IsPrivate   bool
}

// ChatInfo is the metadata header shown when a chat is opened.
type ChatInfo struct {
	ChatID      int64
	Title       string
	InviteLink  string
	Permissions []string
	Admins      []Admin
	MemberCount int
	IsPrivate   bool
}

type Admin struct {
	ID          int64
	FirstName   string
	UserName    string
	Status      string
	IsBot       bool
	IsAnonymous bool
}

func (a Admin) String() string {
	var sb strings.Builder
	sb.WriteString(a.FirstName)
	if a.UserName != "" {
		fmt.Fprintf(&sb, " (@%s)", a.UserName)
	}
	if a.IsBot {
		sb.WriteString(" [bot]")
	}
	fmt.Fprintf(&sb, " - %s", a.Status)
	return sb.String()
}
