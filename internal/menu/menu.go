package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/orgball2608/tg-channel-recon/internal/bot"
	"github.com/orgball2608/tg-channel-recon/internal/domain"
	apperrors "github.com/orgball2608/tg-channel-recon/pkg/errors"
	"github.com/orgball2608/tg-channel-recon/pkg/formatter"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
)

const banner = `
=== Telegram Channel Recon Toolkit ===
`

// Menu drives the interactive terminal session. All operations are
// delegated to the bot client; the menu only renders and reads.
type Menu struct {
	bot    bot.Client
	logger logger.Logger
	in     *bufio.Reader
	out    io.Writer
}

func New(client bot.Client, log logger.Logger) *Menu {
	return &Menu{
		bot:    client,
		logger: log.WithComponent("Menu"),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run loops the main menu until the operator exits or stdin closes.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprint(m.out, banner)

	self := m.bot.Identity()
	fmt.Fprintf(m.out, "[+] Bot %s (@%s) loaded successfully.\n", self.FirstName, self.UserName)

	for {
		done, err := m.mainMenu(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (m *Menu) mainMenu(ctx context.Context) (bool, error) {
	chats := m.bot.Chats()

	fmt.Fprintln(m.out, "\n[Main Menu]")
	if len(chats) == 0 {
		fmt.Fprintln(m.out, "[-] Couldn't find any channel.")
	} else {
		fmt.Fprintf(m.out, "[!] Bot is part of %d channel(s)\n", len(chats))
		for i, chat := range chats {
			fmt.Fprintf(m.out, "%d. Go to channel: %s (%d)\n", i+1, chat.DisplayName, chat.ChatID)
		}
	}
	fmt.Fprintf(m.out, "%d. Get channel updates.\n", len(chats)+1)
	fmt.Fprintf(m.out, "%d. Enter a channel ID.\n", len(chats)+2)
	fmt.Fprintln(m.out, "0. Exit.")

	choice, err := m.prompt(">>> ")
	if err != nil {
		return true, nil
	}

	switch {
	case choice == "0":
		return true, nil
	case choice == strconv.Itoa(len(chats)+1):
		if _, err := m.bot.RefreshChats(ctx); err != nil {
			if apperrors.IsSourceUnavailable(err) {
				fmt.Fprintln(m.out, "[-] Error: Couldn't load chat history.")
			} else {
				fmt.Fprintf(m.out, "[-] Error: %v\n", err)
			}
		} else {
			fmt.Fprintln(m.out, "[+] Channels updated successfully.")
		}
	case choice == strconv.Itoa(len(chats)+2):
		raw, err := m.prompt("[+] Enter channel ID > ")
		if err != nil {
			return true, nil
		}
		chatID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			fmt.Fprintln(m.out, "[-] Error: Invalid chat ID.")
			break
		}
		m.channelMenu(ctx, chatID, "")
	default:
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(chats) {
			fmt.Fprintln(m.out, "[!] Invalid option.")
			break
		}
		chat := chats[idx-1]
		m.channelMenu(ctx, chat.ChatID, chat.DisplayName)
	}
	return false, nil
}

func (m *Menu) channelMenu(ctx context.Context, chatID int64, name string) {
	for {
		inChat := m.bot.IsInChat(ctx, chatID)

		if name == "" {
			name = domain.PrivateChatName
		}
		fmt.Fprintf(m.out, "\n[Channel: %s]\n", name)

		if inChat {
			m.printChatInfo(ctx, chatID)
			fmt.Fprintln(m.out, "\n1. List all messages.")
			fmt.Fprintln(m.out, "2. Send a message.")
			fmt.Fprintln(m.out, "3. Send a file.")
			fmt.Fprintln(m.out, "4. Download files.")
			fmt.Fprintln(m.out, "5. Delete all messages.")
			fmt.Fprintln(m.out, "6. Export all text messages.")
			fmt.Fprintln(m.out, "7. Leave channel.")
			fmt.Fprintln(m.out, "0. Go back.")
		} else {
			fmt.Fprintln(m.out, "[-] Bot is not in the channel anymore.")
			fmt.Fprintf(m.out, "[+] Channel ID: %d\n", chatID)
			fmt.Fprintln(m.out, "\n1. List all messages.")
			fmt.Fprintln(m.out, "4. Download files.")
			fmt.Fprintln(m.out, "6. Export all text messages.")
			fmt.Fprintln(m.out, "0. Go back.")
		}

		choice, err := m.prompt("\n>>> ")
		if err != nil {
			return
		}

		switch choice {
		case "0":
			return
		case "1":
			m.listMessages(ctx, chatID)
		case "2":
			if !inChat {
				fmt.Fprintln(m.out, "[!] Invalid option.")
				break
			}
			text, err := m.prompt("[+] Enter message > ")
			if err != nil {
				return
			}
			if err := m.bot.SendMessage(ctx, chatID, text); err != nil {
				fmt.Fprintln(m.out, "[-] Error: Message could not be sent.")
			} else {
				fmt.Fprintln(m.out, "[+] Message sent successfully.")
			}
		case "3":
			if !inChat {
				fmt.Fprintln(m.out, "[!] Invalid option.")
				break
			}
			path, err := m.prompt("Enter the path of the file to send > ")
			if err != nil {
				return
			}
			if err := m.bot.SendFile(ctx, chatID, path); err != nil {
				fmt.Fprintln(m.out, "[-] Error: File could not be sent.")
			} else {
				fmt.Fprintln(m.out, "[+] File sent successfully.")
			}
		case "4":
			m.fileMenu(ctx, chatID, name)
		case "5":
			if !inChat {
				fmt.Fprintln(m.out, "[!] Invalid option.")
				break
			}
			fmt.Fprintln(m.out, "[?] This will only delete messages sent less than 48 hours ago, because of Telegram's limitations.")
			count, err := m.bot.DeleteAll(ctx, chatID)
			if err != nil {
				fmt.Fprintf(m.out, "[-] Error: %v\n", err)
				break
			}
			fmt.Fprintf(m.out, "[+] %d messages deleted successfully.\n", count)
		case "6":
			path, err := m.bot.ExportTranscript(ctx, chatID)
			if err != nil {
				fmt.Fprintf(m.out, "[-] Error: %v\n", err)
				break
			}
			fmt.Fprintf(m.out, "[+] Messages exported to %s.\n", path)
		case "7":
			if !inChat {
				fmt.Fprintln(m.out, "[!] Invalid option.")
				break
			}
			if err := m.bot.LeaveChat(ctx, chatID); err != nil {
				fmt.Fprintf(m.out, "[-] Error: %v\n", err)
				break
			}
			fmt.Fprintln(m.out, "[+] Left the channel.")
			return
		default:
			fmt.Fprintln(m.out, "[!] Invalid option.")
		}
	}
}

func (m *Menu) fileMenu(ctx context.Context, chatID int64, name string) {
	fmt.Fprintf(m.out, "\n[File Download Menu] - Channel: %s\n", name)

	counts, extensions, err := m.fileCounts(ctx, chatID)
	if err != nil {
		fmt.Fprintf(m.out, "[-] Error: %v\n", err)
		return
	}

	if counts.Total() == 0 {
		fmt.Fprintln(m.out, "[-] No files found.")
		return
	}

	fmt.Fprintf(m.out, "[+] Files Count: %d\n", counts.Total())
	fmt.Fprintln(m.out, "[+] File Types:")
	printCount(m.out, "Photo", counts.Photo)
	printCount(m.out, "Gif", counts.GIF)
	printCount(m.out, "Video", counts.Video)
	printCount(m.out, "Sticker", counts.Sticker)
	printCount(m.out, "Document", counts.Document)
	printCount(m.out, "Voice-message", counts.Voice)

	if len(extensions) > 0 {
		fmt.Fprintln(m.out, "[+] Document Extensions:")
		for ext, count := range extensions {
			fmt.Fprintf(m.out, "    - %s: %d\n", ext, count)
		}
	}

	hasMedia := counts.Photo > 0 || counts.Video > 0 || counts.Voice > 0

	fmt.Fprintln(m.out, "\n1. Download all files.")
	if counts.Document > 0 {
		fmt.Fprintln(m.out, "2. Download all documents.")
	}
	if hasMedia {
		fmt.Fprintln(m.out, "3. Download all media.")
	}
	fmt.Fprintln(m.out, "0. Go back.")

	choice, err := m.prompt("\n>>> ")
	if err != nil {
		return
	}

	var mode domain.DownloadMode
	switch choice {
	case "0":
		return
	case "1":
		mode = domain.ModeAll
	case "2":
		if counts.Document == 0 {
			fmt.Fprintln(m.out, "[!] Invalid option.")
			return
		}
		mode = domain.ModeDocuments
	case "3":
		if !hasMedia {
			fmt.Fprintln(m.out, "[!] Invalid option.")
			return
		}
		mode = domain.ModeMedia
	default:
		fmt.Fprintln(m.out, "[!] Invalid option.")
		return
	}

	count, err := m.bot.DownloadAll(ctx, chatID, mode)
	if err != nil {
		fmt.Fprintf(m.out, "[-] Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "[+] %d file(s) downloaded.\n", count)
}

func (m *Menu) listMessages(ctx context.Context, chatID int64) {
	lines, err := m.bot.History(ctx, chatID, m.progress)
	m.clearProgress()
	if err != nil {
		if apperrors.IsHistoryUnavailable(err) {
			fmt.Fprintln(m.out, "[-] Error: Couldn't get last message id.")
		} else {
			fmt.Fprintf(m.out, "[-] Error: %v\n", err)
		}
		return
	}
	for _, line := range lines {
		fmt.Fprintln(m.out, line)
	}
}

func (m *Menu) fileCounts(ctx context.Context, chatID int64) (domain.FileCounts, map[string]int, error) {
	counts, extensions, err := m.bot.FileCounts(ctx, chatID)
	m.clearProgress()
	return counts, extensions, err
}

func (m *Menu) printChatInfo(ctx context.Context, chatID int64) {
	info, err := m.bot.ChatInfo(ctx, chatID)
	if err != nil {
		fmt.Fprintf(m.out, "[-] Couldn't load channel information: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "[+] Channel ID: %d\n", info.ChatID)
	fmt.Fprintf(m.out, "[+] Invite Link: %s\n", info.InviteLink)
	fmt.Fprintf(m.out, "[+] Permissions: %s\n", strings.Join(info.Permissions, ", "))
	fmt.Fprintf(m.out, "[+] Users: %s\n", formatter.FormatNumber(info.MemberCount))
	fmt.Fprintf(m.out, "[+] Administrators: %d\n", len(info.Admins))
	for _, admin := range info.Admins {
		fmt.Fprintf(m.out, "    - %s\n", admin)
	}
}

func (m *Menu) progress(processed, total int) {
	if total == 0 {
		return
	}
	fmt.Fprintf(m.out, "\r[+] Loading channel messages... [%d%%]", processed*100/total)
}

func (m *Menu) clearProgress() {
	fmt.Fprint(m.out, "\r\033[K")
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printCount(out io.Writer, label string, count int) {
	if count > 0 {
		fmt.Fprintf(out, "    - %s: %d\n", label, count)
	}
}
