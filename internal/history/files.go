package history

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tg-channel-recon/internal/domain"
)

// Count tallies retained envelopes per file type and builds the
// document-extension histogram.
func Count(envelopes []tgbotapi.Message) (domain.FileCounts, map[string]int) {
	var counts domain.FileCounts
	extensions := make(map[string]int)

	for _, msg := range envelopes {
		switch {
		case msg.Photo != nil:
			counts.Photo++
		case msg.Animation != nil:
			counts.GIF++
		case msg.Document != nil:
			counts.Document++
			parts := strings.Split(msg.Document.FileName, ".")
			extensions[parts[len(parts)-1]]++
		case msg.Voice != nil:
			counts.Voice++
		case msg.Sticker != nil:
			counts.Sticker++
		case msg.Video != nil:
			counts.Video++
		}
	}

	return counts, extensions
}

// Files extracts download metadata from retained envelopes, in walk order,
// filtered by mode. Photos use their largest rendition and a forced png
// extension, voice notes mp3, videos mp4; documents keep their verbatim
// file name. Animations are never extracted.
func Files(envelopes []tgbotapi.Message, mode domain.DownloadMode) []domain.FileDescriptor {
	var files []domain.FileDescriptor

	for _, msg := range envelopes {
		switch {
		case msg.Photo != nil:
			if mode == domain.ModeDocuments {
				continue
			}
			photo := msg.Photo[len(msg.Photo)-1]
			files = append(files, domain.FileDescriptor{
				RemoteFileID: photo.FileID,
				Name:         photo.FileUniqueID,
				Extension:    "png",
			})
		case msg.Animation != nil:
			continue
		case msg.Voice != nil:
			if mode == domain.ModeDocuments {
				continue
			}
			files = append(files, domain.FileDescriptor{
				RemoteFileID: msg.Voice.FileID,
				Name:         msg.Voice.FileUniqueID,
				Extension:    "mp3",
			})
		case msg.Video != nil:
			if mode == domain.ModeDocuments {
				continue
			}
			files = append(files, domain.FileDescriptor{
				RemoteFileID: msg.Video.FileID,
				Name:         msg.Video.FileUniqueID,
				Extension:    "mp4",
			})
		case msg.Document != nil:
			if mode == domain.ModeMedia {
				continue
			}
			files = append(files, domain.FileDescriptor{
				RemoteFileID: msg.Document.FileID,
				Name:         msg.Document.FileName,
			})
		}
	}

	return files
}
