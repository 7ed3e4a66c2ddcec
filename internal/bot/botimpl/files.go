package botimpl

import (
	"context"
	"os"
	"path/filepath"

	"github.com/orgball2608/tg-channel-recon/internal/domain"
	"github.com/orgball2608/tg-channel-recon/internal/history"
	apperrors "github.com/orgball2608/tg-channel-recon/pkg/errors"
	"github.com/orgball2608/tg-channel-recon/pkg/formatter"
)

// FileCounts returns per-type file tallies and the document-extension
// histogram for a chat, reconstructing history first.
func (b *BotImpl) FileCounts(ctx context.Context, chatID int64) (domain.FileCounts, map[string]int, error) {
	rec := b.Registry.Chat(chatID)
	if _, err := rec.Fetch(ctx, nil); err != nil {
		return domain.FileCounts{}, nil, err
	}
	b.persistHistory(ctx, chatID, rec)

	counts, extensions := history.Count(rec.Envelopes())
	return counts, extensions, nil
}

// Files returns the ordered download metadata for a chat filtered by mode.
func (b *BotImpl) Files(ctx context.Context, chatID int64, mode domain.DownloadMode) ([]domain.FileDescriptor, error) {
	rec := b.Registry.Chat(chatID)
	if _, err := rec.Fetch(ctx, nil); err != nil {
		return nil, err
	}
	b.persistHistory(ctx, chatID, rec)

	return history.Files(rec.Envelopes(), mode), nil
}

// DownloadAll fetches every file matching the mode into the chat's output
// directory. Oversized or failing files are reported and skipped; the
// batch continues and the aggregate success count is returned.
func (b *BotImpl) DownloadAll(ctx context.Context, chatID int64, mode domain.DownloadMode) (int, error) {
	files, err := b.Files(ctx, chatID, mode)
	if err != nil {
		return 0, err
	}

	dir := filepath.Join(b.Config.Download.Dir, chatDir(chatID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	count := 0
	for _, fd := range files {
		if err := b.download(ctx, fd, dir); err != nil {
			b.Logger.Warn("Skipping file", "file", fd.FileName(), "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (b *BotImpl) download(ctx context.Context, fd domain.FileDescriptor, dir string) error {
	url, err := b.API.FileURL(ctx, fd.RemoteFileID)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, fd.FileName())
	out, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrTransferFailed, path)
	}
	defer out.Close()

	size, err := b.API.DownloadFile(ctx, url, out)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrTransferFailed, path)
	}

	b.Logger.Info("File downloaded", "path", path, "size", formatter.HumanBytes(size))
	return nil
}

// ExportTranscript writes the chat's transcript to messages.txt in the
// chat's output directory and returns the path.
func (b *BotImpl) ExportTranscript(ctx context.Context, chatID int64) (string, error) {
	lines, err := b.History(ctx, chatID, nil)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", apperrors.New("no messages to export")
	}

	dir := filepath.Join(b.Config.Download.Dir, chatDir(chatID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "messages.txt")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	for _, line := range lines {
		if _, err := out.WriteString(line + "\n"); err != nil {
			return "", err
		}
	}
	return path, nil
}
