package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/orgball2608/tg-channel-recon/internal/domain"
	"github.com/orgball2608/tg-channel-recon/pkg/config"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store is the per-bot on-disk snapshot: bot identity, known chats and the
// reconstructed history of each, so a restart does not have to re-walk
// everything. It is revalidated against the live API before use.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Logger logger.Logger
	Config *config.Config
}

// New opens the snapshot for the configured bot and manages its lifecycle.
func New(opts Opts) (*Store, error) {
	store, err := Open(Dir(opts.Config.Cache.Dir, opts.Config.Telegram.Token), opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}

	opts.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

// Dir returns the per-bot cache directory. The numeric prefix of the token
// keys the snapshot so each bot gets its own state.
func Dir(cacheDir, token string) string {
	prefix, _, _ := strings.Cut(token, ":")
	return filepath.Join(cacheDir, prefix)
}

// Open creates the directory if needed, opens the database and applies
// pending migrations.
func Open(dir string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, "snapshot.db"))
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return nil, err
	}

	return &Store{db: db, logger: log.WithComponent("Snapshot")}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BotID returns the cached bot id, or 0 when no snapshot exists yet.
func (s *Store) BotID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM bot LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SetBot records the identity of the bot owning this snapshot.
func (s *Store) SetBot(ctx context.Context, id int64, username string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM bot"); err != nil {
		return err
	}

	query, args, err := sq.Insert("bot").
		Columns("id", "username").
		Values(id, username).
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// Reset drops all cached state. Used when the snapshot belongs to a
// different bot than the live token.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"messages", "cursors", "chats", "bot"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// SaveChats upserts the refreshed chat list. Chats that dropped out of the
// update log keep their cached history.
func (s *Store) SaveChats(ctx context.Context, chats []domain.ChatSummary) error {
	for _, chat := range chats {
		query, args, err := sq.Insert("chats").
			Options("OR REPLACE").
			Columns("chat_id", "title", "is_private").
			Values(chat.ChatID, chat.DisplayName, chat.IsPrivate).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// LoadChats returns all cached chats ordered by display name.
func (s *Store) LoadChats(ctx context.Context) ([]domain.ChatSummary, error) {
	query, args, err := sq.Select("chat_id", "title", "is_private").
		From("chats").
		OrderBy("title ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []domain.ChatSummary
	for rows.Next() {
		var chat domain.ChatSummary
		if err := rows.Scan(&chat.ChatID, &chat.DisplayName, &chat.IsPrivate); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// SaveHistory persists a chat's cursor and retained messages atomically.
func (s *Store) SaveHistory(ctx context.Context, chatID int64, nextID int, msgs []domain.StoredMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args, err := sq.Insert("cursors").
		Options("OR REPLACE").
		Columns("chat_id", "next_unfetched_id").
		Values(chatID, nextID).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	for _, msg := range msgs {
		query, args, err := sq.Insert("messages").
			Options("OR IGNORE").
			Columns("chat_id", "message_id", "transcript", "envelope").
			Values(chatID, msg.MessageID, msg.Transcript, msg.Envelope).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadHistory returns a chat's cached cursor and messages in id order. A
// chat with no cached state yields cursor 1 and no messages.
func (s *Store) LoadHistory(ctx context.Context, chatID int64) (int, []domain.StoredMessage, error) {
	nextID := 1
	err := s.db.QueryRowContext(ctx,
		"SELECT next_unfetched_id FROM cursors WHERE chat_id = ?", chatID).Scan(&nextID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, nil, err
	}

	query, args, err := sq.Select("message_id", "transcript", "envelope").
		From("messages").
		Where(sq.Eq{"chat_id": chatID}).
		OrderBy("message_id ASC").
		ToSql()
	if err != nil {
		return 0, nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	var msgs []domain.StoredMessage
	for rows.Next() {
		var msg domain.StoredMessage
		if err := rows.Scan(&msg.MessageID, &msg.Transcript, &msg.Envelope); err != nil {
			return 0, nil, err
		}
		msgs = append(msgs, msg)
	}
	return nextID, msgs, rows.Err()
}
