package history

import (
	"context"
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tg-channel-recon/internal/api"
	"github.com/orgball2608/tg-channel-recon/internal/domain"
	apperrors "github.com/orgball2608/tg-channel-recon/pkg/errors"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
)

// Progress reports walk progress back to the caller. Cosmetic only.
type Progress func(processed, total int)

// Reconstructor rebuilds the message history of a single chat. Bots cannot
// read history directly, but forwarding a message back into its own chat
// returns the full payload; deleting the forwarded copy right away keeps the
// chat visually untouched. A throwaway probe message reveals the highest
// assigned message id.
//
// One instance owns one chat's cursor, transcript and retained envelopes.
// All methods are single-threaded by design.
type Reconstructor struct {
	chatID int64
	api    api.Client
	logger logger.Logger

	// nextID is the first message id not yet walked. It only ever advances.
	nextID     int
	transcript []string
	envelopes  []tgbotapi.Message
	walkedIDs  []int
}

func New(chatID int64, apiClient api.Client, log logger.Logger) *Reconstructor {
	return &Reconstructor{
		chatID: chatID,
		api:    apiClient,
		logger: log.WithComponent("Reconstructor"),
		nextID: 1,
	}
}

// Fetch extends the transcript up to the current end of the chat and returns
// the full ordered transcript. Repeated calls are idempotent: when nothing
// new has happened the cached transcript is returned without a walk.
func (r *Reconstructor) Fetch(ctx context.Context, onProgress Progress) ([]string, error) {
	lastID, err := r.probe(ctx)
	if err != nil {
		return nil, err
	}

	// No-op fast path, and the cursor never moves backwards.
	if lastID <= r.nextID {
		return r.Transcript(), nil
	}

	total := lastID - r.nextID
	processed := 0
	for id := r.nextID; id < lastID; id++ {
		r.walkOne(ctx, id)
		r.nextID = id + 1
		processed++
		if onProgress != nil {
			onProgress(processed, total)
		}
	}

	return r.Transcript(), nil
}

// probe provokes the API into assigning a fresh message id, deletes the
// throwaway immediately and reports the id.
func (r *Reconstructor) probe(ctx context.Context) (int, error) {
	msg, err := r.api.SendMessage(ctx, r.chatID, ".", true)
	if err != nil {
		r.logger.Warn("Couldn't create probe message", "chatID", r.chatID, "error", err)
		return 0, apperrors.Wrap(apperrors.ErrHistoryUnavailable, "probe failed")
	}

	if err := r.api.DeleteMessage(ctx, r.chatID, msg.MessageID); err != nil {
		r.logger.Warn("Couldn't delete probe message", "messageID", msg.MessageID, "error", err)
	}

	return msg.MessageID, nil
}

// walkOne processes a single historical id atomically: forward, delete the
// copy, retain, classify. A failed forward is an expected gap (the original
// was deleted or is inaccessible) and leaves no partial state.
func (r *Reconstructor) walkOne(ctx context.Context, id int) {
	fwd, err := r.api.ForwardMessage(ctx, r.chatID, r.chatID, id)
	if err != nil {
		return
	}

	if err := r.api.DeleteMessage(ctx, r.chatID, fwd.MessageID); err != nil {
		r.logger.Warn("Couldn't delete forwarded copy", "messageID", fwd.MessageID, "error", err)
	}

	r.envelopes = append(r.envelopes, fwd)
	r.walkedIDs = append(r.walkedIDs, id)
	r.transcript = append(r.transcript, Classify(fwd))
}

// Transcript returns a copy of the ordered transcript built so far.
func (r *Reconstructor) Transcript() []string {
	out := make([]string, len(r.transcript))
	copy(out, r.transcript)
	return out
}

// Envelopes returns the retained raw messages in walk order.
func (r *Reconstructor) Envelopes() []tgbotapi.Message {
	return r.envelopes
}

// MessageIDs returns the original ids of every retained message.
func (r *Reconstructor) MessageIDs() []int {
	out := make([]int, len(r.walkedIDs))
	copy(out, r.walkedIDs)
	return out
}

// NextID returns the first message id not yet walked.
func (r *Reconstructor) NextID() int {
	return r.nextID
}

// Snapshot serializes the retained state for the on-disk cache.
func (r *Reconstructor) Snapshot() ([]domain.StoredMessage, error) {
	out := make([]domain.StoredMessage, 0, len(r.envelopes))
	for i, env := range r.envelopes {
		raw, err := json.Marshal(env)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.StoredMessage{
			MessageID:  r.walkedIDs[i],
			Transcript: r.transcript[i],
			Envelope:   raw,
		})
	}
	return out, nil
}

// Restore seeds a fresh instance from a cached snapshot. It never rewinds
// the cursor.
func (r *Reconstructor) Restore(nextID int, msgs []domain.StoredMessage) error {
	for _, m := range msgs {
		var env tgbotapi.Message
		if err := json.Unmarshal(m.Envelope, &env); err != nil {
			return err
		}
		r.envelopes = append(r.envelopes, env)
		r.walkedIDs = append(r.walkedIDs, m.MessageID)
		r.transcript = append(r.transcript, m.Transcript)
	}
	if nextID > r.nextID {
		r.nextID = nextID
	}
	return nil
}
