package transcript

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quillhq/quill/internal/db"
	"github.com/quillhq/quill/internal/event"
	"github.com/quillhq/quill/internal/log"
	"github.com/quillhq/quill/internal/ui"
)

// Recorder writes rendered events to a single session. It satisfies the
// renderer's Recorder interface, so a failed insert is logged and dropped
// rather than surfaced; recording never interrupts rendering.
type Recorder struct {
	queries   *db.Queries
	sessionID string
	logger    *logrus.Entry
}

func newRecorder(queries *db.Queries, sessionID string) *Recorder {
	return &Recorder{
		queries:   queries,
		sessionID: sessionID,
		logger:    log.Named("transcript").WithField("session", sessionID),
	}
}

// SessionID returns the session this recorder writes to.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// RecordEvent stores an event and the block rendered for it. The block is
// stored with ANSI sequences stripped so the text stays readable regardless
// of the colors in effect when it was written.
func (r *Recorder) RecordEvent(e event.Event, block string) {
	payload, err := event.Marshal(e)
	if err != nil {
		r.logger.WithError(err).Warn("failed to encode event payload")
		payload = nil
	}

	ctx := context.Background()
	now := time.Now().Unix()
	err = r.queries.InsertEvent(ctx, db.InsertEventParams{
		SessionID: r.sessionID,
		Seq:       e.Seq,
		Kind:      string(e.Kind),
		Payload:   string(payload),
		Block:     ui.StripANSI(block),
		CreatedAt: now,
	})
	if err != nil {
		r.logger.WithError(err).Warn("failed to record event")
		return
	}

	if err := r.queries.TouchSession(ctx, db.TouchSessionParams{
		UpdatedAt: now,
		ID:        r.sessionID,
	}); err != nil {
		r.logger.WithError(err).Debug("failed to touch session")
	}
}

// RecordSuppression stores a fragment the dedup filter dropped.
func (r *Recorder) RecordSuppression(fragment, reason string) {
	err := r.queries.InsertSuppression(context.Background(), db.InsertSuppressionParams{
		SessionID: r.sessionID,
		Fragment:  fragment,
		Reason:    reason,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		r.logger.WithError(err).Warn("failed to record suppression")
	}
}
