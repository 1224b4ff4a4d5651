package storage

import (
	"context"
	"errors"
	"time"

	"github.com/vultisig/feedback-portal/internal/types"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the feedback form of every browser session between
// requests and guards a session against concurrent submissions.
type SessionStore interface {
	LoadForm(ctx context.Context, sessionID string) (*types.FormState, error)
	SaveForm(ctx context.Context, sessionID string, form *types.FormState) error
	// AcquireSubmit reports false when a submission for the session is
	// already in flight.
	AcquireSubmit(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseSubmit(ctx context.Context, sessionID string) error
	Close() error
}

func formKey(sessionID string) string {
	return "feedback:form:" + sessionID
}

func lockKey(sessionID string) string {
	return "feedback:submit:" + sessionID
}
