package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vultisig/feedback-portal/internal/types"
)

// Backend is the part of the review client the smoke check drives.
type Backend interface {
	Ping(ctx context.Context) error
	SubmitFeedback(ctx context.Context, feedback types.FeedbackCreateDto) (*types.FeedbackResponseDto, error)
	FetchReviews(ctx context.Context, page types.ReviewPage) (*types.ReviewsDto, error)
}

var ErrBackendDown = errors.New("backend did not come up")

type Options struct {
	Attempts int
	Interval time.Duration
	Sample   types.FeedbackCreateDto
}

func DefaultOptions() Options {
	return Options{
		Attempts: 10,
		Interval: time.Second,
		Sample: types.FeedbackCreateDto{
			Rating: 4,
			Review: "The interface is very clean, but it loads a bit slow.",
		},
	}
}

type Report struct {
	AIResponse    string
	ReviewCount   int
	LatestSummary string
}

// Run checks the backend end to end: it waits until the backend answers,
// submits a sample review and reads the admin listing back.
func Run(ctx context.Context, backend Backend, opts Options, logger *logrus.Logger) (*Report, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := waitForBackend(ctx, backend, opts, logger); err != nil {
		return nil, err
	}

	logger.Info("Testing user submission...")
	resp, err := backend.SubmitFeedback(ctx, opts.Sample)
	if err != nil {
		return nil, fmt.Errorf("user submission failed: %w", err)
	}
	logger.WithField("ai_response", truncate(resp.AIResponse, 50)).Info("User submission succeeded")

	logger.Info("Testing admin retrieval...")
	reviews, err := backend.FetchReviews(ctx, types.ReviewPage{})
	if err != nil {
		return nil, fmt.Errorf("admin retrieval failed: %w", err)
	}
	if reviews.Count == 0 || len(reviews.Data) == 0 {
		return nil, fmt.Errorf("admin retrieval failed: no reviews after submission")
	}

	report := &Report{
		AIResponse:  resp.AIResponse,
		ReviewCount: reviews.Count,
	}
	if latest := reviews.Data[0]; latest.Summary != nil {
		report.LatestSummary = *latest.Summary
	}
	logger.WithFields(logrus.Fields{
		"count":          report.ReviewCount,
		"latest_summary": report.LatestSummary,
	}).Info("Admin retrieval succeeded")
	return report, nil
}

func waitForBackend(ctx context.Context, backend Backend, opts Options, logger *logrus.Logger) error {
	logger.Info("Waiting for backend to start...")
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		if lastErr = backend.Ping(ctx); lastErr == nil {
			logger.Info("Backend is up")
			return nil
		}
		logger.WithFields(logrus.Fields{
			"attempt": attempt,
		}).Debug("backend not reachable yet")

		if attempt == opts.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.Interval):
		}
	}
	return fmt.Errorf("%w: %w", ErrBackendDown, lastErr)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
