package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vultisig/feedback-portal/common"
	"github.com/vultisig/feedback-portal/internal/types"
	"github.com/vultisig/feedback-portal/relay"
)

const (
	AlertRatingRequired = "Please select a star rating."
	AlertConnection     = "Failed to connect to the server."
)

var (
	ErrRatingRequired = errors.New("rating is required")
	ErrInvalidRating  = common.ErrRatingOutOfRange
	ErrSubmitDisabled = errors.New("submit control is disabled")
)

type FeedbackSender interface {
	SubmitFeedback(ctx context.Context, feedback types.FeedbackCreateDto) (*types.FeedbackResponseDto, error)
}

type StarControl interface {
	Value() int
	SetActive(active bool)
}

type RatingInput interface {
	Value() int
	SetValue(v int)
}

type SubmitButton interface {
	SetLabel(label string)
	SetDisabled(disabled bool)
	IsDisabled() bool
	SetSuccess(success bool)
}

type ResponsePanel interface {
	Show(text string)
	Hide()
}

type Alerter interface {
	Alert(message string)
}

// FeedbackBinding holds the UI handles the submitter drives.
type FeedbackBinding struct {
	Stars  []StarControl
	Rating RatingInput
	Button SubmitButton
	Panel  ResponsePanel
	Alerts Alerter
}

func (b FeedbackBinding) validate() error {
	if len(b.Stars) == 0 {
		return fmt.Errorf("star controls cannot be empty")
	}
	if b.Rating == nil || b.Button == nil || b.Panel == nil || b.Alerts == nil {
		return fmt.Errorf("feedback binding is incomplete")
	}
	return nil
}

// BindForm exposes a stored form state as a FeedbackBinding.
func BindForm(form *types.FormState) FeedbackBinding {
	stars := make([]StarControl, 0, len(form.Stars))
	for i := range form.Stars {
		stars = append(stars, &form.Stars[i])
	}
	return FeedbackBinding{
		Stars:  stars,
		Rating: form,
		Button: &form.Button,
		Panel:  &form.Panel,
		Alerts: &form.Alerts,
	}
}

type FeedbackSubmitter struct {
	client FeedbackSender
	form   FeedbackBinding
	logger *logrus.Logger
	instrumentation
}

func NewFeedbackSubmitter(client FeedbackSender, form FeedbackBinding, logger *logrus.Logger, sdClient Metrics) (*FeedbackSubmitter, error) {
	if client == nil {
		return nil, fmt.Errorf("feedback client cannot be nil")
	}
	if err := form.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FeedbackSubmitter{
		client:          client,
		form:            form,
		logger:          logger,
		instrumentation: instrumentation{sdClient: sdClient, logger: logger},
	}, nil
}

// SelectRating stores the rating and recomputes every star from scratch.
func (s *FeedbackSubmitter) SelectRating(value int) error {
	if !common.IsValidRating(value) {
		return ErrInvalidRating
	}
	s.form.Rating.SetValue(value)
	for _, star := range s.form.Stars {
		star.SetActive(star.Value() <= value)
	}
	return nil
}

// Submit sends the selected rating and review text. Every outcome is shown
// on the form; the returned error only tells the caller what happened.
func (s *FeedbackSubmitter) Submit(ctx context.Context, review string) error {
	if s.form.Button.IsDisabled() {
		return ErrSubmitDisabled
	}

	rating := s.form.Rating.Value()
	if rating == 0 {
		s.form.Alerts.Alert(AlertRatingRequired)
		return ErrRatingRequired
	}

	s.form.Button.SetDisabled(true)
	s.form.Button.SetLabel(types.SubmitLabelSubmitting)
	s.form.Panel.Hide()

	defer s.measureTime("portal.feedback.submit.latency", time.Now(), nil)
	s.incCounter("portal.feedback.submit", nil)

	resp, err := s.client.SubmitFeedback(ctx, types.FeedbackCreateDto{
		Rating: rating,
		Review: review,
	})
	if err != nil {
		s.incCounter("portal.feedback.submit.error", nil)
		s.form.Alerts.Alert(alertFor(err))
		s.form.Button.SetDisabled(false)
		s.form.Button.SetLabel(types.SubmitLabelIdle)
		s.logger.WithFields(logrus.Fields{
			"rating": rating,
		}).WithError(err).Error("Error submitting feedback")
		return err
	}

	s.form.Panel.Show(resp.AIResponse)
	s.form.Button.SetLabel(types.SubmitLabelSent)
	s.form.Button.SetSuccess(true)
	s.logger.WithField("rating", rating).Info("feedback submitted")
	return nil
}

func alertFor(err error) string {
	var apiErr *relay.APIError
	if errors.As(err, &apiErr) {
		return "Error: " + apiErr.Message()
	}
	if errors.Is(err, relay.ErrTransport) {
		return AlertConnection
	}
	// validation failures caught by the client before sending
	return "Error: " + err.Error()
}
