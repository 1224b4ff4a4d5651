package api

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/vultisig/feedback-portal/internal/types"
	"github.com/vultisig/feedback-portal/service"
	"github.com/vultisig/feedback-portal/storage"
)

type feedbackPageData struct {
	Form      *types.FormState
	Alerts    []string
	CSRFField template.HTML
}

func (s *Server) loadForm(ctx context.Context, sessionID string) (*types.FormState, error) {
	form, err := s.store.LoadForm(ctx, sessionID)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return types.NewFormState(), nil
	}
	return form, err
}

func (s *Server) newSubmitter(form *types.FormState) (*service.FeedbackSubmitter, error) {
	return service.NewFeedbackSubmitter(s.backend, service.BindForm(form), s.logger, s.sdClient)
}

// FeedbackPage shows the form. Pending alerts and the sent confirmation are
// shown once, the next load starts from an idle form.
func (s *Server) FeedbackPage(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := s.sessionID(c)

	form, err := s.loadForm(ctx, sessionID)
	if err != nil {
		return s.internalError(c, err)
	}

	alerts := form.Alerts.Drain()
	sent := form.Button.Success
	if sent || len(alerts) > 0 {
		next := form
		if sent {
			next = types.NewFormState()
		}
		if err := s.store.SaveForm(ctx, sessionID, next); err != nil {
			return s.internalError(c, err)
		}
	}

	return c.Render(http.StatusOK, "index.html", feedbackPageData{
		Form:      form,
		Alerts:    alerts,
		CSRFField: csrfField(c),
	})
}

func (s *Server) SelectRating(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := s.sessionID(c)

	form, err := s.loadForm(ctx, sessionID)
	if err != nil {
		return s.internalError(c, err)
	}
	form.Review = c.FormValue("review")

	submitter, err := s.newSubmitter(form)
	if err != nil {
		return s.internalError(c, err)
	}

	value, err := strconv.Atoi(c.FormValue("rating"))
	if err == nil {
		err = submitter.SelectRating(value)
	}
	if err != nil {
		s.logger.WithField("rating", c.FormValue("rating")).Warn("ignoring invalid star value")
	}

	if err := s.store.SaveForm(ctx, sessionID, form); err != nil {
		return s.internalError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) SubmitFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := s.sessionID(c)

	acquired, err := s.store.AcquireSubmit(ctx, sessionID, s.cfg.Api.Timeout+submitLockSlack)
	if err != nil {
		return s.internalError(c, err)
	}
	if !acquired {
		s.logger.WithField("session", sessionID).Info("submission already in flight")
		return c.Redirect(http.StatusSeeOther, "/")
	}
	defer func() {
		if err := s.store.ReleaseSubmit(context.Background(), sessionID); err != nil {
			s.logger.WithError(err).Error("fail to release submit lock")
		}
	}()

	form, err := s.loadForm(ctx, sessionID)
	if err != nil {
		return s.internalError(c, err)
	}
	form.Review = c.FormValue("review")

	submitter, err := s.newSubmitter(form)
	if err != nil {
		return s.internalError(c, err)
	}

	if err := submitter.Submit(ctx, form.Review); err != nil {
		s.logger.WithFields(logrus.Fields{
			"session": sessionID,
		}).WithError(err).Debug("submission not completed")
	}

	if err := s.store.SaveForm(ctx, sessionID, form); err != nil {
		return s.internalError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
