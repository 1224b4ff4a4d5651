package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vultisig/feedback-portal/internal/render"
	"github.com/vultisig/feedback-portal/internal/types"
)

type ReviewFetcher interface {
	FetchReviews(ctx context.Context, page types.ReviewPage) (*types.ReviewsDto, error)
}

// ReviewListView is the admin page binding: the count display and the list
// container.
type ReviewListView interface {
	SetCount(count int)
	SetItems(nodes []render.Node)
}

type ViewerOptions struct {
	Page    types.ReviewPage
	Render  render.Options
	Metrics Metrics
}

type ReviewViewer struct {
	client ReviewFetcher
	view   ReviewListView
	opts   ViewerOptions
	logger *logrus.Logger
	instrumentation
}

func NewReviewViewer(client ReviewFetcher, view ReviewListView, logger *logrus.Logger, opts ViewerOptions) (*ReviewViewer, error) {
	if client == nil {
		return nil, fmt.Errorf("review client cannot be nil")
	}
	if view == nil {
		return nil, fmt.Errorf("review list view cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReviewViewer{
		client:          client,
		view:            view,
		opts:            opts,
		logger:          logger,
		instrumentation: instrumentation{sdClient: opts.Metrics, logger: logger},
	}, nil
}

// Refresh reloads the list. Failures end up in the list container, the count
// display keeps its previous value.
func (v *ReviewViewer) Refresh(ctx context.Context) {
	v.view.SetItems([]render.Node{render.Message(render.RefreshingText, false)})

	defer v.measureTime("portal.reviews.fetch.latency", time.Now(), nil)
	v.incCounter("portal.reviews.fetch", nil)

	reviews, err := v.client.FetchReviews(ctx, v.opts.Page)
	if err != nil {
		v.incCounter("portal.reviews.fetch.error", nil)
		v.logger.WithError(err).Error("Error fetching reviews")
		v.view.SetItems([]render.Node{render.Message(render.LoadFailedText, true)})
		return
	}

	v.logger.WithFields(logrus.Fields{
		"count":    reviews.Count,
		"received": len(reviews.Data),
	}).Debug("reviews fetched")

	v.view.SetCount(reviews.Count)
	v.view.SetItems(render.ReviewList(reviews.Data, v.opts.Render))
}

// ReviewListState is a ReviewListView kept in memory, used by the server
// rendered admin page.
type ReviewListState struct {
	Count    int
	HasCount bool
	Items    []render.Node
}

func (s *ReviewListState) SetCount(count int) {
	s.Count = count
	s.HasCount = true
}

func (s *ReviewListState) SetItems(nodes []render.Node) {
	s.Items = nodes
}

func (s *ReviewListState) HTML() string {
	return render.HTML(s.Items)
}
