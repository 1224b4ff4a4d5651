package relay

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vultisig/feedback-portal/internal/types"
)

type MockReviewClient struct {
	mock.Mock
}

func (m *MockReviewClient) FetchReviews(ctx context.Context, page types.ReviewPage) (*types.ReviewsDto, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ReviewsDto), args.Error(1)
}

func (m *MockReviewClient) SubmitFeedback(ctx context.Context, feedback types.FeedbackCreateDto) (*types.FeedbackResponseDto, error) {
	args := m.Called(ctx, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackResponseDto), args.Error(1)
}

func (m *MockReviewClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
