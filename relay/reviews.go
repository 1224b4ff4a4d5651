package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vultisig/feedback-portal/common"
	"github.com/vultisig/feedback-portal/internal/types"
)

const (
	reviewsPath      = "/reviews"
	adminReviewsPath = "/admin/reviews"
	unknownError     = "Unknown error"
)

// ErrTransport marks failures where no usable answer came back: the request
// could not be sent or the body could not be decoded.
var ErrTransport = errors.New("backend unreachable")

// APIError is a well formed error answer from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message())
}

// Message is the user facing part of the error.
func (e *APIError) Message() string {
	if e.Detail == "" {
		return unknownError
	}
	return e.Detail
}

type ReviewClient struct {
	url        string
	httpClient http.Client
	logger     *logrus.Logger
}

func NewReviewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *ReviewClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReviewClient{
		url:        strings.TrimRight(baseURL, "/"),
		httpClient: http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *ReviewClient) BaseURL() string {
	return c.url
}

func (c *ReviewClient) bodyCloser(body io.ReadCloser) {
	if body != nil {
		if err := body.Close(); err != nil {
			c.logger.Error("Failed to close body,err:", err)
		}
	}
}

func transportError(action string, err error) error {
	return fmt.Errorf("fail to %s: %w: %w", action, ErrTransport, err)
}

// FetchReviews loads the admin review listing. The backend decides the order.
func (c *ReviewClient) FetchReviews(ctx context.Context, page types.ReviewPage) (*types.ReviewsDto, error) {
	endpoint := c.url + adminReviewsPath
	query := url.Values{}
	if page.Skip > 0 {
		query.Set("skip", strconv.Itoa(page.Skip))
	}
	if page.Limit > 0 {
		query.Set("limit", strconv.Itoa(page.Limit))
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fail to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("fail to fetch reviews")
		return nil, transportError("fetch reviews", err)
	}
	defer c.bodyCloser(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var errBody types.FeedbackResponseDto
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
			c.logger.WithFields(logrus.Fields{
				"status": resp.StatusCode,
			}).WithError(err).Debug("fail to decode error body")
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: string(errBody.Detail)}
	}

	var payload struct {
		Count *int            `json:"count"`
		Data  *[]types.Review `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, transportError("decode reviews", err)
	}
	if payload.Data == nil {
		return nil, transportError("decode reviews", errors.New("response has no data field"))
	}

	reviews := &types.ReviewsDto{Data: *payload.Data}
	if payload.Count != nil {
		reviews.Count = *payload.Count
	} else {
		reviews.Count = len(reviews.Data)
	}
	return reviews, nil
}

// SubmitFeedback posts a review. A 2xx answer with success=false is reported
// as an APIError just like a non 2xx status.
func (c *ReviewClient) SubmitFeedback(ctx context.Context, feedback types.FeedbackCreateDto) (*types.FeedbackResponseDto, error) {
	if err := common.ValidateFeedback(feedback); err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(feedback)
	if err != nil {
		return nil, fmt.Errorf("fail to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+reviewsPath, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("fail to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("fail to submit feedback")
		return nil, transportError("submit feedback", err)
	}
	defer c.bodyCloser(resp.Body)

	var result types.FeedbackResponseDto
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, transportError("decode feedback response", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || !result.Success {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"detail": result.Detail,
		}).Warn("feedback rejected")
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: string(result.Detail)}
	}
	return &result, nil
}

// Ping reports whether the backend answers HTTP at all.
func (c *ReviewClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/docs", nil)
	if err != nil {
		return fmt.Errorf("fail to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError("reach backend", err)
	}
	c.bodyCloser(resp.Body)
	return nil
}
