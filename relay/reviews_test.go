package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/vultisig/feedback-portal/internal/types"
)

func newTestClient(url string) *ReviewClient {
	return NewReviewClient(url, 2*time.Second, logrus.StandardLogger())
}

func TestFetchReviews(t *testing.T) {
	testCases := []struct {
		name           string
		page           types.ReviewPage
		serverResponse func(w http.ResponseWriter, r *http.Request)
		wantCount      int
		wantLen        int
		wantErr        bool
		wantTransport  bool
	}{
		{
			name: "Successful fetch",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/admin/reviews", r.URL.Path)
				require.Empty(t, r.URL.RawQuery)
				w.Write([]byte(`{"count":7,"data":[{"rating":5,"review":"a","created_at":"2024-05-01T10:00:00"},{"rating":1,"review":"b","created_at":"2024-05-01T09:00:00"}]}`))
			},
			wantCount: 7,
			wantLen:   2,
		},
		{
			name: "Paging is forwarded",
			page: types.ReviewPage{Skip: 10, Limit: 5},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "10", r.URL.Query().Get("skip"))
				require.Equal(t, "5", r.URL.Query().Get("limit"))
				w.Write([]byte(`{"count":0,"data":[]}`))
			},
		},
		{
			name: "Missing count falls back to data length",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"data":[{"rating":3,"review":"ok","created_at":"2024-05-01T10:00:00"}]}`))
			},
			wantCount: 1,
			wantLen:   1,
		},
		{
			name: "Missing data is a decode failure",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"count":3}`))
			},
			wantErr:       true,
			wantTransport: true,
		},
		{
			name: "Malformed body",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
			wantErr:       true,
			wantTransport: true,
		},
		{
			name: "Server error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail":"database down"}`))
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tc.serverResponse))
			defer server.Close()

			reviews, err := newTestClient(server.URL).FetchReviews(context.Background(), tc.page)
			if tc.wantErr {
				require.Error(t, err)
				require.Nil(t, reviews)
				require.Equal(t, tc.wantTransport, errors.Is(err, ErrTransport))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantCount, reviews.Count)
			require.Len(t, reviews.Data, tc.wantLen)
		})
	}
}

func TestFetchReviewsLogsUndecodableErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	client := NewReviewClient(server.URL, time.Second, logger)

	_, err := client.FetchReviews(context.Background(), types.ReviewPage{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "Unknown error", apiErr.Message())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.DebugLevel, entry.Level)
	require.Equal(t, "fail to decode error body", entry.Message)
	require.Equal(t, http.StatusBadGateway, entry.Data["status"])
}

func TestFetchReviewsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).FetchReviews(context.Background(), types.ReviewPage{})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTransport)
}

func TestSubmitFeedback(t *testing.T) {
	testCases := []struct {
		name           string
		feedback       types.FeedbackCreateDto
		serverResponse func(w http.ResponseWriter, r *http.Request)
		wantResponse   string
		wantStatus     int
		wantMessage    string
		wantTransport  bool
	}{
		{
			name:     "Successful submission",
			feedback: types.FeedbackCreateDto{Rating: 4, Review: "Nice"},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/reviews", r.URL.Path)
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))

				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				var sent types.FeedbackCreateDto
				require.NoError(t, json.Unmarshal(body, &sent))
				require.Equal(t, 4, sent.Rating)
				require.Equal(t, "Nice", sent.Review)

				w.Write([]byte(`{"success":true,"ai_response":"Thanks!"}`))
			},
			wantResponse: "Thanks!",
		},
		{
			name:     "Rejected with detail",
			feedback: types.FeedbackCreateDto{Rating: 4},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"success":false,"detail":"Invalid rating"}`))
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid rating",
		},
		{
			name:     "Rejected without detail",
			feedback: types.FeedbackCreateDto{Rating: 2},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{}`))
			},
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "Unknown error",
		},
		{
			name:     "Success status with success flag unset",
			feedback: types.FeedbackCreateDto{Rating: 2},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":false,"ai_response":""}`))
			},
			wantStatus:  http.StatusOK,
			wantMessage: "Unknown error",
		},
		{
			name:     "Malformed body",
			feedback: types.FeedbackCreateDto{Rating: 5},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`Bad Gateway`))
			},
			wantTransport: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tc.serverResponse))
			defer server.Close()

			resp, err := newTestClient(server.URL).SubmitFeedback(context.Background(), tc.feedback)
			switch {
			case tc.wantTransport:
				require.ErrorIs(t, err, ErrTransport)
			case tc.wantMessage != "":
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				require.Equal(t, tc.wantStatus, apiErr.StatusCode)
				require.Equal(t, tc.wantMessage, apiErr.Message())
			default:
				require.NoError(t, err)
				require.True(t, resp.Success)
				require.Equal(t, tc.wantResponse, resp.AIResponse)
			}
		})
	}
}

func TestSubmitFeedbackValidatesBeforeSending(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SubmitFeedback(context.Background(), types.FeedbackCreateDto{Rating: 9})
	require.Error(t, err)
	require.False(t, called)
	require.NotErrorIs(t, err, ErrTransport)
}

func TestNewReviewClientTrimsBaseURL(t *testing.T) {
	client := NewReviewClient("http://localhost:8000/", time.Second, nil)
	require.Equal(t, "http://localhost:8000", client.BaseURL())
}
