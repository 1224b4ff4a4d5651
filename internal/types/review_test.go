package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReviewsDtoDecode(t *testing.T) {
	body := `{"count":2,"data":[
		{"rating":5,"review":"great","summary":"Happy user.","recommended_action":"Say thanks","created_at":"2024-05-01T10:00:00.123456"},
		{"rating":2,"review":"slow","summary":null,"recommended_action":null,"created_at":"2024-05-01T09:00:00Z"}
	]}`

	var dto ReviewsDto
	require.NoError(t, json.Unmarshal([]byte(body), &dto))
	require.Equal(t, 2, dto.Count)
	require.Len(t, dto.Data, 2)

	first := dto.Data[0]
	require.NotNil(t, first.Summary)
	require.Equal(t, "Happy user.", *first.Summary)
	require.True(t, first.CreatedAt.Valid)
	require.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), first.CreatedAt.Time)

	second := dto.Data[1]
	require.Nil(t, second.Summary)
	require.Nil(t, second.RecommendedAction)
	require.True(t, second.CreatedAt.Valid)
}

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		name  string
		raw   string
		valid bool
	}{
		{name: "rfc3339", raw: "2024-05-01T10:00:00Z", valid: true},
		{name: "rfc3339 with offset", raw: "2024-05-01T10:00:00+02:00", valid: true},
		{name: "naive with micros", raw: "2024-05-01T10:00:00.5", valid: true},
		{name: "naive with space", raw: "2024-05-01 10:00:00", valid: true},
		{name: "date only", raw: "2024-05-01", valid: true},
		{name: "garbage", raw: "yesterday", valid: false},
		{name: "empty", raw: "", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := ParseTimestamp(tc.raw)
			require.Equal(t, tc.valid, ts.Valid)
			require.Equal(t, tc.raw, ts.Raw)
		})
	}
}

func TestTimestampUnmarshalNonString(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`12345`), &ts))
	require.False(t, ts.Valid)
	require.Equal(t, "12345", ts.Raw)
}

func TestErrorDetailDecode(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected ErrorDetail
	}{
		{name: "string detail", body: `{"detail":"Invalid rating"}`, expected: "Invalid rating"},
		{name: "validation list", body: `{"detail":[{"loc":["body","rating"],"msg":"field required","type":"value_error.missing"}]}`, expected: "field required"},
		{name: "missing detail", body: `{"success":false}`, expected: ""},
		{name: "null detail", body: `{"detail":null}`, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var dto FeedbackResponseDto
			require.NoError(t, json.Unmarshal([]byte(tc.body), &dto))
			require.Equal(t, tc.expected, dto.Detail)
		})
	}
}
