package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// Review is the read-only copy of a backend review used for rendering.
// Summary and RecommendedAction stay nil until the backend AI pass completes.
type Review struct {
	Rating            int       `json:"rating"`
	Review            string    `json:"review"`
	Summary           *string   `json:"summary,omitempty"`
	RecommendedAction *string   `json:"recommended_action,omitempty"`
	CreatedAt         Timestamp `json:"created_at"`
}

type ReviewsDto struct {
	Count int      `json:"count"`
	Data  []Review `json:"data"`
}

// ReviewPage narrows the admin listing, zero values leave the backend defaults.
type ReviewPage struct {
	Skip  int
	Limit int
}

// layouts accepted for created_at. The backend emits naive UTC datetimes
// ("2024-05-01T10:00:00.123456") as well as RFC3339 values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp keeps the raw created_at value next to the parsed time, an
// unparseable value is not a decode error and renders as an invalid date.
type Timestamp struct {
	Time  time.Time
	Raw   string
	Valid bool
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Raw: t.Format(time.RFC3339Nano), Valid: true}
}

func ParseTimestamp(raw string) Timestamp {
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return Timestamp{Time: t, Raw: raw, Valid: true}
		}
	}
	return Timestamp{Raw: raw}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// numbers and other scalars are kept as an invalid date
		*t = Timestamp{Raw: string(data)}
		return nil
	}
	*t = ParseTimestamp(raw)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Valid {
		return json.Marshal(t.Time.Format(time.RFC3339Nano))
	}
	if t.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(t.Raw)
}
