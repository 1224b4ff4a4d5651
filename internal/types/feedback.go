package types

import (
	"encoding/json"
	"strings"
)

type FeedbackCreateDto struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review"`
}

// FeedbackResponseDto covers both the success body and the error body of
// POST /reviews.
type FeedbackResponseDto struct {
	Success    bool        `json:"success"`
	AIResponse string      `json:"ai_response"`
	Detail     ErrorDetail `json:"detail,omitempty"`
}

// ErrorDetail is the backend "detail" field. It is usually a string, request
// validation failures send a list of {loc, msg, type} objects instead.
type ErrorDetail string

func (d *ErrorDetail) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = ErrorDetail(s)
		return nil
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(data, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		*d = ErrorDetail(strings.Join(msgs, "; "))
		return nil
	}

	if string(data) == "null" {
		*d = ""
		return nil
	}
	*d = ErrorDetail(data)
	return nil
}
