package render

import (
	"fmt"
	"time"

	"github.com/vultisig/feedback-portal/internal/types"
)

const (
	PendingText    = "Pending..."
	InvalidDate    = "Invalid Date"
	EmptyListText  = "No reviews yet."
	RefreshingText = "Refreshing..."
	LoadFailedText = "Failed to load reviews. Is backend running?"

	// DefaultDateLayout mirrors the en-US locale default date/time format.
	DefaultDateLayout = "1/2/2006, 3:04:05 PM"
)

const (
	ClassReviewItem  = "review-item"
	ClassRating      = "rating-badge"
	ClassDate        = "review-date"
	ClassReviewBody  = "review-body"
	ClassSummary     = "insight-summary"
	ClassAction      = "insight-action"
	ClassListMessage = "list-message"
)

type Options struct {
	DateLayout string
	Location   *time.Location
}

func (o Options) withDefaults() Options {
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

func RatingText(rating int) string {
	return fmt.Sprintf("%d / 5", rating)
}

func FormatDate(ts types.Timestamp, opts Options) string {
	if !ts.Valid {
		return InvalidDate
	}
	opts = opts.withDefaults()
	return ts.Time.In(opts.Location).Format(opts.DateLayout)
}

// InsightText returns an AI insight as is, or the pending marker when absent.
func InsightText(value *string) string {
	if value == nil || *value == "" {
		return PendingText
	}
	return *value
}

// ReviewCard maps a review onto its card. The review text is user supplied and
// goes through Text; summary and recommended action come from the backend AI
// pipeline and are inserted as Raw.
func ReviewCard(review types.Review, opts Options) Node {
	return Node{
		Tag:   "div",
		Class: ClassReviewItem,
		Children: []Node{
			{
				Tag:   "div",
				Class: "review-header",
				Children: []Node{
					{Tag: "span", Class: ClassRating, Text: RatingText(review.Rating)},
					{Tag: "span", Class: ClassDate, Style: "color: #6b7280; font-size: 0.85rem;", Text: FormatDate(review.CreatedAt, opts)},
				},
			},
			{
				Tag:   "div",
				Style: "margin-bottom: 1rem;",
				Children: []Node{
					{Tag: "strong", Text: "Review:"},
					{Tag: "p", Class: ClassReviewBody, Style: "margin: 0.25rem 0;", Text: review.Review},
				},
			},
			{
				Tag:   "div",
				Class: "insight-box",
				Children: []Node{
					{
						Tag:   "div",
						Style: "margin-bottom: 0.5rem;",
						Children: []Node{
							{Tag: "div", Class: "insight-title", Text: "AI Summary"},
							{Tag: "div", Class: ClassSummary, Raw: InsightText(review.Summary)},
						},
					},
					{
						Tag: "div",
						Children: []Node{
							{Tag: "div", Class: "insight-title", Text: "Recommended Action"},
							{Tag: "div", Class: ClassAction, Style: "color: #059669; font-weight: 500;", Raw: InsightText(review.RecommendedAction)},
						},
					},
				},
			},
		},
	}
}

// ReviewList renders the list container content in server order.
func ReviewList(reviews []types.Review, opts Options) []Node {
	if len(reviews) == 0 {
		return []Node{Message(EmptyListText, false)}
	}
	nodes := make([]Node, 0, len(reviews))
	for _, review := range reviews {
		nodes = append(nodes, ReviewCard(review, opts))
	}
	return nodes
}

// Message is a single centred line in the list container.
func Message(text string, isError bool) Node {
	style := "text-align: center; color: #6b7280;"
	if isError {
		style = "text-align: center; color: red;"
	}
	return Node{Tag: "p", Class: ClassListMessage, Style: style, Text: text}
}
