package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vultisig/feedback-portal/config"
	"github.com/vultisig/feedback-portal/internal/types"
	"github.com/vultisig/feedback-portal/relay"
)

var configName string
var count int

var samples = []types.FeedbackCreateDto{
	{Rating: 5, Review: "Love the new dashboard, everything is where I expect it."},
	{Rating: 4, Review: "The interface is very clean, but it loads a bit slow."},
	{Rating: 3, Review: "Works, although the export button is hard to find."},
	{Rating: 2, Review: "Search keeps timing out on large accounts."},
	{Rating: 1, Review: "Lost my draft twice. <b>Please</b> add autosave & undo."},
}

// Usage:
//   - start the review backend
//   - `go run ./scripts/dev/seed/main.go -count=5`
func main() {
	flag.StringVar(&configName, "config", "config", "config name")
	flag.IntVar(&count, "count", len(samples), "number of reviews to post")
	flag.Parse()

	cfg, err := config.ReadConfig(configName, ".")
	if err != nil {
		panic(err)
	}

	client := relay.NewReviewClient(cfg.Api.BaseURL, cfg.Api.Timeout, logrus.StandardLogger())
	fmt.Printf("Seeding reviews - %s/reviews\n", client.BaseURL())

	ctx := context.Background()
	for i := 0; i < count; i++ {
		sample := samples[i%len(samples)]
		resp, err := client.SubmitFeedback(ctx, sample)
		if err != nil {
			fmt.Printf(" - rating %d: %v\n", sample.Rating, err)
			continue
		}
		fmt.Printf(" - rating %d: %s\n", sample.Rating, resp.AIResponse)

		time.Sleep(500 * time.Millisecond)
	}

	reviews, err := client.FetchReviews(ctx, types.ReviewPage{})
	if err != nil {
		panic(err)
	}
	fmt.Printf("Backend now holds %d reviews\n", reviews.Count)
}
