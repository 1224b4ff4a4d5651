package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vultisig/feedback-portal/api"
	"github.com/vultisig/feedback-portal/config"
	"github.com/vultisig/feedback-portal/internal/render"
	"github.com/vultisig/feedback-portal/internal/types"
	"github.com/vultisig/feedback-portal/internal/verify"
	"github.com/vultisig/feedback-portal/relay"
	"github.com/vultisig/feedback-portal/service"
	"github.com/vultisig/feedback-portal/storage"
)

var configName string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "portal",
		Short:        "Feedback portal: review submission and admin review viewer",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configName, "config", "", "config file name (defaults to FP_CONFIG_NAME or \"config\")")

	root.AddCommand(newServeCmd(), newVerifyCmd(), newReviewsCmd())
	return root
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if configName != "" {
		cfg, err = config.ReadConfig(configName, ".")
	} else {
		cfg, err = config.GetConfigure()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("fail to load config: %w", err)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log.level %q: %w", cfg.Log.Level, err)
	}
	logger.SetLevel(level)
	return cfg, logger, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var store storage.SessionStore
			if cfg.RedisEnabled() {
				redisStorage, err := storage.NewRedisStorage(*cfg)
				if err != nil {
					return fmt.Errorf("fail to connect to redis: %w", err)
				}
				store = redisStorage
			} else {
				logger.Warn("redis not configured, sessions are kept in memory")
				store = storage.NewMemoryStorage(cfg.Server.SessionTTL)
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.WithError(err).Error("fail to close session store")
				}
			}()

			var sdClient service.Metrics
			if cfg.DatadogEnabled() {
				client, err := statsd.New(cfg.Datadog.Host + ":" + cfg.Datadog.Port)
				if err != nil {
					return fmt.Errorf("fail to create statsd client: %w", err)
				}
				defer client.Close()
				sdClient = client
			}

			backend := relay.NewReviewClient(cfg.Api.BaseURL, cfg.Api.Timeout, logger)
			server, err := api.NewServer(*cfg, backend, store, sdClient, logger)
			if err != nil {
				return fmt.Errorf("fail to create server: %w", err)
			}
			return server.StartServer(ctx)
		},
	}
}

func newVerifyCmd() *cobra.Command {
	opts := verify.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the review backend end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			backend := relay.NewReviewClient(cfg.Api.BaseURL, cfg.Api.Timeout, logger)
			report, err := verify.Run(cmd.Context(), backend, opts, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d reviews, latest summary: %s\n", report.ReviewCount, report.LatestSummary)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Attempts, "attempts", opts.Attempts, "how many times to wait for the backend")
	cmd.Flags().DurationVar(&opts.Interval, "interval", opts.Interval, "delay between attempts")
	return cmd
}

func newReviewsCmd() *cobra.Command {
	var page types.ReviewPage
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Print the current review list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			if page.Limit == 0 {
				page.Limit = cfg.Viewer.PageSize
			}
			backend := relay.NewReviewClient(cfg.Api.BaseURL, cfg.Api.Timeout, logger)
			reviews, err := backend.FetchReviews(cmd.Context(), page)
			if err != nil {
				return fmt.Errorf("fail to fetch reviews: %w", err)
			}
			printReviews(cmd.OutOrStdout(), reviews, render.Options{DateLayout: cfg.Viewer.DateLayout, Location: loc})
			return nil
		},
	}
	cmd.Flags().IntVar(&page.Skip, "skip", 0, "reviews to skip")
	cmd.Flags().IntVar(&page.Limit, "limit", 0, "max reviews to print (defaults to viewer.page_size)")
	return cmd
}

func printReviews(w io.Writer, reviews *types.ReviewsDto, opts render.Options) {
	fmt.Fprintf(w, "Total reviews: %d\n", reviews.Count)
	if len(reviews.Data) == 0 {
		fmt.Fprintln(w, render.EmptyListText)
		return
	}
	for _, review := range reviews.Data {
		fmt.Fprintf(w, "\n[%s] %s\n", render.RatingText(review.Rating), render.FormatDate(review.CreatedAt, opts))
		fmt.Fprintf(w, "  %s\n", review.Review)
		fmt.Fprintf(w, "  AI Summary: %s\n", render.InsightText(review.Summary))
		fmt.Fprintf(w, "  Action: %s\n", render.InsightText(review.RecommendedAction))
	}
}
