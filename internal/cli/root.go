// Package cli implements the weeklyarticles command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"WeeklyArticles/internal/app"
	"WeeklyArticles/internal/config"
	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/logging"
)

const dateLayout = "2006-01-02"

type options struct {
	cfgFile  string
	logLevel string

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "weeklyarticles",
		Short:         "Weekly financial news digest",
		Long:          `Index, rank and summarize the week's financial articles for a set of tickers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.cfg = config.Load(opts.cfgFile)
			if opts.logLevel != "" {
				opts.cfg.Logging.Level = opts.logLevel
			}
			opts.logger = logging.NewWithWriter(cmd.ErrOrStderr(), opts.cfg.Logging.Level)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "",
		"YAML config file (default from "+config.PathEnv+")")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newRunCommand(opts),
		newScheduleCommand(opts),
		newTopicsCommand(opts),
		newSourcesCommand(),
		newHistoryCommand(opts),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func newRunCommand(opts *options) *cobra.Command {
	var (
		topicFlags []string
		dateFlag   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the weekly pipeline once",
		Example: `  weeklyarticles run
  weeklyarticles run --topic BTC-USD:crypto --topic ^GSPC:equity --date 2024-02-16`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := make([]domain.Topic, 0, len(topicFlags))
			for _, raw := range topicFlags {
				topic, err := parseTopic(raw)
				if err != nil {
					return err
				}
				list = append(list, topic)
			}

			day := time.Now()
			if dateFlag != "" {
				parsed, err := time.ParseInLocation(dateLayout, dateFlag, opts.cfg.Schedule.Location())
				if err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", dateFlag)
				}
				day = parsed
			}

			application, err := app.New(cmd.Context(), opts.cfg, opts.logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Close()

			reports, err := application.Run(cmd.Context(), list, day)
			opts.logger.Info("run complete", "reports", len(reports))
			return err
		},
	}

	cmd.Flags().StringArrayVar(&topicFlags, "topic", nil, "topic as KEY:CLASS, repeatable (default: configured topics)")
	cmd.Flags().StringVar(&dateFlag, "date", "", "any day of the report week, YYYY-MM-DD (default: today)")
	return cmd
}

func newScheduleCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on the configured cron expression until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := app.New(cmd.Context(), opts.cfg, opts.logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Close()

			opts.logger.Info("waiting for triggers",
				"cron", opts.cfg.Schedule.CronExpression,
				"timezone", opts.cfg.Schedule.Location().String())
			return application.Schedule(cmd.Context())
		},
	}
}

// parseTopic reads KEY:CLASS. The last colon separates the class.
func parseTopic(raw string) (domain.Topic, error) {
	i := strings.LastIndex(raw, ":")
	if i <= 0 || i == len(raw)-1 {
		return domain.Topic{}, fmt.Errorf("invalid --topic %q: want KEY:CLASS", raw)
	}
	class, err := domain.ParseAssetClass(raw[i+1:])
	if err != nil {
		return domain.Topic{}, err
	}
	return domain.Topic{Key: strings.TrimSpace(raw[:i]), AssetClass: class}, nil
}
