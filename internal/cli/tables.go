package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"WeeklyArticles/internal/app"
	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/sourcepattern"
)

func newTopicsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List known tickers and the publishers visited per asset class",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := app.TopicTable(opts.cfg)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Key", "Name", "Search Phrase"})
			for _, key := range tbl.Keys() {
				name, _ := tbl.Name(key)
				phrase, _ := tbl.SearchPhrase(key)
				t.AppendRow(table.Row{key, name, phrase})
			}
			t.Render()

			p := table.NewWriter()
			p.SetOutputMirror(cmd.OutOrStdout())
			p.SetStyle(table.StyleLight)
			p.AppendHeader(table.Row{"Asset Class", "Publishers"})
			for _, class := range []domain.AssetClass{domain.AssetEquity, domain.AssetFixedIncome, domain.AssetCrypto} {
				publishers, err := tbl.Publishers(class)
				if err != nil {
					return err
				}
				p.AppendRow(table.Row{class, strings.Join(publishers, ", ")})
			}
			p.Render()
			return nil
		},
	}
}

func newSourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List registered listing and article-body patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := sourcepattern.NewDefaultRegistry()

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Listing", "Name", "Target", "Article Block"})
			for _, key := range reg.ListingKeys() {
				p, _ := reg.Listing(key)
				target := p.BaseURL
				if p.SearchURL != "" {
					target = p.SearchURL
				}
				t.AppendRow(table.Row{key, p.Name, target, p.Article})
			}
			t.Render()

			b := table.NewWriter()
			b.SetOutputMirror(cmd.OutOrStdout())
			b.SetStyle(table.StyleLight)
			b.AppendHeader(table.Row{"Body", "Name", "Scope", "Paragraphs"})
			for _, key := range reg.BodyKeys() {
				p := reg.Body(key)
				b.AppendRow(table.Row{key, p.Name, p.Scope, p.Selector()})
			}
			b.Render()
			return nil
		},
	}
}

func newHistoryCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history TOPIC",
		Short: "Show archived corpus summaries for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(cmd.Context(), opts.cfg, opts.logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Close()

			summaries, err := application.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "no archived summaries for %s\n", args[0])
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Week", "Sources", "Summary"})
			t.SetColumnConfigs([]table.ColumnConfig{{Name: "Summary", WidthMax: 80}})
			for _, s := range summaries {
				t.AppendRow(table.Row{
					dates.Format(s.Friday, dates.StyleTitleWeek),
					strings.Join(s.Sources, ", "),
					s.Summary,
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 4, "number of weeks to show")
	return cmd
}
