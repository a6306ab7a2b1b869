package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"newsintel/internal/report"
)

const (
	reportsDir = "reports"

	// autoReport is the --docx value used when the flag is given without a path.
	autoReport = "auto"
)

func newAnalyzeCmd(rt *cliState) *cobra.Command {
	var (
		days        int
		minMentions float64
		limit       int
		maxArticles int
		docxPath    string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [keyword]",
		Short: "Rank the organizations mentioned in recent news for a keyword",
		Long: `Expand the keyword into a sector search, fetch articles from every configured
Google News edition and direct feed, then rank the organizations they mention.

Examples:
  newsintel analyze "car makers"
  newsintel analyze "solar energy" --days 3 --limit 10
  newsintel analyze "bank" --min-mentions 2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword, err := resolveKeyword(cmd, args)
			if err != nil {
				return err
			}

			req := AnalyzeRequest{
				Keyword:     keyword,
				Days:        intFlag(cmd, "days", days, rt.cfg.Days),
				MinMentions: rt.cfg.MinMentions,
				Limit:       limit,
				MaxArticles: intFlag(cmd, "max-articles", maxArticles, rt.cfg.MaxArticles),
			}
			if cmd.Flags().Changed("min-mentions") {
				if minMentions < 0 {
					return fmt.Errorf("--min-mentions must be >= 0")
				}
				req.MinMentions = minMentions
			}

			res, err := rt.svc.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, res); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Keyword: %s | Sector: %s | Query: %s\n", res.Sector.Original, res.Sector.Sector, res.Sector.OptimizedQuery)
				fmt.Fprintf(out, "Articles analyzed: %d\n\n", res.Articles)
				if len(res.Entities) == 0 {
					fmt.Fprintln(out, "No organizations met the minimum mention threshold.")
				} else {
					fmt.Fprintln(out, report.EntitiesTable(res.Entities))
				}
			}

			if docxPath != "" {
				path := reportPath(docxPath, "entities")
				if err := report.EntitiesDocx(path, res.Sector, res.Entities); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved entity report to: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "days back to search (default from NEWSINTEL_DAYS)")
	cmd.Flags().Float64VarP(&minMentions, "min-mentions", "m", 0, "minimum merged score (default from NEWSINTEL_MIN_MENTIONS)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "max ranked results (0 = 15)")
	cmd.Flags().IntVar(&maxArticles, "max-articles", 0, "cap on fetched articles (default from NEWSINTEL_MAX_ARTICLES)")
	addDocxFlag(cmd, &docxPath)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newHeadlinesCmd(rt *cliState) *cobra.Command {
	var (
		days        int
		enrichLimit int
		noEnrich    bool
		docxPath    string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "headlines [keyword]",
		Short: "List the latest headlines for a keyword",
		Long: `Fetch up to 100 headlines for the keyword from the headline edition
(NEWSINTEL_HEADLINE_REGION) and replace the first descriptions with text
scraped from the article pages.

Examples:
  newsintel headlines "chemical industry"
  newsintel headlines "tata motors" --days 1 --no-enrich`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword, err := resolveKeyword(cmd, args)
			if err != nil {
				return err
			}

			res, err := rt.svc.Headlines(cmd.Context(), HeadlinesRequest{
				Keyword:     keyword,
				Days:        intFlag(cmd, "days", days, rt.cfg.Days),
				EnrichLimit: intFlag(cmd, "enrich-limit", enrichLimit, rt.cfg.EnrichLimit),
				Enrich:      !noEnrich,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, res); err != nil {
					return err
				}
			} else if len(res.Articles) == 0 {
				fmt.Fprintln(out, "No news found. Try a different keyword or more days.")
			} else {
				fmt.Fprintf(out, "%d headlines about %q (%s)\n\n", len(res.Articles), res.Keyword, res.Region)
				fmt.Fprintln(out, report.HeadlinesTable(res.Articles))
			}

			if docxPath != "" {
				title := fmt.Sprintf("Headlines: %s (%s)", res.Keyword, res.Region)
				path := reportPath(docxPath, "headlines")
				if err := report.HeadlinesDocx(path, title, res.Articles); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved headlines report to: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "days back to search (default from NEWSINTEL_DAYS)")
	cmd.Flags().IntVar(&enrichLimit, "enrich-limit", 0, "articles to enrich (default from NEWSINTEL_ENRICH_LIMIT)")
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "keep the feed descriptions")
	addDocxFlag(cmd, &docxPath)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newExpandCmd(rt *cliState) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "expand [keyword]",
		Short: "Show the sector search a keyword expands to",
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword, err := resolveKeyword(cmd, args)
			if err != nil {
				return err
			}
			sc := rt.svc.Expander.Expand(keyword)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, sc)
			}
			fmt.Fprintf(out, "Original:         %s\n", sc.Original)
			fmt.Fprintf(out, "Sector:           %s\n", sc.Sector)
			fmt.Fprintf(out, "Optimized query:  %s\n", sc.OptimizedQuery)
			fmt.Fprintf(out, "Context keywords: %s\n", strings.Join(sc.ContextKeywords, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newSectorsCmd(rt *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "sectors",
		Short: "List the sector knowledge base in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, s := range rt.svc.Lexicon.Sectors() {
				fmt.Fprintf(out, "%d. %s\n", i+1, strings.ToUpper(s.Trigger))
				fmt.Fprintf(out, "   query:    %s\n", s.Query)
				fmt.Fprintf(out, "   keywords: %s\n", strings.Join(s.ContextKeywords, ", "))
			}
			return nil
		},
	}
}

func newProbeCmd(rt *cliState) *cobra.Command {
	var (
		days  int
		count int
	)

	cmd := &cobra.Command{
		Use:   "probe [keyword]",
		Short: "Print the first raw items of the headline edition feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword, err := resolveKeyword(cmd, args)
			if err != nil {
				return err
			}
			items, err := rt.svc.Probe(cmd.Context(), keyword, intFlag(cmd, "days", days, rt.cfg.Days), count)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, it := range items {
				fmt.Fprintf(out, "--- item %d ---\n", i+1)
				fmt.Fprintf(out, "Title:       %s\n", it.Title)
				fmt.Fprintf(out, "Source:      %s\n", it.Source)
				fmt.Fprintf(out, "Published:   %s\n", it.Published)
				fmt.Fprintf(out, "Link:        %s\n", it.Link)
				fmt.Fprintf(out, "Description: %s\n\n", it.Description)
			}
			fmt.Fprintf(out, "%d items\n", len(items))
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 0, "days back to search (default from NEWSINTEL_DAYS)")
	cmd.Flags().IntVarP(&count, "count", "n", 3, "items to print")
	return cmd
}

// intFlag returns the flag value when it was set to a positive number, else
// the configured default.
func intFlag(cmd *cobra.Command, name string, val, def int) int {
	if cmd.Flags().Changed(name) && val > 0 {
		return val
	}
	return def
}

// reportPath resolves a bare --docx to a timestamped file under reports/.
func reportPath(flagVal, kind string) string {
	if flagVal == autoReport {
		return report.DefaultPath(reportsDir, kind, time.Now())
	}
	return flagVal
}

func addDocxFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "docx", "", "write a DOCX report to this path (bare flag: reports/<kind>_<time>.docx)")
	cmd.Flags().Lookup("docx").NoOptDefVal = autoReport
}
