package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"unicode"

	"github.com/spf13/cobra"

	"newsintel/internal/config"
)

// Version is set at build time.
var Version = "0.1.0"

// cliState is the per-invocation state shared by the subcommands.
type cliState struct {
	cfg     config.Config
	logger  *slog.Logger
	svc     *Service
	cleanup func() error
	verbose bool
}

// Run executes the command line and returns the first error.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := &cliState{}
	return rt.execute(ctx, newRootCmd(rt))
}

// execute runs root and closes the log file afterwards, whether or not the
// command failed.
func (rt *cliState) execute(ctx context.Context, root *cobra.Command) error {
	defer rt.closeLog(root.ErrOrStderr())
	return root.ExecuteContext(ctx)
}

func (rt *cliState) closeLog(w io.Writer) {
	if rt.cleanup == nil {
		return
	}
	if err := rt.cleanup(); err != nil {
		fmt.Fprintf(w, "Warning: failed to close log file: %v\n", err)
	}
	rt.cleanup = nil
}

// newRootCmd builds a fresh command tree bound to rt.
func newRootCmd(rt *cliState) *cobra.Command {
	root := &cobra.Command{
		Use:   "newsintel",
		Short: "Rank the organizations in the news for a keyword",
		Long: `Newsintel fetches recent news for a keyword from Google News RSS editions
and curated feeds, then extracts, scores and ranks the companies, agencies
and research organizations the articles mention.

Examples:
  newsintel analyze "electric vehicles"
  newsintel analyze "pharma companies" --days 14 --min-mentions 3
  newsintel headlines "chemical industry" --docx reports/headlines.docx
  newsintel expand "ev"
  newsintel sectors`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			rt.cfg = config.Load()
			level := rt.cfg.LogLevel
			if rt.verbose {
				level = slog.LevelDebug
			}
			rt.logger, rt.cleanup = config.SetupLogger(rt.cfg.LogFile, level)

			svc, err := NewService(rt.cfg, rt.logger)
			if err != nil {
				return fmt.Errorf("init service: %w", err)
			}
			rt.svc = svc
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAnalyzeCmd(rt),
		newHeadlinesCmd(rt),
		newExpandCmd(rt),
		newSectorsCmd(rt),
		newProbeCmd(rt),
	)
	return root
}

// ===== Keyword input =====

// resolveKeyword joins the positional args, or prompts on the command's
// input until a valid keyword is entered.
func resolveKeyword(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		kw := strings.TrimSpace(strings.Join(args, " "))
		if ok, reason := validateKeyword(kw); !ok {
			return "", fmt.Errorf("invalid keyword %q: %s", kw, reason)
		}
		return kw, nil
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.ErrOrStderr()
	for {
		fmt.Fprintln(out, "Enter a keyword (company, sector or topic).")
		fmt.Fprintln(out, "Submit with a blank line.")
		fmt.Fprint(out, "> ")

		kw, err := readMultiline(in, out)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		kw = strings.Join(strings.Fields(kw), " ")

		ok, reason := validateKeyword(kw)
		if ok {
			return kw, nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no keyword given: %s", reason)
		}
		fmt.Fprintf(out, "Invalid keyword (%s). Try again.\n\n", reason)
	}
}

// readMultiline reads lines until a blank line after some input. It returns
// io.EOF alongside whatever was read when the input ends.
func readMultiline(r *bufio.Reader, prompt io.Writer) (string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			line = strings.TrimRight(line, "\r\n")
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
			return strings.Join(lines, "\n"), err
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				break
			}
			fmt.Fprint(prompt, "> ")
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

var reDigitsPunctOnly = regexp.MustCompile(`^[\d\pP\pS\s]+$`)

// validateKeyword rejects empty input and input with no letters. Short
// keywords such as "EV" or "AI" are valid.
func validateKeyword(q string) (bool, string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return false, "empty"
	}
	if reDigitsPunctOnly.MatchString(q) {
		return false, "no words detected"
	}

	total := 0
	letters := 0
	for _, r := range q {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if float64(letters)/float64(total) < 0.30 {
		return false, "too many non-letter characters"
	}
	return true, ""
}

// ===== Output =====

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
