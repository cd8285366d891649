package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/abhisek/quizvox/internal/llm"
	"github.com/abhisek/quizvox/internal/store"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the grading and rephrasing requests sent to the LLM",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	Long: "List recent LLM requests, newest first. Use --failed to find the requests behind\n" +
		"flashcards that were skipped because grading or rephrasing failed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")
		since, _ := cmd.Flags().GetDuration("since")

		if purpose != "" && !llm.Purpose(purpose).Known() {
			return fmt.Errorf("unknown purpose %q (want one of %s)", purpose, llm.PurposeList())
		}

		opts := store.QueryOpts{Limit: limit, Purpose: purpose, Failed: failed}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func printEvents(out io.Writer, events []store.LLMRequestEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM requests recorded.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPURPOSE\tMODEL\tIN\tOUT\tMS\tOK")
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗ " + truncate(e.ErrorMessage, 40)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, truncate(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
	}
	w.Flush()
}

func printEvent(out io.Writer, e *store.LLMRequestEventRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", e.ID)
	fmt.Fprintf(w, "Time:\t%s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "Provider:\t%s\n", e.Provider)
	fmt.Fprintf(w, "Model:\t%s\n", e.Model)
	fmt.Fprintf(w, "Purpose:\t%s\n", e.Purpose)
	fmt.Fprintf(w, "Tokens:\t%d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:\t%dms\n", e.LatencyMs)
	fmt.Fprintf(w, "Success:\t%v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:\t%s\n", e.ErrorMessage)
	}
	w.Flush()

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(out, "\n%s\n%s\n%s\n", sep, part.title, sep)
		fmt.Fprintln(out, prettyBody(part.body))
	}
}

// prettyBody indents JSON bodies and passes anything else through.
func prettyBody(body string) string {
	if body == "" {
		return "(not captured)"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}

func printUsage(out io.Writer, byPurpose, byModel []store.LLMUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(out, "No LLM usage recorded yet.")
		return
	}

	fmt.Fprintln(out, "Usage by purpose")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tAVG MS\t")
	var calls, in, outTok int
	for _, u := range byPurpose {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		outTok += u.OutputTokens
	}
	fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\t\t\n", calls, in, outTok)
	w.Flush()

	if len(byModel) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Estimated cost (USD)")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MODEL\tCALLS\tCOST\t")
	var total float64
	var unpriced []string
	for _, u := range byModel {
		cost := llm.LookupCost(u.Model)
		if cost == nil {
			unpriced = append(unpriced, u.Model)
			fmt.Fprintf(w, "%s\t%d\t?\t\n", truncate(u.Model, 32), u.Calls)
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", truncate(u.Model, 32), u.Calls, formatCost(c))
	}
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%s\t\t%s\t\n", label, formatCost(total))
	w.Flush()

	if len(unpriced) > 0 {
		fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

// openStore opens the database without loading the rest of the
// configuration, so the log can be read without API keys.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err == nil && dbPath == "" {
		dbPath, err = store.DefaultDBPath()
	}
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose ("+llm.PurposeList()+")")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")
	llmListCmd.Flags().Duration("since", 0, "Only show requests newer than this, e.g. 2h")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
