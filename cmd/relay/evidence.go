package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/relay/pkg/cli"
	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/evidence"
	"mercator-hq/relay/pkg/evidence/retention"
	"mercator-hq/relay/pkg/evidence/storage"
)

var evidenceFlags struct {
	since   time.Duration
	until   string
	model   string
	outcome string
	limit   int
	offset  int
	format  string
}

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Inspect the evidence trail",
	Long: `Query and prune the evidence trail written by "relay run".

Evidence is only persisted by the sqlite backend; the memory backend lives
inside the server process.

Subcommands:
  query  - List evidence records with filters
  prune  - Apply the retention policy once`,
}

var evidenceQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query evidence records",
	Long: `List evidence records, newest first.

Examples:
  # Last 24 hours
  relay evidence query --since 24h

  # Failed calls as CSV
  relay evidence query --outcome error --format csv`,
	RunE: queryEvidence,
}

var evidencePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records outside the retention policy",
	RunE:  pruneEvidence,
}

func init() {
	rootCmd.AddCommand(evidenceCmd)
	evidenceCmd.AddCommand(evidenceQueryCmd, evidencePruneCmd)

	f := evidenceQueryCmd.Flags()
	f.DurationVar(&evidenceFlags.since, "since", 0, "only records newer than this duration (e.g. 24h)")
	f.StringVar(&evidenceFlags.until, "until", "", "only records at or before this RFC3339 time")
	f.StringVar(&evidenceFlags.model, "model", "", "filter by model")
	f.StringVar(&evidenceFlags.outcome, "outcome", "", "filter by outcome: success, error")
	f.IntVar(&evidenceFlags.limit, "limit", 100, "maximum number of records")
	f.IntVar(&evidenceFlags.offset, "offset", 0, "records to skip")
	f.StringVar(&evidenceFlags.format, "format", "text", "output format: text, json, csv")
}

func openEvidenceStorage() (evidence.Storage, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Evidence.Backend != "sqlite" {
		return nil, nil, cli.NewConfigError("evidence.backend",
			fmt.Sprintf("backend %q is not persistent; configure the sqlite backend", cfg.Evidence.Backend))
	}

	store, err := storage.New(cfg.Evidence)
	if err != nil {
		return nil, nil, cli.NewCommandError("evidence", err)
	}
	return store, cfg, nil
}

// buildQuery converts the query flags to an evidence query.
func buildQuery(now time.Time) (*evidence.Query, error) {
	q := &evidence.Query{
		Model:   evidenceFlags.model,
		Outcome: evidenceFlags.outcome,
		Limit:   evidenceFlags.limit,
		Offset:  evidenceFlags.offset,
	}

	switch q.Outcome {
	case "", evidence.OutcomeSuccess, evidence.OutcomeError:
	default:
		return nil, cli.NewConfigError("outcome", fmt.Sprintf("unknown outcome %q", q.Outcome))
	}

	if evidenceFlags.since > 0 {
		start := now.Add(-evidenceFlags.since)
		q.StartTime = &start
	}
	if evidenceFlags.until != "" {
		end, err := time.Parse(time.RFC3339, evidenceFlags.until)
		if err != nil {
			return nil, cli.NewConfigError("until", fmt.Sprintf("invalid RFC3339 time: %v", err))
		}
		q.EndTime = &end
	}

	return q, nil
}

func queryEvidence(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(evidenceFlags.format)
	if err != nil {
		return err
	}
	query, err := buildQuery(time.Now())
	if err != nil {
		return err
	}

	store, _, err := openEvidenceStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Query(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("evidence query", err)
	}

	var data any = recordTable(records)
	if format == cli.FormatJSON {
		data = records
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), data)
}

func pruneEvidence(cmd *cobra.Command, args []string) error {
	store, cfg, err := openEvidenceStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	pruner := retention.NewPruner(store, &retention.Config{
		RetentionDays: cfg.Evidence.Retention.Days,
		MaxRecords:    cfg.Evidence.Retention.MaxRecords,
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("evidence prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d records\n", deleted)
	return nil
}

// recordTable renders evidence records as rows.
type recordTable []*evidence.Record

func (t recordTable) Header() []string {
	return []string{"TIME", "REQUEST_ID", "MODEL", "OUTCOME", "CODE", "TOKENS", "LATENCY_MS", "PROMPT_HASH"}
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.RequestTime.UTC().Format(time.RFC3339),
			r.RequestID,
			r.Model,
			r.Outcome,
			r.ErrorCode,
			strconv.Itoa(r.TotalTokens),
			strconv.FormatInt(r.ProviderLatency.Milliseconds(), 10),
			r.PromptHash,
		})
	}
	return rows
}
