// Command reconcile runs one reconciliation over local files and writes the
// xlsx report, without the database or the HTTP server.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/radhian/expense-reconciliation/config"
	"github.com/radhian/expense-reconciliation/entity"
	"github.com/radhian/expense-reconciliation/infra/ingest"
	"github.com/radhian/expense-reconciliation/infra/report"
	"github.com/radhian/expense-reconciliation/usecase/reconciliation"

	"github.com/labstack/gommon/log"
)

type options struct {
	expenses    string
	ledger      string
	movements   string
	cardSummary string
	output      string
	competence  string
	configPath  string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	fs.StringVar(&opts.expenses, "expenses", "", "platform expenses export (.csv, .xlsx, .xls)")
	fs.StringVar(&opts.ledger, "ledger", "", "ERP ledger report (.csv, .xlsx, .xls)")
	fs.StringVar(&opts.movements, "movements", "", "optional ERP movements export with data_mov")
	fs.StringVar(&opts.cardSummary, "card-summary", "", "optional card balance summary")
	fs.StringVar(&opts.output, "output", "reconciliation.xlsx", "workbook to write")
	fs.StringVar(&opts.competence, "competence", "", "competence month MM/YYYY, detected when empty")
	fs.StringVar(&opts.configPath, "config", "config.yaml", "path to the YAML config file")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.expenses == "" || opts.ledger == "" {
		return opts, errors.New("--expenses and --ledger are required")
	}
	return opts, nil
}

func loadInput(opts options) (reconciliation.PipelineInput, []entity.CardBalance, error) {
	var (
		input reconciliation.PipelineInput
		cards []entity.CardBalance
		err   error
	)
	if input.Expenses, err = ingest.LoadExpenses(opts.expenses); err != nil {
		return input, nil, err
	}
	if input.Entries, err = ingest.LoadLedgerEntries(opts.ledger); err != nil {
		return input, nil, err
	}
	if opts.movements != "" {
		if input.MovementDates, err = ingest.LoadMovementDates(opts.movements); err != nil {
			return input, nil, err
		}
	}
	if opts.cardSummary != "" {
		if cards, err = ingest.LoadCardSummary(opts.cardSummary); err != nil {
			return input, nil, err
		}
	}
	if opts.competence != "" {
		if input.Competence, err = reconciliation.ParseCompetence(opts.competence); err != nil {
			return input, nil, err
		}
	}
	return input, cards, nil
}

// confirmCompetence asks the operator to pick one of the detected months.
func confirmCompetence(ambiguous *reconciliation.AmbiguousCompetenceError, in *bufio.Reader, out io.Writer) (time.Time, error) {
	labels := make([]string, 0, len(ambiguous.Options))
	for _, option := range ambiguous.Options {
		labels = append(labels, reconciliation.FormatCompetence(option))
	}

	for {
		fmt.Fprintf(out, "Several competence months detected (%s). Enter the month to reconcile (MM/YYYY): ", strings.Join(labels, ", "))
		line, err := in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			competence, parseErr := reconciliation.ParseCompetence(line)
			if parseErr == nil {
				return competence, nil
			}
			fmt.Fprintln(out, parseErr)
		}
		if err != nil {
			return time.Time{}, fmt.Errorf("competence not confirmed: %w", err)
		}
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	config.ApplyLogLevel(cfg.LogLevel)

	normalizerCfg, err := cfg.Rules.NormalizerConfig()
	if err != nil {
		return err
	}
	matcherCfg, err := cfg.Rules.MatcherConfig()
	if err != nil {
		return err
	}
	pipeline := reconciliation.NewPipeline(normalizerCfg, matcherCfg)

	input, cards, err := loadInput(opts)
	if err != nil {
		return err
	}

	out, err := pipeline.Run(input)
	var ambiguous *reconciliation.AmbiguousCompetenceError
	if errors.As(err, &ambiguous) {
		input.Competence, err = confirmCompetence(ambiguous, bufio.NewReader(stdin), stdout)
		if err != nil {
			return err
		}
		out, err = pipeline.Run(input)
	}
	if err != nil {
		return err
	}

	if err := report.WriteWorkbook(report.BuildExport(&out.Result), opts.output); err != nil {
		return err
	}

	if !out.Competence.IsZero() {
		fmt.Fprintf(stdout, "Competence: %s\n", reconciliation.FormatCompetence(out.Competence))
	}
	fmt.Fprint(stdout, report.Render(&out.Result))
	for _, card := range cards {
		fmt.Fprintf(stdout, "Card %s: opening %s, closing %s\n", card.Team, card.OpeningBalance.StringFixed(2), card.ClosingBalance.StringFixed(2))
	}
	fmt.Fprintf(stdout, "Workbook written to %s\n", opts.output)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("[Reconcile] %v", err)
	}
}
