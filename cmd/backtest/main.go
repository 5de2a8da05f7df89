package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/stage"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// runResult pairs a finished run with its report.
type runResult struct {
	run    settings.Run
	report stage.Report
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// runAction runs the backtest described by the --config file.
func runAction(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	quiet := cmd.Bool("quiet")

	config, err := os.ReadFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	backtest := enginev1.NewBacktestEngineV1()
	if err := backtest.Initialize(string(config)); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	if results := cmd.String("results"); results != "" {
		if err := backtest.SetResultsFolder(results); err != nil {
			return err
		}
	}

	var (
		bar     *progressbar.ProgressBar
		results []runResult
	)

	onStart := engine.OnBacktestStartCallback(func(sessionID string, totalRuns int) error {
		fmt.Fprintf(out, "Session %s: %d run(s)\n", sessionID, totalRuns)
		return nil
	})
	onRunStart := engine.OnRunStartCallback(func(run settings.Run, totalCandles int) error {
		if !quiet {
			bar = progressbar.NewOptions(totalCandles,
				progressbar.OptionSetWriter(out),
				progressbar.OptionSetDescription(fmt.Sprintf("Run %d/%d", run.ID, run.Total)),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(0),
			)
		}
		return nil
	})
	onProcessData := engine.OnProcessDataCallback(func(current int, total int) error {
		if bar != nil {
			return bar.Set(current)
		}
		return nil
	})
	onRunEnd := engine.OnRunEndCallback(func(run settings.Run, report stage.Report) {
		if bar != nil {
			_ = bar.Finish()
			fmt.Fprintln(out)
		}
		results = append(results, runResult{run: run, report: report})
	})

	err = backtest.Run(ctx, engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnRunStart:      &onRunStart,
		OnProcessData:   &onProcessData,
		OnRunEnd:        &onRunEnd,
	})
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	fmt.Fprintln(out, renderReports(results))

	if v1, ok := backtest.(*enginev1.BacktestEngineV1); ok {
		fmt.Fprintf(out, "Logs written to %s\n", v1.ResultFolder())
	}

	return nil
}

// schemaAction prints the JSON schema of the configuration.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schema, err := enginev1.NewBacktestEngineV1().GetConfigSchema()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

// renderReports draws one table row per run: the swept values followed by
// the main statistics of the report.
func renderReports(results []runResult) string {
	headers := []string{"Run"}
	if len(results) > 0 {
		headers = append(headers, results[0].run.Names...)
	}
	headers = append(headers, "Net profit", "Trades", "Win %", "Profit factor", "Max drawdown")

	rows := make([][]string, 0, len(results))

	for _, result := range results {
		row := []string{strconv.Itoa(result.run.ID)}
		for _, v := range result.run.Values {
			row = append(row, strconv.Itoa(v))
		}

		r := result.report
		row = append(row,
			strconv.FormatFloat(r.TotalNetProfit, 'f', 2, 64),
			strconv.Itoa(r.TotalTrades),
			strconv.FormatFloat(r.PercProfitable, 'f', 1, 64),
			strconv.FormatFloat(r.ProfitFactor, 'f', 2, 64),
			strconv.FormatFloat(r.MaxDrawdown, 'f', 2, 64),
		)

		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render()
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "backtest",
		Usage:  "Run FX strategy backtests over historical bars",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run every parameter combination of a backtest configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the backtest configuration `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "results",
						Aliases: []string{"r"},
						Usage:   "Directory the logs are exported to. Overrides general.output_directory",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Hide the progress bars",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the backtest configuration",
				Action: schemaAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
