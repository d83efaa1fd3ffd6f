package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
)

func analyzeCmd() *cobra.Command {
	var (
		period string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <symbol>",
		Short: "Analyze one symbol and print the recommendation",
		Example: `  stockpulse analyze RELIANCE
  stockpulse analyze TCS --period 2y
  stockpulse analyze AAPL.US --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc := newService(cfg, nil)
			defer svc.Recorder.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			a, err := svc.Analyze(ctx, args[0], period, analyzer.TriggerCLI)
			if errors.Is(err, strategy.ErrInsufficientHistory) {
				return fmt.Errorf("cannot analyze %s: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			printAnalysis(os.Stdout, a)
			return nil
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", "", "History range: 6mo, 1y, 2y or 5y (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	return cmd
}

func printAnalysis(w io.Writer, a *model.Analysis) {
	l := a.Latest
	fmt.Fprintf(w, "%s  %s  (%d bars, %s)\n", a.Symbol, l.Time.Format("2006-01-02"), a.BarCount, a.Period)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Close        %.2f (%+.2f, %+.2f%%)\n", l.Close, a.Change, a.ChangePct)
	fmt.Fprintf(w, "SMA 20       %s\n", l.SMA20)
	fmt.Fprintf(w, "SMA 50       %s\n", l.SMA50)
	fmt.Fprintf(w, "RSI 14       %s\n", l.RSI14)
	if v, ok := l.Volatility21.Get(); ok {
		fmt.Fprintf(w, "Volatility   %.2f%%\n", v*100)
	} else {
		fmt.Fprintln(w, "Volatility   n/a")
	}
	fmt.Fprintf(w, "\nSignal: %s  confidence %d%%  score %d\n", a.Decision.Label, a.Decision.Confidence, a.Decision.Score)
	for _, r := range a.Decision.Reasons {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}
