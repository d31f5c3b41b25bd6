package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xela07ax/truverse-dashboard/internal/chart"
	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/engine"
	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
	"github.com/xela07ax/truverse-dashboard/internal/stats"
)

// snapshotFlags — общие флаги view и render
type snapshotFlags struct {
	file    string
	rng     string
	verbose bool
}

func (f *snapshotFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "snapshot", "", "JSON/YAML override blob (default: built-in snapshot)")
	cmd.Flags().StringVar(&f.rng, "range", "", "dashboard window: 24h, 7d, 30d (default: snapshot range)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log snapshot loading")
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "trustctl",
		Short:        "TruVerse trust dashboard toolkit",
		SilenceUsage: true,
	}
	root.AddCommand(newScoreCmd(), newViewCmd(), newRenderCmd(), newHashPasswordCmd())
	return root
}

func newScoreCmd() *cobra.Command {
	var in stats.TrustInput
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the trust score and rates for raw counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Scanned < 0 || in.Flagged < 0 || in.Blocked < 0 || in.Reported < 0 {
				return errors.New("counters must be non-negative")
			}
			return writeJSON(cmd.OutOrStdout(), engine.Score(in))
		},
	}
	cmd.Flags().Int64Var(&in.Scanned, "scanned", 0, "posts scanned")
	cmd.Flags().Int64Var(&in.Flagged, "flagged", 0, "posts flagged")
	cmd.Flags().Int64Var(&in.Blocked, "blocked", 0, "posts blocked")
	cmd.Flags().Int64Var(&in.Reported, "reported", 0, "posts reported")
	return cmd
}

func newViewCmd() *cobra.Command {
	var f snapshotFlags
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the derived dashboard view as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := f.load(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.BuildView(s))
		},
	}
	f.bind(cmd)
	return cmd
}

func newRenderCmd() *cobra.Command {
	var f snapshotFlags
	cmd := &cobra.Command{
		Use:       "render line|bar|donut",
		Short:     "Render a dashboard chart as SVG",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"line", "bar", "donut"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.load(cmd.Context())
			if err != nil {
				return err
			}
			view := engine.BuildView(s)

			var svg string
			switch args[0] {
			case "line":
				svg = chart.RenderLine(view.Charts.Line, "", "")
			case "bar":
				svg = chart.RenderBar(view.Charts.Bar, "")
			case "donut":
				svg = chart.RenderDonut(view.Charts.Donut, "Total", view.Breakdown.TotalCompact)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), svg)
			return err
		},
	}
	f.bind(cmd)
	return cmd
}

// newHashPasswordCmd печатает bcrypt-хэш пароля оператора для auth.operator.password_hash.
// Пароль читается из stdin, чтобы не попадать в историю шелла.
func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash an operator password (read from stdin) with bcrypt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return errors.New("empty password")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("bcrypt: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return err
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

// load собирает снапшот: дефолт + файл (если задан), затем окно --range.
// Битый файл не фатален, как и в консоли: остается дефолт.
func (f *snapshotFlags) load(ctx context.Context) (domain.MetricSnapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zap.NewNop()
	if f.verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return snapshot.Default(), fmt.Errorf("trustctl: logger: %w", err)
		}
		logger = dev
	}

	s := snapshot.Default()
	if f.file != "" {
		merged, err := snapshot.NewLoader(snapshot.NewFileSource(f.file), logger).Load(ctx, s)
		if err != nil && !errors.Is(err, snapshot.ErrNoSnapshot) && !errors.Is(err, snapshot.ErrNotObject) {
			return s, err
		}
		s = merged
	}

	if f.rng != "" {
		r, err := domain.ParseRange(f.rng)
		if err != nil {
			return s, fmt.Errorf("%w: %q", err, f.rng)
		}
		s = snapshot.ForRange(s, r)
	}
	return s, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
