// Command skillcheck analyses a syllabus offline and prints the result as JSON.
//
//	skillcheck [--role "Data Analyst"] [--taxonomy data/skill_list.csv] [file]
//
// Without a file argument the syllabus is read from stdin. The agent is used
// when its provider credential is configured.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/observability"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/app"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/usecase"
)

// maxInput caps the syllabus read from a file or stdin.
const maxInput = 8 << 20

type options struct {
	role     string
	taxonomy string
	noAgent  bool
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "skillcheck [file]",
		Short:        "Map a syllabus onto the role skill taxonomy",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&opts.role, "role", "", "Restrict the result to one role")
	cmd.Flags().StringVar(&opts.taxonomy, "taxonomy", "", "Taxonomy source (overrides TAXONOMY_SOURCE)")
	cmd.Flags().BoolVar(&opts.noAgent, "no-agent", false, "Skip the concept-mapping agent")
	return cmd
}

func run(ctx context.Context, opts options, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.taxonomy != "" {
		cfg.TaxonomySource = opts.taxonomy
	}
	// logs go to stderr so stdout stays valid JSON
	slog.SetDefault(observability.SetupLoggerTo(stderr, cfg))

	text, err := readSyllabus(args, stdin)
	if err != nil {
		return err
	}

	tax := app.LoadTaxonomy(ctx, cfg)
	var agent app.Agent
	if !opts.noAgent {
		agent = app.BuildAgent(ctx, cfg)
		defer agent.Close()
	}
	svc, err := app.NewAnalyzeService(tax, agent.Mapper.Func())
	if err != nil {
		return err
	}
	return analyze(ctx, svc, text, opts.role, stdout)
}

func readSyllabus(args []string, stdin io.Reader) (string, error) {
	var r io.Reader = stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("op=skillcheck.readSyllabus: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxInput))
	if err != nil {
		return "", fmt.Errorf("op=skillcheck.readSyllabus: %w", err)
	}
	return string(data), nil
}

func analyze(ctx context.Context, svc usecase.AnalyzeService, text, role string, w io.Writer) error {
	res, err := svc.Analyze(ctx, text, role)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
