package main

import (
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fieldlog/geoverify/internal/export"
	"github.com/fieldlog/geoverify/internal/geo"
	"github.com/fieldlog/geoverify/internal/input"
	"github.com/fieldlog/geoverify/internal/pipeline"
	"github.com/fieldlog/geoverify/internal/registry"
)

var (
	verifySites       string
	verifyInputs      []string
	verifyOutput      string
	verifyFormat      string
	verifyConcurrency int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify attendance exports against the site registry",
	Long: `Reads one or more survey export files, classifies each row by its
distance from the claimed site, and writes the report.

Examples:
  # Single export, workbook output
  geoverify verify --sites sites.yaml --input export.xlsx --output report.xlsx

  # Several exports in parallel, one CSV directory each
  geoverify verify --sites sites.csv --input march.csv --input april.csv --format csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sitesPath := verifySites
		if sitesPath == "" {
			sitesPath = cfg.Verify.SitesPath
		}
		if sitesPath == "" {
			return eris.New("verify: no site file; pass --sites or set verify.sites_path")
		}
		if verifyFormat != "xlsx" && verifyFormat != "csv" {
			return eris.Errorf("verify: unknown format %q (want xlsx or csv)", verifyFormat)
		}
		if len(verifyInputs) > 1 && verifyOutput != "" {
			return eris.New("verify: --output only applies to a single --input; outputs are derived per file")
		}

		sites, err := registry.Load(sitesPath)
		if err != nil {
			return eris.Wrap(err, "verify: load sites")
		}
		zap.L().Info("site registry loaded", zap.String("path", sitesPath), zap.Int("sites", sites.Len()))

		thresholds := geo.Thresholds{
			VerifiedMaxMeters: cfg.Verify.VerifiedMaxMeters,
			ReviewMaxMeters:   cfg.Verify.ReviewMaxMeters,
		}
		p := pipeline.New(sites, thresholds, cfg.Verify.ConsentAccepted)

		g, _ := errgroup.WithContext(cmd.Context())
		g.SetLimit(verifyConcurrency)

		var succeeded, failed atomic.Int64
		for _, path := range verifyInputs {
			path := path
			g.Go(func() error {
				if err := verifyFile(p, path); err != nil {
					failed.Add(1)
					zap.L().Error("verify: file failed", zap.String("input", path), zap.Error(err))
					return nil // keep going; failures are counted
				}
				succeeded.Add(1)
				return nil
			})
		}
		_ = g.Wait()

		zap.L().Info("verify: batch complete",
			zap.Int("total", len(verifyInputs)),
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)

		if failed.Load() > 0 {
			return eris.Errorf("verify: %d of %d inputs failed", failed.Load(), len(verifyInputs))
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifySites, "sites", "", "site coordinates file (yaml, csv, xlsx, or shp; default from config)")
	verifyCmd.Flags().StringArrayVar(&verifyInputs, "input", nil, "survey export file (repeatable)")
	verifyCmd.Flags().StringVar(&verifyOutput, "output", "", "output path (single input only; default derived from input name)")
	verifyCmd.Flags().StringVar(&verifyFormat, "format", "xlsx", "output format: xlsx or csv")
	verifyCmd.Flags().IntVar(&verifyConcurrency, "concurrency", 2, "max input files to process concurrently")
	_ = verifyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(verifyCmd)
}

// verifyFile runs one export through the pipeline and writes its report.
func verifyFile(p *pipeline.Pipeline, path string) error {
	table, err := input.ReadTable(path)
	if err != nil {
		return err
	}
	rows, err := input.Parse(table, cfg.Input.Columns)
	if err != nil {
		return err
	}

	res := p.Run(rows)
	tables := pipeline.BuildTables(res)

	out := verifyOutput
	if out == "" {
		out = derivedOutput(path, verifyFormat)
	}

	if verifyFormat == "csv" {
		err = export.WriteCSVDir(tables, out)
	} else {
		err = export.WriteWorkbook(tables, out)
	}
	if err != nil {
		return err
	}

	zap.L().Info("report written",
		zap.String("run_id", res.RunID),
		zap.String("input", path),
		zap.String("output", out),
		zap.Int("records", len(res.Log)),
		zap.Int("filtered", res.FilteredRows),
		zap.Int("review_flags", len(res.Review)),
	)
	return nil
}

// derivedOutput names the report after the input: export.csv becomes
// export_verified.xlsx, or an export_verified/ directory for CSV format.
func derivedOutput(inputPath, format string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "_verified"
	if format == "csv" {
		return base
	}
	return base + ".xlsx"
}
