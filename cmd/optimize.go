package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/webopt/internal/adapters/report"
	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/internal/core/services"
	"github.com/kamal-hamza/webopt/pkg/ui"
)

var (
	dryRunFlag       bool
	qualityFlag      int
	kindsFlag        string
	forceImagesFlag  bool
	precompressFlag  string
	noAdvisoriesFlag bool
	reportFlag       string
	chartFlag        string
	quietFlag        bool
)

var optimizeCmd = &cobra.Command{
	Use:     "optimize [dir]",
	Aliases: []string{"opt"},
	Short:   "Optimize every asset under a directory",
	Long: `Minify CSS, JavaScript and HTML and recompress images in place.

Kinds are processed in a fixed order: css, js, html, then images.
Before a file is first rewritten, its original is copied next to it
(style.css -> style.css.backup). Existing backups are never overwritten,
so they always hold the pre-optimization content.

Images that were already recompressed are skipped unless --force-images
is given, since lossy re-encoding compounds.

After optimizing, the HTML and CSS files are scanned for inline styles,
render-blocking scripts and oversized stylesheets.

Examples:
  webopt optimize ./public
  webopt optimize --dry-run --kinds css,js
  webopt optimize dist --precompress gzip,brotli --report report.json`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"dirArg": "true"},
	RunE:        runOptimize,
}

func init() {
	optimizeCmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "Report what would change without writing anything")
	optimizeCmd.Flags().IntVarP(&qualityFlag, "quality", "q", 0, "JPEG quality 1-100 (default 85)")
	optimizeCmd.Flags().StringVarP(&kindsFlag, "kinds", "k", "", "Comma separated kinds to process (css,js,html,image)")
	optimizeCmd.Flags().BoolVar(&forceImagesFlag, "force-images", false, "Recompress images even if already recompressed")
	optimizeCmd.Flags().StringVar(&precompressFlag, "precompress", "", "Write precompressed siblings (gzip,brotli,zstd)")
	optimizeCmd.Flags().BoolVar(&noAdvisoriesFlag, "no-advisories", false, "Skip the advisory scan")
	optimizeCmd.Flags().StringVar(&reportFlag, "report", "", "Write a JSON run report to this file")
	optimizeCmd.Flags().StringVar(&chartFlag, "chart", "", "Write an HTML size chart to this file")
	optimizeCmd.Flags().BoolVar(&quietFlag, "quiet", false, "Only print the summary")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	kinds, err := parseKinds(appConfig.Kinds)
	if err != nil {
		return err
	}

	if appConfig.DryRun {
		fmt.Println(ui.FormatWarning("Dry run: no files will be written"))
	}
	fmt.Println(ui.FormatRocket("Optimizing " + appWorkspace.RootPath))
	fmt.Println()

	req := services.OptimizeRequest{
		Root:        appWorkspace.RootPath,
		Kinds:       kinds,
		DryRun:      appConfig.DryRun,
		ForceImages: appConfig.ForceImages,
		Advisories:  appConfig.Advisories,
	}
	if !quietFlag {
		req.OnResult = printResult
	}

	resp, err := optimizeService.Execute(ctx, req)
	if err != nil {
		if resp == nil {
			return err
		}
		// Interrupted: still show what was done
		printSummary(&resp.Run)
		return err
	}

	run := &resp.Run
	printSummary(run)
	printFindings(run.Findings)

	if reportFlag != "" {
		if err := report.SaveJSON(reportFlag, run); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Report written to " + reportFlag))
	}
	if chartFlag != "" {
		if err := report.SaveChart(chartFlag, run); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Chart written to " + chartFlag))
	}

	if !run.DryRun {
		printRestoreHint()
	}

	if resp.HasFailures() {
		return fmt.Errorf("%s could not be optimized", plural(run.Count(domain.StatusFailed), "file"))
	}
	return nil
}
