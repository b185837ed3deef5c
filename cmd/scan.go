package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/webopt/internal/core/services"
	"github.com/kamal-hamza/webopt/pkg/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Report performance suggestions without changing anything",
	Long: `Scan HTML and CSS files for common performance problems:

  - elements with inline style attributes
  - scripts in <head> without async or defer
  - stylesheets larger than stylesheet_threshold (default 50000 bytes)

No files are modified.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"dirArg": "true"},
	RunE:        runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	resp, err := advisoryService.Scan(ctx, services.ScanRequest{Root: appWorkspace.RootPath})
	if err != nil {
		return err
	}

	if len(resp.Findings) == 0 {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("No suggestions for %s", plural(resp.FilesScanned, "file"))))
		return nil
	}

	printFindings(resp.Findings)
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Scanned %s", plural(resp.FilesScanned, "file"))))
	return nil
}
