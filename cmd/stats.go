package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/pkg/ui"
)

var (
	statsTop int
)

var statsCmd = &cobra.Command{
	Use:   "stats [dir]",
	Short: "Show the savings recorded by existing backups",
	Long: `Compare every backup under a directory with the current file to show
how much has been saved across all runs so far.

Includes:
  - Totals per asset kind
  - The files with the largest savings`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"dirArg": "true"},
	RunE:        runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "Number of files to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	files, err := restoreService.Status(ctx, appWorkspace.RootPath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println(ui.FormatInfo("No backups found, nothing has been optimized here yet"))
		return nil
	}

	fmt.Println(ui.FormatTitle("Savings"))
	fmt.Println()

	// 1. Per-kind totals
	kinds := ui.NewTable([]ui.TableColumn{
		{Header: "Kind"},
		{Header: "Files", Align: "right"},
		{Header: "Before", Align: "right"},
		{Header: "After", Align: "right"},
		{Header: "Saved", Align: "right"},
	})
	var totalBefore, totalAfter int64
	for _, kind := range domain.AllKinds {
		var n int
		var before, after int64
		for _, f := range files {
			if f.Kind != kind {
				continue
			}
			n++
			before += f.OriginalSize
			after += f.OptimizedSize
		}
		if n == 0 {
			continue
		}
		totalBefore += before
		totalAfter += after
		kinds.AddRow(string(kind), fmt.Sprintf("%d", n), ui.FormatBytes(before), ui.FormatBytes(after),
			ui.FormatReduction(domain.Reduction(before, after)))
	}
	fmt.Println(kinds.Render())
	fmt.Println(ui.RenderKeyValue("Total saved", fmt.Sprintf("%s of %s",
		ui.FormatBytes(totalBefore-totalAfter), ui.FormatBytes(totalBefore))))

	// 2. Largest savings
	sort.Slice(files, func(i, j int) bool {
		return files[i].OriginalSize-files[i].OptimizedSize > files[j].OriginalSize-files[j].OptimizedSize
	})
	if statsTop > 0 && len(files) > statsTop {
		files = files[:statsTop]
	}

	fmt.Println()
	fmt.Println(ui.StyleHeader.Render("Top files"))
	top := ui.NewTable([]ui.TableColumn{
		{Header: "File"},
		{Header: "Saved", Align: "right"},
		{Header: "Reduction", Align: "right"},
	})
	for _, f := range files {
		top.AddRow(appWorkspace.RelPath(f.Path), ui.FormatBytes(f.OriginalSize-f.OptimizedSize),
			ui.FormatReduction(domain.Reduction(f.OriginalSize, f.OptimizedSize)))
	}
	fmt.Println(top.Render())
	return nil
}
