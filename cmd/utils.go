package cmd

import (
	"fmt"
	"time"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/pkg/ui"
)

// parseKinds converts config kind names to domain kinds
func parseKinds(names []string) ([]domain.Kind, error) {
	kinds := make([]domain.Kind, 0, len(names))
	for _, name := range names {
		k, err := domain.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// printResult prints a single per-file line as files are processed
func printResult(r domain.ProcessResult) {
	path := appWorkspace.RelPath(r.Path)

	switch r.Status {
	case domain.StatusOptimized, domain.StatusDryRun:
		fmt.Printf("%s %s %s\n",
			ui.FormatSuccess(path),
			ui.FormatMuted(fmt.Sprintf("%s → %s", ui.FormatBytes(r.OriginalSize), ui.FormatBytes(r.OptimizedSize))),
			ui.FormatReduction(r.Reduction))
	case domain.StatusUnchanged:
		fmt.Println(ui.FormatMuted("  " + path + " (" + r.Reason + ")"))
	case domain.StatusSkipped:
		fmt.Println(ui.FormatSkip(path + " (" + r.Reason + ")"))
	case domain.StatusFailed:
		msg := path
		if r.Err != nil {
			msg += ": " + r.Err.Error()
		}
		fmt.Println(ui.FormatError(msg))
	}
}

// printSummary prints per-kind totals for the run
func printSummary(run *domain.Run) {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Kind"},
		{Header: "Files", Align: "right"},
		{Header: "Optimized", Align: "right"},
		{Header: "Failed", Align: "right"},
		{Header: "Before", Align: "right"},
		{Header: "After", Align: "right"},
		{Header: "Saved", Align: "right"},
	})

	for _, kind := range domain.AllKinds {
		sub := &domain.Run{}
		for _, r := range run.Results {
			if r.Kind == kind {
				sub.Results = append(sub.Results, r)
			}
		}
		if len(sub.Results) == 0 {
			continue
		}
		before, after := sub.Bytes()
		table.AddRow(
			string(kind),
			fmt.Sprintf("%d", len(sub.Results)),
			fmt.Sprintf("%d", sub.Count(domain.StatusOptimized)+sub.Count(domain.StatusDryRun)),
			fmt.Sprintf("%d", sub.Count(domain.StatusFailed)),
			ui.FormatBytes(before),
			ui.FormatBytes(after),
			ui.FormatReduction(domain.Reduction(before, after)),
		)
	}

	fmt.Println()
	if len(table.Rows) == 0 {
		fmt.Println(ui.FormatInfo("No assets found"))
		return
	}
	fmt.Println(table.Render())

	before, after := run.Bytes()
	fmt.Println(ui.RenderKeyValue("Total", fmt.Sprintf("%s → %s (%s saved)",
		ui.FormatBytes(before), ui.FormatBytes(after), ui.FormatBytes(before-after))))
	fmt.Println(ui.RenderKeyValue("Duration", run.Duration().Round(time.Millisecond).String()))
}

// printFindings prints advisory findings grouped by check
func printFindings(findings []domain.Finding) {
	if len(findings) == 0 {
		return
	}

	fmt.Println()
	fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("Suggestions (%d)", len(findings))))
	for _, category := range domain.AllCategories {
		for _, f := range findings {
			if f.Category != category {
				continue
			}
			fmt.Printf("%s %s\n", ui.FormatTip(appWorkspace.RelPath(f.Path)), ui.FormatMuted(f.Message))
		}
	}
}

// printRestoreHint tells the user how to undo the run by hand
func printRestoreHint() {
	fmt.Println()
	fmt.Println(ui.FormatInfo("Originals were saved next to each file with the " + appWorkspace.BackupSuffix + " suffix."))
	fmt.Println(ui.FormatMuted("  Undo with: webopt restore --all"))
	fmt.Println(ui.FormatMuted("  or:        " + appWorkspace.RestoreHint()))
}

// plural returns word with an "s" when n is not 1
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
