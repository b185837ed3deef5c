package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/webopt/pkg/ui"
)

var (
	purgeForce bool
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge [dir]",
	Short: "Delete every backup under a directory",
	Long: `Delete the backups left next to optimized files.

Run this once you are happy with the optimized output. The optimized
files are kept; only the .backup copies are removed.

This action cannot be undone: 'webopt restore' will no longer be able
to bring back the originals.

Examples:
  # Purge backups with confirmation prompt
  webopt purge ./public

  # Skip the confirmation
  webopt purge --force`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"dirArg": "true"},
	RunE:        runPurge,
}

func init() {
	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "Skip confirmation prompt")
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	backups, err := restoreService.ListBackups(ctx, appWorkspace.RootPath)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println(ui.FormatInfo("No backups found"))
		return nil
	}

	fmt.Println(ui.FormatWarning(fmt.Sprintf("About to delete %s under:", plural(len(backups), "backup"))))
	fmt.Printf("  %s %s\n", ui.StyleBold.Render("Location:"), appWorkspace.RootPath)
	fmt.Println(ui.FormatMuted("  The originals can no longer be restored afterwards."))
	fmt.Println()

	if !purgeForce && !confirm("Delete all backups? (yes/no): ") {
		fmt.Println(ui.FormatInfo("Purge cancelled."))
		return nil
	}

	resp, err := restoreService.PurgeBackups(ctx, appWorkspace.RootPath)
	if err != nil {
		return err
	}

	for _, f := range resp.Failed {
		fmt.Println(ui.FormatError(appWorkspace.RelPath(f.BackupPath) + ": " + f.Err.Error()))
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Deleted %s", plural(len(resp.Removed), "backup"))))

	if len(resp.Failed) > 0 {
		return fmt.Errorf("%s could not be deleted", plural(len(resp.Failed), "backup"))
	}
	return nil
}

// confirm asks a yes/no question on stdin, requiring the full word
func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(ui.StyleWarning.Render(prompt))

		response, err := reader.ReadString('\n')
		if err != nil {
			return false
		}

		switch strings.ToLower(strings.TrimSpace(response)) {
		case "yes":
			return true
		case "no", "":
			return false
		default:
			fmt.Println(ui.FormatWarning("Please type 'yes' or 'no' (full words required)."))
		}
	}
}
