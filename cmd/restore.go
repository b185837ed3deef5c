package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/webopt/pkg/ui"
)

var (
	restoreAll bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore [file]",
	Short: "Restore files from their backups",
	Long: `Move a backup back over the file it was taken from.

The file may be given either by its own path or by its backup path.
With --all, every backup under the current directory is restored.
With neither, pick a backup interactively.

Stale precompressed siblings (.gz, .br, .zst) of restored files are removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().BoolVarP(&restoreAll, "all", "a", false, "Restore every backup under the current directory")
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	if restoreAll {
		resp, err := restoreService.RestoreAll(ctx, appWorkspace.RootPath)
		if err != nil {
			return err
		}
		for _, r := range resp.Restored {
			fmt.Println(ui.FormatSuccess("Restored " + appWorkspace.RelPath(r.Path)))
		}
		for _, f := range resp.Failed {
			fmt.Println(ui.FormatError(appWorkspace.RelPath(f.BackupPath) + ": " + f.Err.Error()))
		}
		if len(resp.Restored) == 0 && len(resp.Failed) == 0 {
			fmt.Println(ui.FormatInfo("No backups found"))
		}
		if len(resp.Failed) > 0 {
			return fmt.Errorf("%s could not be restored", plural(len(resp.Failed), "file"))
		}
		return nil
	}

	var target string
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		target = abs
	} else {
		backups, err := restoreService.ListBackups(ctx, appWorkspace.RootPath)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println(ui.FormatInfo("No backups found"))
			return nil
		}

		idx, err := fuzzyfinder.Find(
			backups,
			func(i int) string {
				return appWorkspace.RelPath(appWorkspace.OriginalPath(backups[i]))
			},
			fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
				if i == -1 {
					return ""
				}
				return backupPreview(backups[i])
			}),
		)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil
			}
			return err
		}
		target = backups[idx]
	}

	result, err := restoreService.Restore(ctx, target)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess("Restored " + appWorkspace.RelPath(result.Path)))
	for _, removed := range result.Removed {
		fmt.Println(ui.FormatMuted("  removed " + appWorkspace.RelPath(removed)))
	}
	return nil
}

// backupPreview shows the current and backed-up sizes of a file
func backupPreview(backup string) string {
	original := appWorkspace.OriginalPath(backup)
	preview := fmt.Sprintf("File: %s\n", appWorkspace.RelPath(original))

	if info, err := os.Stat(backup); err == nil {
		preview += fmt.Sprintf("Backup:  %s (%s)\n", ui.FormatBytes(info.Size()), info.ModTime().Format("2006-01-02 15:04"))
	}
	if info, err := os.Stat(original); err == nil {
		preview += fmt.Sprintf("Current: %s (%s)\n", ui.FormatBytes(info.Size()), info.ModTime().Format("2006-01-02 15:04"))
	} else {
		preview += "Current: missing\n"
	}
	return preview
}
