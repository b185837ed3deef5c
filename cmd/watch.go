package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/webopt/internal/core/services"
	"github.com/kamal-hamza/webopt/pkg/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Optimize assets as they are saved",
	Long: `Watch a directory tree and optimize assets whenever they are created
or saved, after writes have settled for watch_debounce_ms (default 500).

Backups work the same as in 'webopt optimize': the first version of a
file the watcher sees is the one kept in its backup.

Press Ctrl+C to stop.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"dirArg": "true"},
	RunE:        runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&kindsFlag, "kinds", "k", "", "Comma separated kinds to process (css,js,html,image)")
	watchCmd.Flags().BoolVar(&forceImagesFlag, "force-images", false, "Recompress images even if already recompressed")
	watchCmd.Flags().StringVar(&precompressFlag, "precompress", "", "Write precompressed siblings (gzip,brotli,zstd)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	kinds, err := parseKinds(appConfig.Kinds)
	if err != nil {
		return err
	}

	req := services.WatchRequest{
		Root:        appWorkspace.RootPath,
		Kinds:       kinds,
		DryRun:      appConfig.DryRun,
		ForceImages: appConfig.ForceImages,
		OnResult:    printResult,
		Ready: func() {
			fmt.Println(ui.FormatRocket("Watching " + appWorkspace.RootPath))
			fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
			fmt.Println()
		},
	}

	if err := watchService.Watch(ctx, req); err != nil {
		return fmt.Errorf("watcher stopped: %w", err)
	}

	fmt.Println()
	fmt.Println(ui.FormatMuted("Watcher stopped"))
	return nil
}
