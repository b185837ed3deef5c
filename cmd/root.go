package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/webopt/internal/adapters/imaging"
	"github.com/kamal-hamza/webopt/internal/adapters/minifier"
	"github.com/kamal-hamza/webopt/internal/adapters/precompress"
	"github.com/kamal-hamza/webopt/internal/adapters/repository"
	"github.com/kamal-hamza/webopt/internal/adapters/transformer"
	"github.com/kamal-hamza/webopt/internal/core/ports"
	"github.com/kamal-hamza/webopt/internal/core/services"
	"github.com/kamal-hamza/webopt/pkg/config"
	"github.com/kamal-hamza/webopt/pkg/logging"
	"github.com/kamal-hamza/webopt/pkg/ui"
	"github.com/kamal-hamza/webopt/pkg/workspace"
)

var (
	// Global flags
	debugFlag  bool
	configFlag string

	// Global instances
	appWorkspace *workspace.Workspace
	appConfig    *config.Config
	appLogger    *zap.SugaredLogger

	// Services
	pipelineService *services.PipelineService
	advisoryService *services.AdvisoryService
	optimizeService *services.OptimizeService
	restoreService  *services.RestoreService
	watchService    *services.WatchService

	// Repositories
	assetRepo *repository.FileRepository
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "webopt",
	Short: "webopt - batch optimizer for static web assets",
	Long: ui.StyleTitle.Render("webopt") + " - Static Web Asset Optimizer\n\n" +
		"Minifies CSS, JavaScript and HTML and recompresses images in place,\n" +
		"keeping a backup of every file it touches and flagging common\n" +
		"front-end performance problems along the way.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (default: <dir>/"+workspace.ConfigFileName+")")
}

// initializeApp resolves the target directory, loads configuration and
// wires the services for the command about to run
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for commands that touch no files
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	cfgPath := configFlag
	if cfgPath == "" {
		cfgPath = filepath.Join(targetDir(cmd, args), workspace.ConfigFileName)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}
	appConfig = cfg

	ui.SetTheme(cfg.ColorTheme)

	logger, err := logging.InitLogger(cfg.LogLevel, debugFlag)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger = logger

	ws, err := workspace.New(targetDir(cmd, args), cfg.BackupSuffix)
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	ws.ConfigPath = cfgPath
	appWorkspace = ws

	if !appWorkspace.Exists() {
		fmt.Println(ui.FormatError("Directory not found: " + appWorkspace.RootPath))
		os.Exit(1)
	}

	return wireServices()
}

// wireServices builds the adapters and services from the loaded config
func wireServices() error {
	repo, err := repository.NewFileRepository(appWorkspace, appConfig.Exclude, appLogger)
	if err != nil {
		return err
	}
	assetRepo = repo

	registry := transformer.NewRegistry(
		minifier.New(),
		imaging.NewEncoder(appConfig.Quality),
	)

	var compressor ports.Precompressor
	if len(appConfig.Precompress) > 0 {
		c, err := precompress.New(appConfig.Precompress)
		if err != nil {
			return err
		}
		compressor = c
	}

	pipelineService = services.NewPipelineService(assetRepo, registry, services.NewBackupService(appWorkspace), compressor, appLogger)
	advisoryService = services.NewAdvisoryService(assetRepo, appConfig.StylesheetThreshold, appLogger)
	optimizeService = services.NewOptimizeService(pipelineService, advisoryService, appLogger)
	restoreService = services.NewRestoreService(appWorkspace, assetRepo, appLogger)
	watchService = services.NewWatchService(appWorkspace, assetRepo, pipelineService,
		time.Duration(appConfig.WatchDebounceMS)*time.Millisecond, appLogger)

	return nil
}

// targetDir returns the directory argument for commands that take one,
// otherwise the current directory
func targetDir(cmd *cobra.Command, args []string) string {
	if cmd.Annotations["dirArg"] == "true" && len(args) > 0 {
		return args[0]
	}
	return "."
}

// applyFlagOverrides lets explicitly set command flags win over the config
// file and environment
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if f := flags.Lookup("quality"); f != nil && f.Changed {
		cfg.Quality = qualityFlag
	}
	if f := flags.Lookup("kinds"); f != nil && f.Changed {
		cfg.Kinds = config.SplitList(kindsFlag)
	}
	if f := flags.Lookup("dry-run"); f != nil && f.Changed {
		cfg.DryRun = dryRunFlag
	}
	if f := flags.Lookup("force-images"); f != nil && f.Changed {
		cfg.ForceImages = forceImagesFlag
	}
	if f := flags.Lookup("precompress"); f != nil && f.Changed {
		cfg.Precompress = config.SplitList(precompressFlag)
	}
	if f := flags.Lookup("no-advisories"); f != nil && f.Changed {
		cfg.Advisories = !noAdvisoriesFlag
	}

	return cfg.Validate()
}

// getContext returns a context cancelled on Ctrl+C
func getContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
