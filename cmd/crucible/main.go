package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/jbweber/crucible/internal/config"
	"github.com/jbweber/crucible/internal/output"
	"github.com/jbweber/crucible/internal/process"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Flags shared by every command.
var (
	configPath   string
	envFiles     []string
	debug        bool
	outputFormat string
	noHeaders    bool
)

// cfg is loaded once per invocation before any command runs.
var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crucible",
	Short: "Crucible - instance disk lifecycle tool for libvirt hosts",
	Long: `Crucible inspects, classifies, erases, removes and copies the disk
images and volumes that back libvirt instances.

Disk images are inspected with qemu-img, logical volumes are managed with
LVM tools, Ceph images with rbd, and images are copied between hosts with
rsync or scp.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(debug)

		if err := output.ValidateFormat(outputFormat); err != nil {
			return err
		}

		loaded, err := config.Load(configPath, envFiles...)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		slog.Debug("Configuration loaded.",
			"images_type", cfg.Libvirt.ImagesType,
			"volume_clear", cfg.Libvirt.VolumeClear,
			"root_helper", cfg.Exec.RootHelper,
		)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Env files with CRUCIBLE_* overrides")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(output.FormatTable), "Output format (table, yaml, json)")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false, "Omit table headers")

	rootCmd.AddCommand(diskCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(rbdCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(instanceCmd)
	rootCmd.AddCommand(testConnCmd)
}

// setupLogging installs a tint handler on stderr so stdout carries only
// command output.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

// newRunner builds the process runner described by the exec config.
func newRunner() (*process.ExecRunner, error) {
	runner, err := process.NewExecRunner(cfg.Exec.RootHelper, cfg.Exec.Timeout, cfg.Exec.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to create process runner: %w", err)
	}
	return runner, nil
}

// newFormatter builds the formatter selected by --output.
func newFormatter() (output.Formatter, error) {
	return output.NewFormatter(output.Options{
		Format:    output.Format(outputFormat),
		NoHeaders: noHeaders,
	})
}
