package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/crucible/internal/disk"
)

var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Inspect disk images",
	Long: `Inspect disk images and classify disk paths.

Paths may be image files, logical volumes under /dev, or Ceph images
written as rbd:<pool>/<name>.`,
}

func init() {
	diskCmd.AddCommand(diskInfoCmd)
	diskCmd.AddCommand(diskTypeCmd)
	diskCmd.AddCommand(diskSizeCmd)
	diskCmd.AddCommand(diskBackingCmd)
}

var diskInfoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "Show the qemu-img report for a disk",
	Long: `Run qemu-img info on a disk and display the parsed report.

Output formats:
  -o table  Human-readable summary (default)
  -o yaml   Full report as YAML
  -o json   Full report as JSON`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		info, err := disk.NewInspector(runner).Info(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		formatter, err := newFormatter()
		if err != nil {
			return err
		}

		result, err := formatter.FormatDiskInfo(info)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), result)
		return nil
	},
}

var diskTypeCmd = &cobra.Command{
	Use:   "type <path>",
	Short: "Print the storage backend of a disk",
	Long: `Print the storage backend a disk path belongs to: lvm for device
paths, rbd for rbd: identifiers, and otherwise the image format reported by
qemu-img (raw, qcow2, ...).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		kind, err := disk.NewClassifier(disk.NewInspector(runner)).Classify(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), kind)
		return nil
	},
}

var diskSizeCmd = &cobra.Command{
	Use:   "size <path>",
	Short: "Print the virtual size of a disk image in bytes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		size, err := disk.NewInspector(runner).VirtualSize(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), size)
		return nil
	},
}

var diskBackingCmd = &cobra.Command{
	Use:   "backing <path>",
	Short: "Print the base name of a disk's backing file",
	Long: `Print the base name of a disk image's backing file. Nothing is printed
for images without one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		backing, err := disk.NewInspector(runner).BackingFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if backing != "" {
			fmt.Fprintln(cmd.OutOrStdout(), backing)
		}
		return nil
	},
}
