package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jbweber/crucible/internal/disk"
	"github.com/jbweber/crucible/internal/lvm"
	"github.com/jbweber/crucible/internal/naming"
	"github.com/jbweber/crucible/internal/output"
)

var (
	clearMethod  string
	clearSizeMiB uint64
	listSizes    bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Manage LVM logical volumes",
	Long: `Erase, remove, list and size LVM logical volumes backing instance disks.

Erasing follows the libvirt.volume_clear policy: zero (dd from /dev/zero),
shred (three shred passes) or none. libvirt.volume_clear_size limits the
erase to the first N MiB of the volume.`,
}

func init() {
	volumeClearCmd.Flags().StringVar(&clearMethod, "method", "", "Override volume_clear (zero, shred, none)")
	volumeClearCmd.Flags().Uint64Var(&clearSizeMiB, "clear-size", 0, "Override volume_clear_size in MiB (0 clears everything)")
	volumeRemoveCmd.Flags().StringVar(&clearMethod, "method", "", "Override volume_clear (zero, shred, none)")
	volumeRemoveCmd.Flags().Uint64Var(&clearSizeMiB, "clear-size", 0, "Override volume_clear_size in MiB (0 clears everything)")
	volumeListCmd.Flags().BoolVar(&listSizes, "sizes", false, "Look up the size of each volume")

	volumeCmd.AddCommand(volumeClearCmd)
	volumeCmd.AddCommand(volumeRemoveCmd)
	volumeCmd.AddCommand(volumeListCmd)
	volumeCmd.AddCommand(volumeSizeCmd)
}

// eraseOptions returns the configured erase policy with flag overrides.
func eraseOptions(cmd *cobra.Command) lvm.EraseOptions {
	opts := cfg.EraseOptions()
	if cmd.Flags().Changed("method") {
		opts.Method = lvm.EraseMethod(clearMethod)
	}
	if cmd.Flags().Changed("clear-size") {
		opts.MaxBytes = clearSizeMiB * 1024 * 1024
	}
	return opts
}

var volumeClearCmd = &cobra.Command{
	Use:   "clear <path>",
	Short: "Erase a logical volume",
	Long: `Erase a logical volume in place without removing it.

Example:
  crucible volume clear /dev/nova-vg/9b0c2d4e-1f3a-4b5c-8d7e-6f1a2b3c4d5e_disk --method shred`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		opts := eraseOptions(cmd)
		if err := lvm.NewEraser(runner).ClearVolume(cmd.Context(), args[0], opts); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %s (%s)\n", args[0], opts.Method)
		return nil
	},
}

var volumeRemoveCmd = &cobra.Command{
	Use:   "remove <path>...",
	Short: "Erase and remove logical volumes",
	Long: `Erase and then remove each logical volume with lvremove.

Every volume is attempted even when an earlier one fails. Volumes whose
erase fails are not removed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		err = lvm.NewManager(runner).RemoveLogicalVolumes(cmd.Context(), args, eraseOptions(cmd))
		printRemoved(cmd, args, err)
		return err
	},
}

var volumeListCmd = &cobra.Command{
	Use:   "list [volume-group]",
	Short: "List logical volumes in a volume group",
	Long: `List the logical volumes in a volume group. Defaults to
libvirt.images_volume_group.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vg := cfg.Libvirt.ImagesVolumeGroup
		if len(args) == 1 {
			vg = args[0]
		}
		if vg == "" {
			return fmt.Errorf("no volume group given and libvirt.images_volume_group is not set")
		}

		runner, err := newRunner()
		if err != nil {
			return err
		}
		mgr := lvm.NewManager(runner)

		names, err := mgr.ListLogicalVolumes(cmd.Context(), vg)
		if err != nil {
			return err
		}

		volumes := make([]output.Volume, 0, len(names))
		for _, name := range names {
			v := output.Volume{Name: name, Path: naming.LogicalVolumePath(vg, name)}
			if listSizes {
				if v.Size, err = mgr.VolumeSize(cmd.Context(), v.Path); err != nil {
					return err
				}
			}
			volumes = append(volumes, v)
		}

		return printVolumes(cmd, volumes)
	},
}

var volumeSizeCmd = &cobra.Command{
	Use:   "size <path>",
	Short: "Print the size of a logical volume in bytes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		size, err := lvm.NewManager(runner).VolumeSize(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), size)
		return nil
	},
}

// printVolumes writes volumes with the selected formatter.
func printVolumes(cmd *cobra.Command, volumes []output.Volume) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	result, err := formatter.FormatVolumes(volumes)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), result)
	return nil
}

// printRemoved reports which of names were removed given the batch result.
func printRemoved(cmd *cobra.Command, names []string, err error) {
	var failed []string
	var notRemoved *disk.VolumesNotRemovedError
	if errors.As(err, &notRemoved) {
		failed = notRemoved.Volumes
	}

	for _, name := range names {
		if !slices.Contains(failed, name) {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", name)
		}
	}
}
