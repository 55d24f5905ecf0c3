package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbweber/crucible/internal/config"
	"github.com/jbweber/crucible/internal/libvirt"
	"github.com/jbweber/crucible/internal/lvm"
	"github.com/jbweber/crucible/internal/naming"
	"github.com/jbweber/crucible/internal/process"
	"github.com/jbweber/crucible/internal/rbd"
)

var instanceCmd = &cobra.Command{
	Use:   "instance",
	Short: "Work with the disks of libvirt instances",
}

func init() {
	instanceCmd.AddCommand(instanceDiskCmd)
	instanceCmd.AddCommand(instanceCleanupCmd)
}

var instanceDiskCmd = &cobra.Command{
	Use:   "disk <name-or-uuid>",
	Short: "Print the root disk of a defined domain",
	Long: `Look up a domain by name or UUID and print the source of its first
disk. With images_type rbd the first network disk is printed as rbd:<name>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := libvirt.ConnectWithContext(cmd.Context(), cfg.LibvirtSocket, 0)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", closeErr)
			}
		}()

		locator := libvirt.NewDiskLocator(client.Libvirt(), cfg.Libvirt.ImagesType)
		path, err := locator.FindDisk(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var instanceCleanupCmd = &cobra.Command{
	Use:   "cleanup <uuid>",
	Short: "Remove every volume belonging to an instance",
	Long: `Remove the logical volumes or RBD images named "<uuid>_*".

With images_type lvm the volumes in images_volume_group are erased and
removed; with images_type rbd the images in images_rbd_pool are removed.

Example:
  crucible instance cleanup 9b0c2d4e-1f3a-4b5c-8d7e-6f1a2b3c4d5e`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instanceUUID, err := naming.ParseInstanceUUID(args[0])
		if err != nil {
			return err
		}

		runner, err := newRunner()
		if err != nil {
			return err
		}

		volumes, err := cleanupInstance(cmd.Context(), cfg, runner, instanceUUID)
		printRemoved(cmd, volumes, err)
		if err == nil && len(volumes) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No volumes found for instance %s\n", instanceUUID)
		}
		return err
	},
}

// cleanupInstance removes the volumes of an instance from the configured
// image backend and returns the volumes it attempted.
func cleanupInstance(ctx context.Context, c *config.Config, runner process.Runner, instanceUUID string) ([]string, error) {
	switch c.Libvirt.ImagesType {
	case config.ImagesTypeLVM:
		mgr := lvm.NewManager(runner)
		vg := c.Libvirt.ImagesVolumeGroup

		names, err := mgr.ListLogicalVolumes(ctx, vg)
		if err != nil {
			return nil, err
		}

		var paths []string
		for _, name := range naming.FilterInstanceVolumes(names, instanceUUID) {
			logVolume(name, instanceUUID)
			paths = append(paths, naming.LogicalVolumePath(vg, name))
		}
		slog.Info("Removing instance logical volumes.", "instance", instanceUUID, "count", len(paths))

		return paths, mgr.RemoveLogicalVolumes(ctx, paths, c.EraseOptions())

	case config.ImagesTypeRBD:
		client := rbd.NewClient(runner, c.RBDCredentials())

		names, err := client.ListVolumes(ctx)
		if err != nil {
			return nil, err
		}

		matched := naming.FilterInstanceVolumes(names, instanceUUID)
		for _, name := range matched {
			logVolume(name, instanceUUID)
		}
		slog.Info("Removing instance rbd images.", "instance", instanceUUID, "count", len(matched))

		return matched, client.RemoveVolumes(ctx, matched)

	default:
		return nil, fmt.Errorf("instance cleanup needs images_type %s or %s, got %s",
			config.ImagesTypeLVM, config.ImagesTypeRBD, c.Libvirt.ImagesType)
	}
}

// logVolume records which of the instance's disks a volume holds.
func logVolume(name, instanceUUID string) {
	role, ok := naming.VolumeSuffix(name, instanceUUID)
	if !ok {
		role = "other"
	}
	slog.Debug("Selected instance volume.", "volume", name, "role", role)
}

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Test libvirt connection",
	Long:  `Test connectivity to the libvirt daemon and display version information.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		client, err := libvirt.ConnectWithContext(cmd.Context(), cfg.LibvirtSocket, 0)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", closeErr)
			}
		}()

		fmt.Fprintf(out, "✓ Connected to libvirt daemon at %s\n", cfg.LibvirtSocket)

		version, err := client.Ping()
		if err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}
		fmt.Fprintf(out, "✓ Libvirt version: %s\n", version)

		hostname, err := client.Libvirt().ConnectGetHostname()
		if err != nil {
			return fmt.Errorf("failed to get hostname: %w", err)
		}
		fmt.Fprintf(out, "✓ Hypervisor hostname: %s\n", hostname)

		return nil
	},
}
