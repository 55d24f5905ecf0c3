package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/crucible/internal/disk"
)

var copyHost string

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Move disk images",
}

func init() {
	imageCopyCmd.Flags().StringVar(&copyHost, "host", "", "Destination host (local copy when empty)")

	imageCmd.AddCommand(imageCopyCmd)
}

var imageCopyCmd = &cobra.Command{
	Use:   "copy <src> <dest>",
	Short: "Copy a disk image, optionally to another host",
	Long: `Copy a disk image.

Without --host the image is copied locally with cp. With --host the image
is sent with rsync (sparse, compressed) after a dry run; if rsync fails a
single scp is attempted.

Example:
  crucible image copy /var/lib/nova/instances/_base/a328c799 /var/lib/nova/instances/_base/a328c799 --host compute-2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		src, dest := args[0], args[1]
		if err := disk.NewCopier(runner).CopyImage(cmd.Context(), src, dest, copyHost); err != nil {
			return err
		}

		target := dest
		if copyHost != "" {
			target = copyHost + ":" + dest
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Copied %s to %s\n", src, target)
		return nil
	},
}
