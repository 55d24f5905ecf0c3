package main

import (
	"github.com/spf13/cobra"

	"github.com/jbweber/crucible/internal/naming"
	"github.com/jbweber/crucible/internal/output"
	"github.com/jbweber/crucible/internal/rbd"
)

var rbdPool string

var rbdCmd = &cobra.Command{
	Use:   "rbd",
	Short: "Manage Ceph RBD images",
	Long: `List and remove Ceph RBD images. The pool, ceph.conf and cephx user
come from libvirt.images_rbd_pool, libvirt.images_rbd_ceph_conf and
libvirt.rbd_user.`,
}

func init() {
	rbdCmd.PersistentFlags().StringVar(&rbdPool, "pool", "", "Override libvirt.images_rbd_pool")

	rbdCmd.AddCommand(rbdListCmd)
	rbdCmd.AddCommand(rbdRemoveCmd)
}

// rbdCredentials returns the configured credentials with flag overrides.
func rbdCredentials() rbd.Credentials {
	creds := cfg.RBDCredentials()
	if rbdPool != "" {
		creds.Pool = rbdPool
	}
	return creds
}

var rbdListCmd = &cobra.Command{
	Use:   "list",
	Short: "List images in the pool",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		creds := rbdCredentials()
		names, err := rbd.NewClient(runner, creds).ListVolumes(cmd.Context())
		if err != nil {
			return err
		}

		volumes := make([]output.Volume, 0, len(names))
		for _, name := range names {
			volumes = append(volumes, output.Volume{Name: name, Path: naming.RBDIdentifier(creds.Pool, name)})
		}

		return printVolumes(cmd, volumes)
	},
}

var rbdRemoveCmd = &cobra.Command{
	Use:   "remove <name>...",
	Short: "Remove images from the pool",
	Long: `Remove each named image with "rbd rm". Every image is attempted even
when an earlier one fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}

		err = rbd.NewClient(runner, rbdCredentials()).RemoveVolumes(cmd.Context(), args)
		printRemoved(cmd, args, err)
		return err
	},
}
