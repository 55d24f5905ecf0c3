// Package libvirt provides a client wrapper for interacting with libvirt
// and helpers for reading instance disks from domain definitions.
//
// This package wraps github.com/digitalocean/go-libvirt to provide:
//   - Connection management (connect, disconnect, ping)
//   - Root disk lookup from domain XML (FindRootDisk, DiskLocator)
//
// Connection Management:
//
// The package establishes connections to the local libvirt daemon via Unix socket:
//
//	client, err := libvirt.Connect("", 0)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	version, err := client.Ping()
//
// Root Disk Lookup:
//
// DiskLocator resolves a domain by name or UUID and returns the path of its
// first disk, or an "rbd:<name>" identifier when images are stored in Ceph:
//
//	locator := libvirt.NewDiskLocator(client.Libvirt(), "lvm")
//	path, err := locator.FindDisk(ctx, "9b0c2d4e-1f3a-4b5c-8d7e-6f1a2b3c4d5e")
//
// Consumer-Side Interfaces:
//
// DomainLookup lists only the libvirt calls DiskLocator needs. The
// *libvirt.Libvirt type satisfies it implicitly; tests use a mock.
package libvirt
