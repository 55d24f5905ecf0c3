package libvirt

import (
	"context"
	"fmt"

	"github.com/digitalocean/go-libvirt"
	"github.com/google/uuid"
	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/crucible/internal/disk"
)

// imagesTypeRBD is the images_type whose disks are network sources.
const imagesTypeRBD = "rbd"

// DomainLookup is the subset of the libvirt API used to read a domain's
// definition.
//
// In production, this is satisfied by *libvirt.Libvirt.
// In tests, this is satisfied by a mock.
type DomainLookup interface {
	DomainLookupByName(Name string) (libvirt.Domain, error)
	DomainLookupByUUID(UUID libvirt.UUID) (libvirt.Domain, error)
	DomainGetXMLDesc(Dom libvirt.Domain, Flags libvirt.DomainXMLFlags) (string, error)
}

// FindRootDisk returns the path of the first disk with a source in
// domainXML. For images_type rbd the first network source is returned as
// "rbd:<name>". Finding no disk is a disk.ErrNotFound error.
func FindRootDisk(domainXML, imagesType string) (string, error) {
	var domain libvirtxml.Domain
	if err := domain.Unmarshal(domainXML); err != nil {
		return "", fmt.Errorf("failed to parse domain XML: %w", err)
	}
	if domain.Devices == nil {
		return "", fmt.Errorf("%w: domain %s has no devices", disk.ErrNotFound, domain.Name)
	}

	for _, d := range domain.Devices.Disks {
		if d.Source == nil {
			continue
		}
		if imagesType == imagesTypeRBD {
			if d.Source.Network != nil && d.Source.Network.Name != "" {
				return "rbd:" + d.Source.Network.Name, nil
			}
			continue
		}
		if d.Source.File != nil && d.Source.File.File != "" {
			return d.Source.File.File, nil
		}
		if d.Source.Block != nil && d.Source.Block.Dev != "" {
			return d.Source.Block.Dev, nil
		}
	}

	return "", fmt.Errorf("%w: no root disk in domain %s", disk.ErrNotFound, domain.Name)
}

// DiskLocator finds the root disk of defined domains.
type DiskLocator struct {
	client     DomainLookup
	imagesType string
}

// NewDiskLocator creates a DiskLocator that reads domains through client.
func NewDiskLocator(client DomainLookup, imagesType string) *DiskLocator {
	return &DiskLocator{client: client, imagesType: imagesType}
}

// FindDisk returns the root disk path of the domain named by instance,
// which may be a domain name or an instance UUID.
func (l *DiskLocator) FindDisk(ctx context.Context, instance string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dom, err := l.lookup(instance)
	if err != nil {
		return "", fmt.Errorf("failed to look up domain %s: %w", instance, err)
	}

	xml, err := l.client.DomainGetXMLDesc(dom, 0)
	if err != nil {
		return "", fmt.Errorf("failed to get XML for domain %s: %w", dom.Name, err)
	}

	return FindRootDisk(xml, l.imagesType)
}

func (l *DiskLocator) lookup(instance string) (libvirt.Domain, error) {
	if id, err := uuid.Parse(instance); err == nil {
		return l.client.DomainLookupByUUID(libvirt.UUID(id))
	}
	return l.client.DomainLookupByName(instance)
}
