package libvirt

import (
	"fmt"

	"github.com/digitalocean/go-libvirt"
	"github.com/google/uuid"
)

// mockDomainLookup is a mock implementation of DomainLookup for testing.
type mockDomainLookup struct {
	domains map[string]mockDomain // name -> domain

	byUUIDCalls int
	byNameCalls int
}

type mockDomain struct {
	uuid string
	xml  string
}

func newMockDomainLookup() *mockDomainLookup {
	return &mockDomainLookup{domains: make(map[string]mockDomain)}
}

func (m *mockDomainLookup) addDomain(name, id, xml string) {
	m.domains[name] = mockDomain{uuid: id, xml: xml}
}

func (m *mockDomainLookup) DomainLookupByName(name string) (libvirt.Domain, error) {
	m.byNameCalls++
	d, ok := m.domains[name]
	if !ok {
		return libvirt.Domain{}, fmt.Errorf("Domain not found: no domain with matching name '%s'", name)
	}
	return libvirt.Domain{Name: name, UUID: libvirt.UUID(uuid.MustParse(d.uuid))}, nil
}

func (m *mockDomainLookup) DomainLookupByUUID(id libvirt.UUID) (libvirt.Domain, error) {
	m.byUUIDCalls++
	want := uuid.UUID(id).String()
	for name, d := range m.domains {
		if d.uuid == want {
			return libvirt.Domain{Name: name, UUID: id}, nil
		}
	}
	return libvirt.Domain{}, fmt.Errorf("Domain not found: no domain with matching uuid '%s'", want)
}

func (m *mockDomainLookup) DomainGetXMLDesc(dom libvirt.Domain, _ libvirt.DomainXMLFlags) (string, error) {
	d, ok := m.domains[dom.Name]
	if !ok {
		return "", fmt.Errorf("Domain not found: %s", dom.Name)
	}
	return d.xml, nil
}
