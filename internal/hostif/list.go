package hostif

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/jbweber/hostnet/api/v1alpha1"
	"github.com/jbweber/hostnet/internal/config"
	hnlibvirt "github.com/jbweber/hostnet/internal/libvirt"
	"github.com/jbweber/hostnet/internal/netif"
	"github.com/jbweber/hostnet/internal/status"
)

// List returns every interface libvirt knows about matching flags,
// sorted by name.
func List(ctx context.Context, cfg *config.Config, flags netif.ListFlags) ([]*v1alpha1.HostInterface, error) {
	var his []*v1alpha1.HostInterface
	err := WithConnection(ctx, cfg, func(conn netif.Connection) error {
		var err error
		his, err = listWithDeps(ctx, conn, flags)
		return err
	})
	return his, err
}

// Get returns a single interface by device name, MAC address or UUID.
func Get(ctx context.Context, cfg *config.Config, name string) (*v1alpha1.HostInterface, error) {
	var hi *v1alpha1.HostInterface
	err := WithConnection(ctx, cfg, func(conn netif.Connection) error {
		var err error
		hi, err = getWithDeps(ctx, conn, name)
		return err
	})
	return hi, err
}

// listWithDeps lists interfaces with injected dependencies.
// Interfaces that cannot be described are logged and skipped.
func listWithDeps(_ context.Context, conn netif.Connection, flags netif.ListFlags) ([]*v1alpha1.HostInterface, error) {
	ifaces, err := netif.ListAll(conn, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	his := make([]*v1alpha1.HostInterface, 0, len(ifaces))
	for _, iface := range ifaces {
		hi, err := describe(iface)
		freeHandle(iface)
		if err != nil {
			log.Printf("Warning: %v", err)
			continue
		}
		his = append(his, hi)
	}

	sort.Slice(his, func(i, j int) bool { return his[i].Name < his[j].Name })
	return his, nil
}

// getWithDeps describes one interface with injected dependencies.
func getWithDeps(_ context.Context, conn netif.Connection, name string) (*v1alpha1.HostInterface, error) {
	iface, err := lookup(conn, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up interface '%s': %w", name, err)
	}
	defer freeHandle(iface)

	return describe(iface)
}

// describe reads an interface back from libvirt as a resource.
func describe(iface *netif.Interface) (*v1alpha1.HostInterface, error) {
	name, err := iface.GetName()
	if err != nil {
		return nil, fmt.Errorf("failed to get interface name: %w", err)
	}

	xml, err := iface.GetXMLDesc(netif.XMLInactive)
	if err != nil {
		// Transient interfaces have no persistent definition
		xml, err = iface.GetXMLDesc(0)
		if err != nil {
			return nil, fmt.Errorf("failed to get XML for interface '%s': %w", name, err)
		}
	}

	parsed, err := hnlibvirt.ParseInterfaceXML(xml)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML for interface '%s': %w", name, err)
	}

	active, err := iface.IsActive()
	if err != nil {
		return nil, fmt.Errorf("failed to get state of interface '%s': %w", name, err)
	}

	hi := &v1alpha1.HostInterface{
		TypeMeta: v1alpha1.TypeMeta{
			APIVersion: v1alpha1.APIVersion(),
			Kind:       v1alpha1.HostInterfaceKind,
		},
		ObjectMeta: v1alpha1.ObjectMeta{Name: name},
		Spec:       hnlibvirt.SpecFromInterface(parsed),
	}
	status.Observe(hi, active)
	recordIdentity(hi, iface)

	return hi, nil
}
