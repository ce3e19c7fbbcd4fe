package hostif

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jbweber/hostnet/internal/config"
	"github.com/jbweber/hostnet/internal/netif"
)

// Define defines an interface from a raw libvirt XML file without starting it.
// It returns the name libvirt assigned.
func Define(ctx context.Context, cfg *config.Config, xmlPath string) (string, error) {
	data, err := os.ReadFile(xmlPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", xmlPath, err)
	}

	var name string
	err = WithConnection(ctx, cfg, func(conn netif.Connection) error {
		var err error
		name, err = defineWithDeps(ctx, conn, string(data))
		return err
	})
	return name, err
}

// Start activates a defined interface. Like Stop, Undefine and DumpXML it
// accepts a device name, MAC address or UUID.
func Start(ctx context.Context, cfg *config.Config, name string) error {
	return WithConnection(ctx, cfg, func(conn netif.Connection) error {
		return startWithDeps(ctx, conn, name)
	})
}

// Stop deactivates a running interface. The definition is kept.
func Stop(ctx context.Context, cfg *config.Config, name string) error {
	return WithConnection(ctx, cfg, func(conn netif.Connection) error {
		return stopWithDeps(ctx, conn, name)
	})
}

// Undefine removes the persistent definition. A running interface keeps
// running until it is stopped.
func Undefine(ctx context.Context, cfg *config.Config, name string) error {
	return WithConnection(ctx, cfg, func(conn netif.Connection) error {
		return undefineWithDeps(ctx, conn, name)
	})
}

// DumpXML returns the live description of an interface, or the persistent
// definition when inactive is true.
func DumpXML(ctx context.Context, cfg *config.Config, name string, inactive bool) (string, error) {
	var xml string
	err := WithConnection(ctx, cfg, func(conn netif.Connection) error {
		var err error
		xml, err = dumpXMLWithDeps(ctx, conn, name, inactive)
		return err
	})
	return xml, err
}

func defineWithDeps(_ context.Context, conn netif.Connection, xml string) (string, error) {
	iface, err := netif.DefineXML(conn, xml, 0)
	if err != nil {
		return "", fmt.Errorf("failed to define interface: %w", err)
	}
	defer freeHandle(iface)

	name, err := iface.GetName()
	if err != nil {
		return "", fmt.Errorf("failed to get interface name: %w", err)
	}
	log.Printf("Interface '%s' defined", name)
	return name, nil
}

func startWithDeps(_ context.Context, conn netif.Connection, name string) error {
	return withInterface(conn, name, func(iface *netif.Interface) error {
		if err := iface.Create(0); err != nil {
			return fmt.Errorf("failed to start interface '%s': %w", name, err)
		}
		log.Printf("Interface '%s' started", name)
		return nil
	})
}

func stopWithDeps(_ context.Context, conn netif.Connection, name string) error {
	return withInterface(conn, name, func(iface *netif.Interface) error {
		if err := iface.Destroy(); err != nil {
			return fmt.Errorf("failed to stop interface '%s': %w", name, err)
		}
		log.Printf("Interface '%s' stopped", name)
		return nil
	})
}

func undefineWithDeps(_ context.Context, conn netif.Connection, name string) error {
	return withInterface(conn, name, func(iface *netif.Interface) error {
		if err := iface.Undefine(); err != nil {
			return fmt.Errorf("failed to undefine interface '%s': %w", name, err)
		}
		log.Printf("Interface '%s' undefined", name)
		return nil
	})
}

func dumpXMLWithDeps(_ context.Context, conn netif.Connection, name string, inactive bool) (string, error) {
	var flags netif.XMLFlags
	if inactive {
		flags = netif.XMLInactive
	}

	var xml string
	err := withInterface(conn, name, func(iface *netif.Interface) error {
		var err error
		xml, err = iface.GetXMLDesc(flags)
		if err != nil {
			return fmt.Errorf("failed to get XML for interface '%s': %w", name, err)
		}
		return nil
	})
	return xml, err
}

// withInterface looks up name, runs fn and releases the handle.
// name may also be a UUID or MAC address.
func withInterface(conn netif.Connection, name string, fn func(iface *netif.Interface) error) error {
	iface, err := lookup(conn, name)
	if err != nil {
		return fmt.Errorf("failed to look up interface '%s': %w", name, err)
	}
	defer freeHandle(iface)

	return fn(iface)
}
