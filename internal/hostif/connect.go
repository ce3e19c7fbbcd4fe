package hostif

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jbweber/hostnet/internal/config"
	hnlibvirt "github.com/jbweber/hostnet/internal/libvirt"
	"github.com/jbweber/hostnet/internal/naming"
	"github.com/jbweber/hostnet/internal/netif"
)

// Dial opens the daemon connection described by cfg. A nil cfg means the
// local daemon with default settings. The caller must Close the client.
func Dial(ctx context.Context, cfg *config.Config) (*hnlibvirt.Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if opts, ok := cfg.SSHOptions(); ok {
		log.Printf("Connecting to libvirt on %s over ssh...", opts.Target)
		return hnlibvirt.ConnectSSHWithContext(ctx, opts)
	}

	log.Printf("Connecting to libvirt...")
	return hnlibvirt.ConnectWithContext(ctx, cfg.Socket, cfg.Timeout)
}

// WithConnection runs fn against a fresh daemon connection and closes it afterwards.
func WithConnection(ctx context.Context, cfg *config.Config, fn func(conn netif.Connection) error) error {
	client, err := Dial(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to libvirt: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Printf("Warning: failed to close libvirt connection: %v", err)
		}
	}()

	return fn(client.Libvirt())
}

// lookup resolves ref as a device name, a MAC address or a UUID.
// Anything that fits in a device name is looked up by name, so MACs must use
// the colon or dash notation and UUIDs the canonical one.
func lookup(conn netif.Connection, ref string) (*netif.Interface, error) {
	if len(ref) <= naming.MaxInterfaceNameLength {
		return netif.LookupByName(conn, ref)
	}
	if _, err := uuid.Parse(ref); err == nil {
		return netif.LookupByUUIDString(conn, ref)
	}
	if mac, err := naming.NormalizeMAC(ref); err == nil {
		return netif.LookupByMACString(conn, mac)
	}
	return netif.LookupByName(conn, ref)
}

// freeHandle releases iface, logging instead of failing.
func freeHandle(iface *netif.Interface) {
	if iface == nil {
		return
	}
	if err := iface.Free(); err != nil {
		log.Printf("Warning: failed to release interface handle: %v", err)
	}
}
