package hostif

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jbweber/hostnet/internal/config"
	"github.com/jbweber/hostnet/internal/loader"
	"github.com/jbweber/hostnet/internal/netif"
)

// Remove stops an interface if it is running and removes its definition.
//
// Returns an error if the interface doesn't exist or if libvirt refuses
// either step.
func Remove(ctx context.Context, cfg *config.Config, name string) error {
	return WithConnection(ctx, cfg, func(conn netif.Connection) error {
		return removeWithDeps(ctx, conn, name)
	})
}

// RemoveFile removes every interface named in the resource file at path.
// Interfaces are removed in reverse file order so devices stacked on
// earlier ones go first. Interfaces that are already gone are skipped.
func RemoveFile(ctx context.Context, cfg *config.Config, path string) error {
	his, err := loader.LoadAllFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load resources: %w", err)
	}

	names := make([]string, 0, len(his))
	for i := len(his) - 1; i >= 0; i-- {
		names = append(names, his[i].Name)
	}

	return WithConnection(ctx, cfg, func(conn netif.Connection) error {
		return removeAllWithDeps(ctx, conn, names)
	})
}

// removeAllWithDeps removes interfaces by name, tolerating ones already gone.
func removeAllWithDeps(ctx context.Context, conn netif.Connection, names []string) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("remove cancelled: %w", err)
		}

		err := removeWithDeps(ctx, conn, name)
		if errors.Is(err, netif.ErrNotFound) {
			log.Printf("Interface '%s' not defined, skipping", name)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// removeWithDeps removes one interface with injected dependencies.
func removeWithDeps(_ context.Context, conn netif.Connection, name string) error {
	// Step 1: Look up the interface
	log.Printf("Looking up interface '%s'...", name)
	iface, err := netif.LookupByName(conn, name)
	if err != nil {
		return fmt.Errorf("failed to look up interface '%s': %w", name, err)
	}
	defer freeHandle(iface)

	// Step 2: Stop it if running
	active, err := iface.IsActive()
	if err != nil {
		return fmt.Errorf("failed to check interface state: %w", err)
	}
	if active {
		log.Printf("Stopping interface '%s'...", name)
		if err := iface.Destroy(); err != nil {
			return fmt.Errorf("failed to stop interface: %w", err)
		}
	}

	// Step 3: Remove the persistent definition
	log.Printf("Undefining interface '%s'...", name)
	if err := iface.Undefine(); err != nil {
		return fmt.Errorf("failed to undefine interface: %w", err)
	}

	log.Printf("Interface '%s' removed successfully", name)
	return nil
}
