package hostif

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jbweber/hostnet/api/v1alpha1"
	"github.com/jbweber/hostnet/internal/config"
	hnlibvirt "github.com/jbweber/hostnet/internal/libvirt"
	"github.com/jbweber/hostnet/internal/loader"
	"github.com/jbweber/hostnet/internal/netif"
	"github.com/jbweber/hostnet/internal/status"
)

// Action describes what Apply did to one interface.
type Action string

const (
	// ActionCreated means the interface was not defined before.
	ActionCreated Action = "created"
	// ActionUpdated means an existing definition was replaced.
	ActionUpdated Action = "updated"
	// ActionStarted means the definition matched but the interface was brought up.
	ActionStarted Action = "started"
	// ActionUnchanged means libvirt already matched the resource.
	ActionUnchanged Action = "unchanged"
)

// Apply defines every HostInterface in the YAML file at path and starts
// those that ask for it.
//
// This orchestrates the whole process for each resource:
//  1. Load and validate the resource file
//  2. Connect to libvirt
//  3. Generate the interface XML
//  4. Compare against any existing persistent definition
//  5. Define the interface if it is new or changed
//  6. Start it if requested and not already running
//  7. Verify the resulting state and record it in the resource status
//
// Interfaces are applied in file order. A failure on one interface is logged
// and does not stop the rest; the returned error lists every failure.
// The returned resources carry the final status of each interface.
func Apply(ctx context.Context, cfg *config.Config, path string) ([]*v1alpha1.HostInterface, error) {
	his, err := loader.LoadAllFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}

	err = WithConnection(ctx, cfg, func(conn netif.Connection) error {
		return applyAllWithDeps(ctx, conn, his)
	})
	return his, err
}

// applyAllWithDeps applies a list of resources with injected dependencies.
func applyAllWithDeps(ctx context.Context, conn netif.Connection, his []*v1alpha1.HostInterface) error {
	var failed []string
	for _, hi := range his {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("apply cancelled: %w", err)
		}

		action, err := applyWithDeps(ctx, conn, hi)
		if err != nil {
			log.Printf("Warning: failed to apply interface '%s': %v", hi.Name, err)
			failed = append(failed, hi.Name)
			continue
		}
		log.Printf("Interface '%s' %s", hi.Name, action)
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to apply %d of %d interfaces: %s", len(failed), len(his), strings.Join(failed, ", "))
	}
	return nil
}

// applyWithDeps applies one resource with injected dependencies.
// The resource status is updated whether or not it succeeds.
func applyWithDeps(_ context.Context, conn netif.Connection, hi *v1alpha1.HostInterface) (Action, error) {
	if err := status.TransitionToDefining(hi); err != nil {
		return "", err
	}

	log.Printf("Generating interface XML for '%s'...", hi.Name)
	xml, err := hnlibvirt.GenerateInterfaceXML(hi)
	if err != nil {
		status.MarkDefineFailed(hi, err)
		return "", fmt.Errorf("failed to generate interface XML: %w", err)
	}

	// Step 1: Look for an existing definition
	log.Printf("Checking if interface '%s' already exists...", hi.Name)
	action := ActionCreated
	iface, err := netif.LookupByName(conn, hi.Name)
	switch {
	case err == nil:
		action = ActionUpdated
		same, cmpErr := definitionMatches(iface, xml)
		if cmpErr != nil {
			log.Printf("Warning: failed to compare existing definition, redefining: %v", cmpErr)
		}
		if same {
			action = ActionUnchanged
		}
	case errors.Is(err, netif.ErrNotFound):
	default:
		status.MarkDefineFailed(hi, err)
		return "", fmt.Errorf("failed to look up interface: %w", err)
	}

	// Step 2: Define if new or changed
	if action != ActionUnchanged {
		log.Printf("Defining interface in libvirt...")
		defined, err := netif.DefineXML(conn, xml, 0)
		freeHandle(iface)
		if err != nil {
			status.MarkDefineFailed(hi, err)
			return "", fmt.Errorf("failed to define interface: %w", err)
		}
		iface = defined
	}
	defer freeHandle(iface)

	// Step 3: Start if requested
	active, err := iface.IsActive()
	if err != nil {
		status.TransitionToFailed(hi, "StateUnknown", err.Error())
		return "", fmt.Errorf("failed to check interface state: %w", err)
	}

	if hi.ShouldStart() && !active {
		log.Printf("Starting interface '%s'...", hi.Name)
		if err := iface.Create(0); err != nil {
			status.MarkStartFailed(hi, err)
			return "", fmt.Errorf("failed to start interface: %w", err)
		}

		// Step 4: Verify
		active, err = iface.IsActive()
		if err != nil {
			status.MarkStartFailed(hi, err)
			return "", fmt.Errorf("failed to verify interface state: %w", err)
		}
		if !active {
			err := fmt.Errorf("interface '%s' did not become active", hi.Name)
			status.MarkStartFailed(hi, err)
			return "", err
		}
		if action == ActionUnchanged {
			action = ActionStarted
		}
	} else if active && action == ActionUpdated {
		log.Printf("Note: interface '%s' is running; the new definition applies after it is restarted", hi.Name)
	}

	recordIdentity(hi, iface)

	if active {
		err = status.TransitionToActive(hi)
	} else {
		err = status.TransitionToInactive(hi)
	}
	if err != nil {
		return "", err
	}

	return action, nil
}

// definitionMatches reports whether the persistent definition of iface is
// equivalent to xml.
func definitionMatches(iface *netif.Interface, xml string) (bool, error) {
	current, err := iface.GetXMLDesc(netif.XMLInactive)
	if err != nil {
		return false, fmt.Errorf("failed to get current definition: %w", err)
	}
	return hnlibvirt.EquivalentInterfaceXML(current, xml)
}

// recordIdentity copies the MAC and UUID libvirt reports into status.
func recordIdentity(hi *v1alpha1.HostInterface, iface *netif.Interface) {
	if mac, err := iface.GetMACString(); err == nil {
		hi.Status.MAC = mac
	} else {
		log.Printf("Warning: failed to get MAC for '%s': %v", hi.Name, err)
	}

	if id, err := iface.GetUUIDString(); err == nil {
		hi.Status.UUID = id
	} else {
		log.Printf("Warning: failed to get UUID for '%s': %v", hi.Name, err)
	}
}
