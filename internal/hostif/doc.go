// Package hostif provides high-level host interface management operations.
//
// This package orchestrates the lower-level components (loader, XML generation,
// the netif handle wrapper, status) into the operations the CLI exposes:
//
//   - Apply: define every interface in a resource file and bring it up
//   - Remove: stop and undefine an interface
//   - List / Get: read interfaces back from libvirt as HostInterface resources
//   - Define, Start, Stop, Undefine, DumpXML: single libvirt calls by name,
//     MAC address or UUID
//
// Every exported operation opens its own connection from a *config.Config and
// closes it before returning. The unexported *WithDeps variants take a
// netif.Connection so they can run against a mock daemon.
//
// Apply is idempotent: an interface whose persistent definition already matches
// the resource is left alone, and one that is already running is not restarted.
// A changed definition is written to libvirt but takes effect on the next
// restart of an active interface.
package hostif
