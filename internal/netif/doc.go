// Package netif wraps libvirt's host network interface objects (bridges, bonds,
// VLANs and plain ethernet devices) in a handle type that is safe to pass around.
//
// An *Interface is obtained only through one of the checked constructors:
//
//	iface, err := netif.LookupByName(client.Libvirt(), "br0")
//	if err != nil {
//	    return err
//	}
//	defer iface.Free()
//
//	active, err := iface.IsActive()
//
// The handle holds the reference token libvirt returned for the interface plus the
// connection it came from. The daemon owns the object; Free only releases this
// handle's claim on it. Once Free has succeeded every other method fails with an
// error matching ErrInvalidHandle and makes no call to libvirt.
//
// Every failure is returned as an *Error carrying the libvirt error code, the
// origin domain and the message, copied out at the point of failure. Use
// errors.Is with ErrNotFound, ErrInvalidArgument, ErrOperationFailed or
// ErrInvalidHandle to branch on the kind of failure.
//
// Persistent configuration (DefineXML, Undefine) and runtime state (Create,
// Destroy) are independent: an interface may be defined but inactive, defined and
// active, or active without a persistent definition. The package does not enforce
// any ordering between them; libvirt reports illegal transitions as errors.
//
// Nothing in this package locks. Callers must serialize state-changing calls on the
// same interface if they need deterministic ordering.
package netif
