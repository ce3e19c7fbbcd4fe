package netif

import (
	"fmt"
	"sync"

	"github.com/digitalocean/go-libvirt"
	"github.com/vishvananda/netlink"
	"libvirt.org/go/libvirtxml"
)

// fakeInterface is one interface held by the in-memory daemon.
type fakeInterface struct {
	ref    libvirt.Interface
	xml    string
	active bool
}

// mockConnection is a mock implementation of the Connection interface for testing.
//
// By default it behaves like a small libvirt daemon: DefineXML stores the
// definition, Create and Destroy toggle the active flag, and lookups fail with
// VIR_ERR_NO_INTERFACE for unknown names.
type mockConnection struct {
	mu sync.Mutex

	ifaces map[string]*fakeInterface

	// Configurable behavior
	lookupByNameFunc      func(name string) (libvirt.Interface, error)
	lookupByMacStringFunc func(mac string) (libvirt.Interface, error)
	defineXMLFunc         func(xml string, flags uint32) (libvirt.Interface, error)
	getXMLDescFunc        func(iface libvirt.Interface, flags uint32) (string, error)
	createFunc            func(iface libvirt.Interface, flags uint32) error
	destroyFunc           func(iface libvirt.Interface, flags uint32) error
	undefineFunc          func(iface libvirt.Interface) error
	isActiveFunc          func(iface libvirt.Interface) (int32, error)
	listAllFunc           func(needResults int32, flags libvirt.ConnectListAllInterfacesFlags) ([]libvirt.Interface, uint32, error)
	numOfInterfacesFunc   func() (int32, error)

	// Call tracking
	lookupByNameCalls      []string
	lookupByMacStringCalls []string
	defineXMLCalls         []string
	getXMLDescCalls        []uint32
	createCalls            []libvirt.Interface
	destroyCalls           []libvirt.Interface
	undefineCalls          []libvirt.Interface
	isActiveCalls          []libvirt.Interface
	listAllCalls           []libvirt.ConnectListAllInterfacesFlags
	numOfInterfacesCalls   int
}

// newMockConnection creates a mock daemon with no interfaces.
func newMockConnection() *mockConnection {
	m := &mockConnection{ifaces: make(map[string]*fakeInterface)}

	m.lookupByNameFunc = func(name string) (libvirt.Interface, error) {
		fi, ok := m.ifaces[name]
		if !ok {
			return libvirt.Interface{}, noInterface("no interface with matching name '%s'", name)
		}
		return fi.ref, nil
	}

	m.lookupByMacStringFunc = func(mac string) (libvirt.Interface, error) {
		for _, fi := range m.ifaces {
			if fi.ref.Mac == mac {
				return fi.ref, nil
			}
		}
		return libvirt.Interface{}, noInterface("no interface with matching mac '%s'", mac)
	}

	m.defineXMLFunc = func(xml string, flags uint32) (libvirt.Interface, error) {
		var def libvirtxml.Interface
		if err := def.Unmarshal(xml); err != nil {
			return libvirt.Interface{}, libvirt.Error{Code: uint32(ErrCodeXML), Message: "XML error: " + err.Error()}
		}
		if def.Name == "" {
			return libvirt.Interface{}, libvirt.Error{Code: uint32(ErrCodeXML), Message: "XML error: missing interface name"}
		}

		// Store the daemon's own rendering, as libvirt does.
		stored, err := def.Marshal()
		if err != nil {
			return libvirt.Interface{}, libvirt.Error{Code: uint32(ErrCodeInternal), Message: err.Error()}
		}

		ref := libvirt.Interface{Name: def.Name}
		if def.MAC != nil {
			ref.Mac = def.MAC.Address
		}
		if fi, ok := m.ifaces[def.Name]; ok {
			fi.ref = ref
			fi.xml = stored
			return ref, nil
		}
		m.ifaces[def.Name] = &fakeInterface{ref: ref, xml: stored}
		return ref, nil
	}

	m.getXMLDescFunc = func(iface libvirt.Interface, flags uint32) (string, error) {
		fi, err := m.find(iface)
		if err != nil {
			return "", err
		}
		return fi.xml, nil
	}

	m.createFunc = func(iface libvirt.Interface, flags uint32) error {
		fi, err := m.find(iface)
		if err != nil {
			return err
		}
		if fi.active {
			return libvirt.Error{Code: uint32(ErrCodeOperationInvalid), Message: "Requested operation is not valid: interface is already running"}
		}
		fi.active = true
		return nil
	}

	m.destroyFunc = func(iface libvirt.Interface, flags uint32) error {
		fi, err := m.find(iface)
		if err != nil {
			return err
		}
		if !fi.active {
			return libvirt.Error{Code: uint32(ErrCodeOperationInvalid), Message: "Requested operation is not valid: interface is not running"}
		}
		fi.active = false
		return nil
	}

	m.undefineFunc = func(iface libvirt.Interface) error {
		if _, err := m.find(iface); err != nil {
			return err
		}
		delete(m.ifaces, iface.Name)
		return nil
	}

	m.isActiveFunc = func(iface libvirt.Interface) (int32, error) {
		fi, err := m.find(iface)
		if err != nil {
			return 0, err
		}
		if fi.active {
			return 1, nil
		}
		return 0, nil
	}

	m.listAllFunc = func(needResults int32, flags libvirt.ConnectListAllInterfacesFlags) ([]libvirt.Interface, uint32, error) {
		var refs []libvirt.Interface
		for _, fi := range m.ifaces {
			if flags&libvirt.ConnectListAllInterfacesFlags(ListActive) != 0 && !fi.active {
				continue
			}
			if flags&libvirt.ConnectListAllInterfacesFlags(ListInactive) != 0 && fi.active {
				continue
			}
			refs = append(refs, fi.ref)
		}
		return refs, uint32(len(refs)), nil
	}

	m.numOfInterfacesFunc = func() (int32, error) {
		var n int32
		for _, fi := range m.ifaces {
			if fi.active {
				n++
			}
		}
		return n, nil
	}

	return m
}

// find must be called with mu held.
func (m *mockConnection) find(iface libvirt.Interface) (*fakeInterface, error) {
	fi, ok := m.ifaces[iface.Name]
	if !ok {
		return nil, noInterface("no interface with matching name '%s'", iface.Name)
	}
	return fi, nil
}

// totalCalls returns the number of procedures invoked on the mock.
func (m *mockConnection) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lookupByNameCalls) + len(m.lookupByMacStringCalls) + len(m.defineXMLCalls) +
		len(m.getXMLDescCalls) + len(m.createCalls) + len(m.destroyCalls) + len(m.undefineCalls) +
		len(m.isActiveCalls) + len(m.listAllCalls) + m.numOfInterfacesCalls
}

func noInterface(format string, args ...any) error {
	return libvirt.Error{Code: uint32(ErrCodeNoInterface), Message: "Interface not found: " + fmt.Sprintf(format, args...)}
}

func (m *mockConnection) InterfaceLookupByName(name string) (libvirt.Interface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupByNameCalls = append(m.lookupByNameCalls, name)
	return m.lookupByNameFunc(name)
}

func (m *mockConnection) InterfaceLookupByMacString(mac string) (libvirt.Interface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupByMacStringCalls = append(m.lookupByMacStringCalls, mac)
	return m.lookupByMacStringFunc(mac)
}

func (m *mockConnection) InterfaceDefineXML(xml string, flags uint32) (libvirt.Interface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defineXMLCalls = append(m.defineXMLCalls, xml)
	return m.defineXMLFunc(xml, flags)
}

func (m *mockConnection) InterfaceGetXMLDesc(iface libvirt.Interface, flags uint32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getXMLDescCalls = append(m.getXMLDescCalls, flags)
	return m.getXMLDescFunc(iface, flags)
}

func (m *mockConnection) InterfaceCreate(iface libvirt.Interface, flags uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls = append(m.createCalls, iface)
	return m.createFunc(iface, flags)
}

func (m *mockConnection) InterfaceDestroy(iface libvirt.Interface, flags uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyCalls = append(m.destroyCalls, iface)
	return m.destroyFunc(iface, flags)
}

func (m *mockConnection) InterfaceUndefine(iface libvirt.Interface) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undefineCalls = append(m.undefineCalls, iface)
	return m.undefineFunc(iface)
}

func (m *mockConnection) InterfaceIsActive(iface libvirt.Interface) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isActiveCalls = append(m.isActiveCalls, iface)
	return m.isActiveFunc(iface)
}

func (m *mockConnection) ConnectListAllInterfaces(needResults int32, flags libvirt.ConnectListAllInterfacesFlags) ([]libvirt.Interface, uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listAllCalls = append(m.listAllCalls, flags)
	return m.listAllFunc(needResults, flags)
}

func (m *mockConnection) ConnectNumOfInterfaces() (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.numOfInterfacesCalls++
	return m.numOfInterfacesFunc()
}

// mockLinkResolver is a mock implementation of LinkResolver for testing.
type mockLinkResolver struct {
	links map[int]string
	err   error

	linkByIndexCalls []int
}

func (r *mockLinkResolver) LinkByIndex(index int) (netlink.Link, error) {
	r.linkByIndexCalls = append(r.linkByIndexCalls, index)
	if r.err != nil {
		return nil, r.err
	}
	name, ok := r.links[index]
	if !ok {
		return nil, fmt.Errorf("link index %d: %w", index, errNoDevice)
	}
	return &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: index, Name: name}}, nil
}
