package hostif

import (
	"fmt"
	"sync"

	"github.com/digitalocean/go-libvirt"
	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/hostnet/internal/netif"
)

// fakeInterface is one interface held by the in-memory daemon.
type fakeInterface struct {
	ref    libvirt.Interface
	xml    string
	active bool
}

// mockConnection is a mock implementation of netif.Connection for testing.
// By default it behaves like a libvirt daemon holding ifaces.
type mockConnection struct {
	mu sync.Mutex

	ifaces map[string]*fakeInterface

	// Configurable behavior
	lookupByNameFunc func(name string) (libvirt.Interface, error)
	lookupByMACFunc  func(mac string) (libvirt.Interface, error)
	defineXMLFunc    func(xml string, flags uint32) (libvirt.Interface, error)
	getXMLDescFunc   func(iface libvirt.Interface, flags uint32) (string, error)
	createFunc       func(iface libvirt.Interface, flags uint32) error
	destroyFunc      func(iface libvirt.Interface, flags uint32) error
	undefineFunc     func(iface libvirt.Interface) error
	isActiveFunc     func(iface libvirt.Interface) (int32, error)
	listAllFunc      func(needResults int32, flags libvirt.ConnectListAllInterfacesFlags) ([]libvirt.Interface, uint32, error)

	// Call tracking
	lookupByNameCalls []string
	lookupByMACCalls  []string
	defineXMLCalls    []string
	getXMLDescCalls   []uint32
	createCalls       []string
	destroyCalls      []string
	undefineCalls     []string
	isActiveCalls     []string
	listAllCalls      []libvirt.ConnectListAllInterfacesFlags
}

// newMockConnection creates a mock daemon with no interfaces.
func newMockConnection() *mockConnection {
	m := &mockConnection{ifaces: make(map[string]*fakeInterface)}

	m.lookupByNameFunc = func(name string) (libvirt.Interface, error) {
		fi, ok := m.ifaces[name]
		if !ok {
			return libvirt.Interface{}, noInterface(name)
		}
		return fi.ref, nil
	}

	m.lookupByMACFunc = func(mac string) (libvirt.Interface, error) {
		for _, fi := range m.ifaces {
			if fi.ref.Mac == mac {
				return fi.ref, nil
			}
		}
		return libvirt.Interface{}, libvirt.Error{
			Code:    uint32(netif.ErrCodeNoInterface),
			Message: fmt.Sprintf("Interface not found: no interface with matching mac '%s'", mac),
		}
	}

	m.defineXMLFunc = func(xml string, flags uint32) (libvirt.Interface, error) {
		return m.store(xml, false)
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
			return libvirt.Error{Code: uint32(netif.ErrCodeOperationInvalid), Message: "Requested operation is not valid: interface is already running"}
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
			return libvirt.Error{Code: uint32(netif.ErrCodeOperationInvalid), Message: "Requested operation is not valid: interface is not running"}
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
			if flags&libvirt.ConnectListAllInterfacesFlags(netif.ListActive) != 0 && !fi.active {
				continue
			}
			if flags&libvirt.ConnectListAllInterfacesFlags(netif.ListInactive) != 0 && fi.active {
				continue
			}
			refs = append(refs, fi.ref)
		}
		return refs, uint32(len(refs)), nil
	}

	return m
}

// seed defines xml directly, bypassing call tracking.
func (m *mockConnection) seed(xml string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.store(xml, active); err != nil {
		panic(err)
	}
}

// setActive flips the runtime state behind the caller's back.
func (m *mockConnection) setActive(name string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ifaces[name].active = active
}

// has reports whether name is defined.
func (m *mockConnection) has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ifaces[name]
	return ok
}

// store must be called with mu held.
func (m *mockConnection) store(xml string, active bool) (libvirt.Interface, error) {
	var def libvirtxml.Interface
	if err := def.Unmarshal(xml); err != nil {
		return libvirt.Interface{}, libvirt.Error{Code: uint32(netif.ErrCodeXML), Message: "XML error: " + err.Error()}
	}

	stored, err := def.Marshal()
	if err != nil {
		return libvirt.Interface{}, libvirt.Error{Code: uint32(netif.ErrCodeInternal), Message: err.Error()}
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
	m.ifaces[def.Name] = &fakeInterface{ref: ref, xml: stored, active: active}
	return ref, nil
}

// find must be called with mu held.
func (m *mockConnection) find(iface libvirt.Interface) (*fakeInterface, error) {
	fi, ok := m.ifaces[iface.Name]
	if !ok {
		return nil, noInterface(iface.Name)
	}
	return fi, nil
}

func noInterface(name string) error {
	return libvirt.Error{
		Code:    uint32(netif.ErrCodeNoInterface),
		Message: fmt.Sprintf("Interface not found: no interface with matching name '%s'", name),
	}
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
	m.lookupByMACCalls = append(m.lookupByMACCalls, mac)
	return m.lookupByMACFunc(mac)
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
	m.createCalls = append(m.createCalls, iface.Name)
	return m.createFunc(iface, flags)
}

func (m *mockConnection) InterfaceDestroy(iface libvirt.Interface, flags uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyCalls = append(m.destroyCalls, iface.Name)
	return m.destroyFunc(iface, flags)
}

func (m *mockConnection) InterfaceUndefine(iface libvirt.Interface) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undefineCalls = append(m.undefineCalls, iface.Name)
	return m.undefineFunc(iface)
}

func (m *mockConnection) InterfaceIsActive(iface libvirt.Interface) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isActiveCalls = append(m.isActiveCalls, iface.Name)
	return m.isActiveFunc(iface)
}

func (m *mockConnection) ConnectListAllInterfaces(needResults int32, flags libvirt.ConnectListAllInterfacesFlags) ([]libvirt.Interface, uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listAllCalls = append(m.listAllCalls, flags)
	return m.listAllFunc(needResults, flags)
}

func (m *mockConnection) ConnectNumOfInterfaces() (int32, error) {
	return 0, fmt.Errorf("ConnectNumOfInterfaces not used by hostif")
}
