//go:build !linux

package netif

import (
	"errors"
	"syscall"

	"github.com/vishvananda/netlink"
)

// hostLinks has no link table to consult outside Linux.
type hostLinks struct{}

func (hostLinks) LinkByIndex(int) (netlink.Link, error) {
	return nil, errors.New("link lookup by index requires Linux")
}

func isLinkNotFound(err error) bool {
	return errors.Is(err, syscall.ENODEV)
}
