package netif

import (
	"errors"
	"syscall"

	"github.com/vishvananda/netlink"
)

// hostLinks resolves link indexes in the caller's network namespace.
type hostLinks struct{}

func (hostLinks) LinkByIndex(index int) (netlink.Link, error) {
	return netlink.LinkByIndex(index)
}

func isLinkNotFound(err error) bool {
	var lnf netlink.LinkNotFoundError
	return errors.As(err, &lnf) || errors.Is(err, syscall.ENODEV)
}
