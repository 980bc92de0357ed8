// pkg/linkstate/netlink.go

package linkstate

import (
	"context"
	"net"
	"os"
	"path/filepath"

	"github.com/vishvananda/netlink"
	"go.uber.org/zap"
)

// sysClassNet is where the kernel exposes per-interface attributes.
const sysClassNet = "/sys/class/net"

// NetlinkProbe treats any physical, non-wireless ethernet link whose
// operational state is up as an active wired connection.
type NetlinkProbe struct {
	listLinks  func() ([]netlink.Link, error)
	isWireless func(name string) bool
	log        *zap.Logger
}

// NewNetlinkProbe returns a probe backed by the running kernel.
func NewNetlinkProbe(log *zap.Logger) *NetlinkProbe {
	if log == nil {
		log = zap.NewNop()
	}
	return &NetlinkProbe{
		listLinks:  netlink.LinkList,
		isWireless: sysfsWireless,
		log:        log,
	}
}

// WiredActive implements Checker.
func (p *NetlinkProbe) WiredActive(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		p.log.Error("Error while checking Ethernet", zap.String("error", err.Error()))
		return false
	}

	links, err := p.listLinks()
	if err != nil {
		p.log.Error("Error while checking Ethernet", zap.String("error", err.Error()))
		return false
	}

	for _, link := range links {
		if p.wiredUp(link) {
			p.log.Debug("Wired link is up", zap.String("link", link.Attrs().Name))
			return true
		}
	}
	return false
}

func (p *NetlinkProbe) wiredUp(link netlink.Link) bool {
	attrs := link.Attrs()
	if attrs == nil {
		return false
	}
	if attrs.Flags&net.FlagLoopback != 0 {
		return false
	}
	// bridges, veths, vlans and tunnels report type other than "device"
	if link.Type() != "device" || attrs.EncapType != "ether" {
		return false
	}
	if p.isWireless(attrs.Name) {
		return false
	}
	return attrs.OperState == netlink.OperUp
}

func sysfsWireless(name string) bool {
	for _, marker := range []string{"wireless", "phy80211"} {
		if _, err := os.Stat(filepath.Join(sysClassNet, name, marker)); err == nil {
			return true
		}
	}
	return false
}
