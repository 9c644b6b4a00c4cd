package net

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/pkg/errors"

	"chalkpad/internal/state"
)

const ServiceType = "_chalkpad._tcp"

// Advertise announces the board's HTTP port on the local network.
// Close the returned server to stop advertising.
func Advertise(name string, port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, errors.Wrap(err, "could not get hostname")
	}
	if name == "" {
		name = host
	}

	info := []string{"ChalkPad", "session=" + state.SessionID()}
	service, err := mdns.NewMDNSService(name, ServiceType, "", "", port, nil, info)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mDNS service")
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, errors.Wrap(err, "failed to start mDNS server")
	}
	return server, nil
}

// Browse looks for advertised boards for the given duration and reports
// each one as host:port.
func Browse(timeout time.Duration, found func(name, addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(e.Name, fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	return errors.Wrap(err, "mdns query")
}
