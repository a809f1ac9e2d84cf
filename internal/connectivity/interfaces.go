package connectivity

import (
	"context"
	"strings"

	gopsutilnet "github.com/shirou/gopsutil/v3/net"
)

// hasActiveInterface reports whether any non-loopback network interface is
// up. This is a purely local reading: it proves a link exists, not that the
// backend is reachable.
func hasActiveInterface(ctx context.Context) (bool, error) {
	interfaces, err := gopsutilnet.InterfacesWithContext(ctx)
	if err != nil {
		return false, err
	}

	for _, iface := range interfaces {
		var up, loopback bool
		for _, flag := range iface.Flags {
			switch strings.ToLower(flag) {
			case "up":
				up = true
			case "loopback":
				loopback = true
			}
		}
		if up && !loopback {
			return true, nil
		}
	}
	return false, nil
}
