package app

import (
	"errors"
	"fmt"
	"strings"

	"tapoctl/internal/domain"
)

// ErrUnknownHost is returned for hardware addresses missing from the table.
var ErrUnknownHost = errors.New("no address configured for device")

// StaticResolver maps hardware addresses to hosts from configuration.
type StaticResolver map[string]string

// NewStaticResolver normalises the keys of hosts.
func NewStaticResolver(hosts map[string]string) StaticResolver {
	r := make(StaticResolver, len(hosts))
	for mac, addr := range hosts {
		r[normalizeMAC(mac)] = addr
	}
	return r
}

// Resolve returns the host configured for mac.
func (r StaticResolver) Resolve(mac domain.MAC) (string, error) {
	if addr, ok := r[normalizeMAC(string(mac))]; ok && addr != "" {
		return addr, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownHost, mac)
}

// normalizeMAC accepts AA:BB:.., aa-bb-.. and aabb.. forms.
func normalizeMAC(mac string) string {
	mac = strings.ToUpper(strings.TrimSpace(mac))
	mac = strings.NewReplacer(":", "", "-", "", ".", "").Replace(mac)
	return mac
}

var _ domain.AddressResolver = StaticResolver(nil)
