package stats

import (
	"net"
	"os"
)

// SampleHost reads the counters of every interface that is up.
func SampleHost() (HostSample, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return HostSample{}, err
	}
	up := make(map[string]bool, len(ifs))
	for _, ifi := range ifs {
		up[ifi.Name] = ifi.Flags&net.FlagUp != 0
	}

	f, err := os.Open("/proc/net/dev")
	if err != nil {
		return HostSample{}, err
	}
	defer f.Close()
	devices, err := parseNetDev(f, func(name string) bool { return up[name] })
	if err != nil {
		return HostSample{}, err
	}

	snmp, err := os.Open("/proc/net/snmp")
	if err != nil {
		return HostSample{}, err
	}
	defer snmp.Close()
	retrans, err := parseSNMP(snmp)
	if err != nil {
		return HostSample{}, err
	}
	return HostSample{Devices: devices, TCPRetransmits: retrans}, nil
}
