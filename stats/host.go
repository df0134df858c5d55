package stats

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// HostSample is a snapshot of the kernel's network counters. Two samples
// around a run show the traffic and retransmissions the run caused.
type HostSample struct {
	Devices        []DeviceStats
	TCPRetransmits uint64
}

type DeviceStats struct {
	Name      string
	RXBytes   uint64
	TXBytes   uint64
	RXPackets uint64
	TXPackets uint64
}

// Sub returns the counter increase from prev to s, per device present in
// both. Counters that wrapped are assumed to have wrapped once.
func (s HostSample) Sub(prev HostSample) HostSample {
	out := HostSample{TCPRetransmits: counterDelta(s.TCPRetransmits, prev.TCPRetransmits)}
	for _, cur := range s.Devices {
		for _, p := range prev.Devices {
			if p.Name != cur.Name {
				continue
			}
			out.Devices = append(out.Devices, DeviceStats{
				Name:      cur.Name,
				RXBytes:   counterDelta(cur.RXBytes, p.RXBytes),
				TXBytes:   counterDelta(cur.TXBytes, p.TXBytes),
				RXPackets: counterDelta(cur.RXPackets, p.RXPackets),
				TXPackets: counterDelta(cur.TXPackets, p.TXPackets),
			})
			break
		}
	}
	return out
}

func counterDelta(cur, prev uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur + (^uint64(0) - prev) + 1
}

// parseNetDev reads /proc/net/dev, keeping the devices for which keep
// returns true, sorted by name.
func parseNetDev(r io.Reader, keep func(name string) bool) ([]DeviceStats, error) {
	sc := bufio.NewScanner(r)
	// Inter-|   Receive                                                |  Transmit
	//  face |bytes    packets errs drop fifo frame compressed multicast|bytes ...
	for i := 0; i < 2; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("net/dev: missing header: %w", io.ErrUnexpectedEOF)
		}
	}
	var devices []DeviceStats
	for sc.Scan() {
		name, counters, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		fields := strings.Fields(counters)
		if len(fields) < 16 || !keep(name) {
			continue
		}
		d := DeviceStats{Name: name}
		var err error
		for _, f := range []struct {
			dst *uint64
			idx int
		}{
			{&d.RXBytes, 0}, {&d.RXPackets, 1}, {&d.TXBytes, 8}, {&d.TXPackets, 9},
		} {
			*f.dst, err = strconv.ParseUint(fields[f.idx], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("net/dev: device %s: %w", name, err)
			}
		}
		devices = append(devices, d)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Name < devices[j].Name
	})
	return devices, nil
}

// parseSNMP returns RetransSegs from the Tcp section of /proc/net/snmp.
func parseSNMP(r io.Reader) (uint64, error) {
	sc := bufio.NewScanner(r)
	var header []string
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "Tcp:") {
			continue
		}
		fields := strings.Fields(line)
		if header == nil {
			header = fields
			continue
		}
		for i, name := range header {
			if name == "RetransSegs" && i < len(fields) {
				return strconv.ParseUint(fields[i], 10, 64)
			}
		}
		break
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("snmp: no Tcp RetransSegs counter")
}
