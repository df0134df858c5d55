package stats

import (
	"strings"
	"testing"
)

const netDev = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
  eth0: 2000 20 0 0 0 0 0 0 4000 40 0 0 0 0 0 0
    lo: 1000 10 0 0 0 0 0 0 1000 10 0 0 0 0 0 0
 down0: 5 5 0 0 0 0 0 0 5 5 0 0 0 0 0 0
`

const snmp = `Ip: Forwarding DefaultTTL InReceives
Ip: 1 64 12345
Tcp: RtoAlgorithm RtoMin RtoMax MaxConn ActiveOpens PassiveOpens AttemptFails EstabResets CurrEstab InSegs OutSegs RetransSegs InErrs OutRsts InCsumErrors
Tcp: 1 200 120000 -1 50 40 3 2 5 9000 8000 17 0 6 0
Udp: InDatagrams NoPorts
Udp: 1 2
`

func TestParseNetDev(t *testing.T) {
	devices, err := parseNetDev(strings.NewReader(netDev), func(name string) bool { return name != "down0" })
	if err != nil {
		t.Fatalf("parseNetDev() error = %v", err)
	}
	want := []DeviceStats{
		{Name: "eth0", RXBytes: 2000, RXPackets: 20, TXBytes: 4000, TXPackets: 40},
		{Name: "lo", RXBytes: 1000, RXPackets: 10, TXBytes: 1000, TXPackets: 10},
	}
	if len(devices) != len(want) {
		t.Fatalf("got %d devices, want %d", len(devices), len(want))
	}
	for i := range want {
		if devices[i] != want[i] {
			t.Errorf("device %d = %+v, want %+v", i, devices[i], want[i])
		}
	}
}

func TestParseNetDevTruncated(t *testing.T) {
	if _, err := parseNetDev(strings.NewReader("Inter-|\n"), func(string) bool { return true }); err == nil {
		t.Error("parseNetDev() accepted a truncated header")
	}
}

func TestParseSNMP(t *testing.T) {
	got, err := parseSNMP(strings.NewReader(snmp))
	if err != nil {
		t.Fatalf("parseSNMP() error = %v", err)
	}
	if got != 17 {
		t.Errorf("RetransSegs = %d, want 17", got)
	}
	if _, err := parseSNMP(strings.NewReader("Udp: a\nUdp: 1\n")); err == nil {
		t.Error("parseSNMP() succeeded without a Tcp section")
	}
}

func TestHostSampleSub(t *testing.T) {
	prev := HostSample{
		Devices: []DeviceStats{
			{Name: "eth0", RXBytes: 100, TXBytes: ^uint64(0) - 9},
			{Name: "gone", RXBytes: 1},
		},
		TCPRetransmits: 5,
	}
	cur := HostSample{
		Devices: []DeviceStats{
			{Name: "eth0", RXBytes: 350, TXBytes: 10, RXPackets: 3},
			{Name: "new", RXBytes: 1},
		},
		TCPRetransmits: 7,
	}
	d := cur.Sub(prev)
	if d.TCPRetransmits != 2 {
		t.Errorf("TCPRetransmits = %d, want 2", d.TCPRetransmits)
	}
	if len(d.Devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(d.Devices))
	}
	want := DeviceStats{Name: "eth0", RXBytes: 250, TXBytes: 20, RXPackets: 3}
	if d.Devices[0] != want {
		t.Errorf("delta = %+v, want %+v", d.Devices[0], want)
	}
}
