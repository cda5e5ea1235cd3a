package client

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"runtime"
	"strings"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
)

var osNames = map[string]string{
	"linux":   "Linux",
	"darwin":  "Darwin",
	"windows": "Windows",
}

// HostDevice describes the machine the client runs on. The device id is
// stable across runs as long as hostname, MAC address and OS release are.
func HostDevice() dto.DeviceInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	osName := osNames[runtime.GOOS]
	if osName == "" {
		osName = runtime.GOOS
	}
	release := osRelease()
	mac, ip := primaryInterface()

	return dto.DeviceInfo{
		DeviceID:  DeviceID(hostname, mac, osName, release),
		Label:     fmt.Sprintf("%s (%s)", hostname, osName),
		OS:        osName,
		IPAddress: ip,
		Metadata: map[string]any{
			"device_name": hostname,
			"os_version":  release,
			"mac_address": mac,
		},
	}
}

// DeviceID hashes the host identity into a hex md5 digest.
func DeviceID(hostname, mac, osName, release string) string {
	sum := md5.Sum([]byte(hostname + "-" + mac + "-" + osName + "-" + release))
	return hex.EncodeToString(sum[:])
}

func osRelease() string {
	b, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// primaryInterface returns the MAC and IPv4 address of the first up,
// non-loopback interface that has a hardware address.
func primaryInterface() (mac, ip string) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", "127.0.0.1"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if n, ok := a.(*net.IPNet); ok && n.IP.To4() != nil {
				return iface.HardwareAddr.String(), n.IP.String()
			}
		}
		if mac == "" {
			mac = iface.HardwareAddr.String()
		}
	}
	return mac, "127.0.0.1"
}
