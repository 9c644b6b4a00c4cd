package net

import (
	"fmt"
	"net"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// GetOutgoingIP finds the preferred local IP address to put in share links.
func GetOutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route to the internet; look at the interfaces instead.
		return firstIPv4()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String()
}

func firstIPv4() string {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4().String()
			}
		}
	}
	log.Println("[NET] no suitable local IP found, falling back to loopback")
	return "127.0.0.1"
}

// ShareLink is the URL other devices on the LAN use to reach the board.
func ShareLink(ip, listenAddr string) (string, int, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(ip, portStr)), port, nil
}
