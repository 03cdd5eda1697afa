package internal

import (
	"fmt"
	"io"
	"net"
	"plantao/internal/providers"
	"plantao/internal/structures"
	"sort"
	"strconv"
	"strings"
)

// LocalIPs lists the non-loopback IPv4 addresses of this host, so operators
// know which URL to hand out on the LAN.
func LocalIPs() []string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	return ipv4s(addrs)
}

func ipv4s(addrs []net.Addr) []string {
	seen := make(map[string]struct{})
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip == nil || ip.IsLoopback() || ip.To4() == nil {
			continue
		}
		seen[ip.To4().String()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for ip := range seen {
		out = append(out, ip)
	}
	sort.Strings(out)
	return out
}

// PrintBanner writes the startup summary: where files live, which routes
// exist and the URLs the host is probably reachable on.
func PrintBanner(w io.Writer, conf *structures.Config, routes []structures.Route, ips []string) {
	port := strconv.Itoa(conf.WebServer.Port)
	rule := strings.Repeat("=", 40)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, " %s\n", conf.AppName)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Site dir: %s\n", conf.Site.Dir)
	fmt.Fprintf(w, "DB file : %s\n", providers.RecordPath(conf))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Routes:")
	fmt.Fprintf(w, "  %-5s %-22s -> %s\n", "GET", "/", "index.html")
	for _, route := range routes {
		for _, method := range route.Methods {
			fmt.Fprintf(w, "  %-5s %s\n", method, route.Url)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Listening on: http://%s\n", net.JoinHostPort(conf.WebServer.Host, port))
	fmt.Fprintln(w, "Probable addresses on the network:")
	fmt.Fprintf(w, "  http://%s\n", net.JoinHostPort("127.0.0.1", port))
	for _, ip := range ips {
		fmt.Fprintf(w, "  http://%s\n", net.JoinHostPort(ip, port))
	}
	fmt.Fprintln(w, rule)
}
