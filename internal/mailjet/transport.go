package mailjet

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// PublicTransport rejects connections to private, loopback or link-local
// addresses so a misconfigured base URL cannot reach internal services.
var PublicTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	TLSHandshakeTimeout: 5 * time.Second,
	DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialer := &net.Dialer{Timeout: 5 * time.Second}
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		if err := checkPublic(conn.RemoteAddr()); err != nil {
			conn.Close()
			return nil, fmt.Errorf("dial %q: %w", addr, err)
		}
		return conn, nil
	},
}

func checkPublic(addr net.Addr) error {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return fmt.Errorf("parse remote address: %w", err)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("parse remote IP %q", host)
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return fmt.Errorf("access to private IP %s is denied", ip)
	}
	return nil
}
