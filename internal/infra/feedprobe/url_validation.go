package feedprobe

import (
	"fmt"
	"net"
	"net/url"
)

// validateURL rejects URLs the prober must not fetch.
// With denyPrivateIPs the host is resolved and loopback, private and link-local
// addresses are refused, so a preview cannot be pointed at the internal network.
func (p *Prober) validateURL(urlStr string) (*url.URL, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: parse error: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return nil, fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}

	if !p.cfg.DenyPrivateIPs {
		return u, nil
	}

	ips, err := p.lookupIP(hostname)
	if err != nil {
		return nil, fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return nil, fmt.Errorf("%w: hostname '%s' resolves to private IP %s", ErrPrivateIP, hostname, ip.String())
		}
	}
	return u, nil
}

// isPrivateIP checks if an IP address is loopback, private (RFC 1918 / RFC 4193)
// or link-local.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
