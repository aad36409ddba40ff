// Package remote searches a directory tree on another host over SFTP.
package remote

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Target is the user, host and port of an SSH server.
type Target struct {
	User string
	Host string
	Port int
}

// ParseTarget splits "user@host" and attaches port.
func ParseTarget(s string, port int) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, fmt.Errorf("remote target is required")
	}
	user, host, ok := strings.Cut(s, "@")
	if !ok || user == "" || host == "" {
		return Target{}, fmt.Errorf("invalid remote target %q: expected user@host", s)
	}
	if port < 1 || port > 65535 {
		return Target{}, fmt.Errorf("ssh port must be between 1 and 65535, got %d", port)
	}
	return Target{User: user, Host: host, Port: port}, nil
}

// Addr is the host:port to dial.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// KnownHostsName is how the host is written in known_hosts.
func (t Target) KnownHostsName() string {
	if t.Port == 22 {
		return t.Host
	}
	return "[" + t.Host + "]:" + strconv.Itoa(t.Port)
}

func (t Target) String() string {
	return t.User + "@" + t.KnownHostsName()
}
