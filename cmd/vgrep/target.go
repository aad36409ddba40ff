package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// validateRemoteTarget rejects --ssh values that ParseTarget would accept
// but that cannot be dialed as given.
func validateRemoteTarget(raw string) error {
	if strings.Count(raw, "@") != 1 {
		return fmt.Errorf("invalid remote target %q: expected user@host", raw)
	}

	user, host, _ := strings.Cut(raw, "@")
	if user == "" || host == "" {
		return fmt.Errorf("invalid remote target %q: expected user@host", raw)
	}
	if strings.HasPrefix(user, "-") || strings.HasPrefix(host, "-") {
		return fmt.Errorf("invalid remote target %q", raw)
	}
	if strings.ContainsAny(raw, " \t\n\r") {
		return fmt.Errorf("invalid remote target %q: spaces are not allowed", raw)
	}
	if strings.ContainsAny(raw, `/\`) {
		return fmt.Errorf("invalid remote target %q: put the remote directory in <directory>", raw)
	}
	if strings.HasPrefix(host, "[") {
		end := strings.Index(host, "]")
		if end == -1 {
			return fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
		}
		if end == 1 {
			return fmt.Errorf("invalid remote target %q: empty host", raw)
		}
		if end != len(host)-1 {
			rest := host[end+1:]
			if strings.HasPrefix(rest, ":") && isAllDigits(rest[1:]) {
				return fmt.Errorf("remote target %q must not include :port; use --ssh-port", raw)
			}
			return fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
		}
	} else if strings.Contains(host, "]") {
		return fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
	}
	if looksLikeHostPort(host) {
		return fmt.Errorf("remote target %q must not include :port; use --ssh-port", raw)
	}

	return nil
}

func looksLikeHostPort(host string) bool {
	if strings.Count(host, ":") != 1 {
		return false
	}
	_, port, ok := strings.Cut(host, ":")
	if !ok {
		return false
	}
	return isAllDigits(port)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseTimeout accepts a Go duration ("20s", "1m") or a bare number of
// seconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if isAllDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid ssh timeout %q: %w", s, err)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ssh timeout %q: %w", s, err)
	}
	return d, nil
}
