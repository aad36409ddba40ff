package remote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// knownHostsFile edits an OpenSSH known_hosts file.
type knownHostsFile struct {
	path string
}

// userKnownHosts returns ~/.ssh/known_hosts, creating it empty if needed.
func userKnownHosts() (*knownHostsFile, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory for known_hosts: %w", err)
	}
	return openKnownHosts(filepath.Join(home, ".ssh", "known_hosts"))
}

func openKnownHosts(path string) (*knownHostsFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	_, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return nil, fmt.Errorf("cannot create known_hosts: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("cannot access known_hosts: %w", err)
	}
	return &knownHostsFile{path: path}, nil
}

// callback parses the file as it is now.
func (k *knownHostsFile) callback() (ssh.HostKeyCallback, error) {
	cb, err := knownhosts.New(k.path)
	if err != nil {
		return nil, fmt.Errorf("cannot load known_hosts: %w", err)
	}
	return cb, nil
}

// add appends a line trusting key for t.
func (k *knownHostsFile) add(t Target, key ssh.PublicKey) error {
	f, err := os.OpenFile(k.path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("cannot update known_hosts: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(knownhosts.Line([]string{t.KnownHostsName()}, key) + "\n"); err != nil {
		return fmt.Errorf("cannot write known_hosts entry: %w", err)
	}
	return nil
}

// replace drops every entry naming t and appends key.
func (k *knownHostsFile) replace(t Target, key ssh.PublicKey) error {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return fmt.Errorf("cannot read known_hosts: %w", err)
	}

	kept := withoutHost(string(data), t)
	if kept != "" && !strings.HasSuffix(kept, "\n") {
		kept += "\n"
	}
	kept += knownhosts.Line([]string{t.KnownHostsName()}, key) + "\n"

	if err := os.WriteFile(k.path, []byte(kept), 0o600); err != nil {
		return fmt.Errorf("cannot write known_hosts: %w", err)
	}
	return nil
}

// hostAliases lists the spellings of t that may appear in known_hosts.
func hostAliases(t Target) map[string]bool {
	aliases := map[string]bool{
		"[" + t.Host + "]:" + strconv.Itoa(t.Port): true,
	}
	if t.Port == 22 {
		aliases[t.Host] = true
	}
	return aliases
}

// withoutHost removes the lines of a known_hosts document that name t.
// Comments, blank lines and other hosts are kept verbatim.
func withoutHost(doc string, t Target) string {
	aliases := hostAliases(t)
	lines := strings.Split(doc, "\n")
	out := lines[:0]

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			out = append(out, line)
			continue
		}
		hosts := fields[0]
		if strings.HasPrefix(hosts, "@") {
			// @cert-authority / @revoked marker
			if len(fields) < 2 {
				out = append(out, line)
				continue
			}
			hosts = fields[1]
		}

		named := false
		for _, h := range strings.Split(hosts, ",") {
			if aliases[h] {
				named = true
				break
			}
		}
		if !named {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
