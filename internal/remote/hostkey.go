package remote

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"
)

// confirmFunc asks the user a yes/no question.
type confirmFunc func(question string) (bool, error)

// hostVerifier checks server keys against known_hosts. Unknown hosts are
// trusted on first use and changed keys may be replaced, both only after
// confirmation and never in batch mode.
type hostVerifier struct {
	target  Target
	file    *knownHostsFile
	batch   bool
	confirm confirmFunc
}

func newHostVerifier(t Target, file *knownHostsFile, batch bool) *hostVerifier {
	return &hostVerifier{target: t, file: file, batch: batch, confirm: confirmOnTerminal}
}

// Callback returns the ssh.HostKeyCallback for the client config.
func (v *hostVerifier) Callback() (ssh.HostKeyCallback, error) {
	known, err := v.file.callback()
	if err != nil {
		return nil, err
	}
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := known(hostname, remote, key)
		if err == nil {
			return nil
		}
		var keyErr *knownhosts.KeyError
		if !errors.As(err, &keyErr) {
			return fmt.Errorf("host key verification failed: %w", err)
		}
		if len(keyErr.Want) == 0 {
			return v.trustNew(key)
		}
		return v.replaceChanged(keyErr.Want, key)
	}, nil
}

func (v *hostVerifier) trustNew(key ssh.PublicKey) error {
	name := v.target.KnownHostsName()
	fp := ssh.FingerprintSHA256(key)
	if v.batch {
		return fmt.Errorf("unknown host key for %s (%s); run ssh once to trust it or disable --ssh-batch", name, fp)
	}

	ok, err := v.confirm(fmt.Sprintf(
		"The authenticity of host '%s' can't be established.\n%s key fingerprint is %s.\nTrust this host and continue connecting (yes/no)? ",
		name, key.Type(), fp))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host key for %s was not trusted", name)
	}
	return v.file.add(v.target, key)
}

func (v *hostVerifier) replaceChanged(want []knownhosts.KnownKey, key ssh.PublicKey) error {
	name := v.target.KnownHostsName()
	expected := make([]string, len(want))
	for i, w := range want {
		expected[i] = ssh.FingerprintSHA256(w.Key)
	}
	presented := ssh.FingerprintSHA256(key)

	if v.batch {
		return fmt.Errorf("host key mismatch for %s: expected %s, presented %s",
			name, strings.Join(expected, ", "), presented)
	}

	ok, err := v.confirm(fmt.Sprintf(
		"WARNING: HOST KEY CHANGED for '%s'.\nExpected: %s\nPresented: %s\nReplace stored key and continue (yes/no)? ",
		name, strings.Join(expected, ", "), presented))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host key mismatch for %s", name)
	}
	return v.file.replace(v.target, key)
}

func confirmOnTerminal(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("cannot prompt for host key trust: stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, question)
	return readYes(os.Stdin)
}

func readYes(r io.Reader) (bool, error) {
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("host key prompt failed: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
