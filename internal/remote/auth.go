package remote

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/term"
)

// Private keys tried from ~/.ssh, in order.
var defaultKeyNames = []string{"id_ed25519", "id_ecdsa", "id_rsa", "id_dsa"}

// authMethods collects agent keys, unencrypted default keys and, unless
// batch is set, interactive password prompts.
func authMethods(t Target, batch bool, log logr.Logger) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if sock := strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")); sock != "" {
		methods = append(methods, ssh.PublicKeysCallback(agentSigners(sock)))
	}

	if home, err := os.UserHomeDir(); err == nil {
		if signers := loadKeys(filepath.Join(home, ".ssh"), log); len(signers) > 0 {
			methods = append(methods, ssh.PublicKeys(signers...))
		}
	}

	if !batch {
		p := &passwordPrompt{target: t}
		methods = append(methods,
			ssh.PasswordCallback(p.password),
			ssh.KeyboardInteractive(p.challenge),
		)
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no SSH auth methods available (configure ssh-agent or private keys, or disable --ssh-batch)")
	}
	return methods, nil
}

func agentSigners(sock string) func() ([]ssh.Signer, error) {
	return func() ([]ssh.Signer, error) {
		conn, err := net.Dial("unix", sock)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return agent.NewClient(conn).Signers()
	}
}

// loadKeys parses the default private keys found in dir. Missing and
// passphrase-protected keys are skipped.
func loadKeys(dir string, log logr.Logger) []ssh.Signer {
	var signers []ssh.Signer
	for _, name := range defaultKeyNames {
		pem, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			log.V(1).Info("skipping private key", "key", name, "error", err.Error())
			continue
		}
		signers = append(signers, signer)
	}
	return signers
}

// passwordPrompt asks for the password once and reuses it for both the
// password and keyboard-interactive methods.
type passwordPrompt struct {
	target Target

	once sync.Once
	pass string
	err  error
}

func (p *passwordPrompt) password() (string, error) {
	p.once.Do(func() {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			p.err = fmt.Errorf("cannot prompt for SSH password: stdin is not a terminal")
			return
		}
		fmt.Fprintf(os.Stderr, "%s@%s's password: ", p.target.User, p.target.Host)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			p.err = fmt.Errorf("password prompt failed: %w", err)
			return
		}
		p.pass = string(b)
	})
	return p.pass, p.err
}

// challenge answers every hidden keyboard-interactive question with the
// password and echoed ones with an empty string.
func (p *passwordPrompt) challenge(_, _ string, questions []string, echos []bool) ([]string, error) {
	pass, err := p.password()
	if err != nil {
		return nil, err
	}
	answers := make([]string, len(questions))
	for i := range questions {
		if i < len(echos) && echos[i] {
			continue
		}
		answers[i] = pass
	}
	return answers, nil
}
