package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Config configures the SSH connection of a remote search.
type Config struct {
	Target  Target
	Batch   bool          // never prompt; fail on unknown host keys
	Timeout time.Duration // connect and handshake timeout
}

// sftpClient is the part of *sftp.Client the source uses.
type sftpClient interface {
	ReadDir(string) ([]os.FileInfo, error)
	Stat(string) (os.FileInfo, error)
	RealPath(string) (string, error)
	OpenReader(string) (io.ReadCloser, error)
}

// sftpConn adapts *sftp.Client to sftpClient.
type sftpConn struct {
	*sftp.Client
}

func (c sftpConn) OpenReader(path string) (io.ReadCloser, error) {
	return c.Client.Open(path)
}

var dialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

var sshNewClientConn = func(conn net.Conn, addr string, config *ssh.ClientConfig) (ssh.Conn, <-chan ssh.NewChannel, <-chan *ssh.Request, error) {
	return ssh.NewClientConn(conn, addr, config)
}

// Connect opens an SFTP session to cfg.Target. Close the returned source
// when done.
func Connect(ctx context.Context, cfg Config, log logr.Logger) (*SFTPSource, error) {
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	known, err := userKnownHosts()
	if err != nil {
		return nil, err
	}
	hostCB, err := newHostVerifier(cfg.Target, known, cfg.Batch).Callback()
	if err != nil {
		return nil, err
	}
	auth, err := authMethods(cfg.Target, cfg.Batch, log)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sshClient, err := connectSSH(dialCtx, cfg.Target.Addr(), &ssh.ClientConfig{
		User:            cfg.Target.User,
		Auth:            auth,
		HostKeyCallback: hostCB,
		Timeout:         timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("SSH connection to %s failed: %w", cfg.Target, err)
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, fmt.Errorf("cannot start SFTP subsystem: %w", err)
	}
	log.V(1).Info("connected", "target", cfg.Target.String())

	return &SFTPSource{
		client: sftpConn{client},
		closer: &remoteCloser{ssh: sshClient, sftp: client},
		Log:    log,
	}, nil
}

func connectSSH(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	conn, err := dialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// Closing the connection is the only way to abort a handshake in progress.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	c, chans, reqs, err := sshNewClientConn(conn, addr, config)
	close(done)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

type remoteCloser struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (c *remoteCloser) Close() error {
	err := c.sftp.Close()
	if sshErr := c.ssh.Close(); err == nil {
		err = sshErr
	}
	return err
}
