package libvirt

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/digitalocean/go-libvirt"
	"github.com/digitalocean/go-libvirt/socket/dialers"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const defaultSSHPort = "22"

// SSHOptions describes a tunnel to a remote daemon's unix socket.
type SSHOptions struct {
	// Target is user@host[:port].
	Target string
	// IdentityFile is the private key used to authenticate.
	IdentityFile string
	// KnownHostsFile verifies the remote host key.
	KnownHostsFile string
	// SocketPath is the daemon socket on the remote host.
	SocketPath string
	// Timeout bounds the SSH handshake.
	Timeout time.Duration
}

// ParseSSHTarget splits user@host[:port] into its user and a dialable address.
func ParseSSHTarget(target string) (user, addr string, err error) {
	user, host, ok := strings.Cut(target, "@")
	if !ok || user == "" || host == "" {
		return "", "", fmt.Errorf("ssh target %q must be user@host[:port]", target)
	}

	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		// No port given
		if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
			host = "[" + host + "]"
		}
		host = host + ":" + defaultSSHPort
		if _, _, splitErr = net.SplitHostPort(host); splitErr != nil {
			return "", "", fmt.Errorf("ssh target %q has an invalid host: %w", target, splitErr)
		}
	}

	return user, host, nil
}

// sshClientConfig builds the client configuration from key material on disk.
func sshClientConfig(user string, opts SSHOptions) (*ssh.ClientConfig, error) {
	key, err := os.ReadFile(opts.IdentityFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file %s: %w", opts.IdentityFile, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse identity file %s: %w", opts.IdentityFile, err)
	}

	hostKeys, err := knownhosts.New(opts.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts %s: %w", opts.KnownHostsFile, err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeys,
		Timeout:         timeout,
	}, nil
}

// ConnectSSH connects to a remote daemon by forwarding its unix socket
// over SSH. Closing the Client also closes the tunnel.
func ConnectSSH(opts SSHOptions) (*Client, error) {
	return ConnectSSHWithContext(context.Background(), opts)
}

// ConnectSSHWithContext is ConnectSSH with cancellation. Cancelling ctx aborts
// the TCP dial and the SSH handshake.
func ConnectSSHWithContext(ctx context.Context, opts SSHOptions) (*Client, error) {
	user, addr, err := ParseSSHTarget(opts.Target)
	if err != nil {
		return nil, err
	}

	cfg, err := sshClientConfig(user, opts)
	if err != nil {
		return nil, err
	}

	socketPath := opts.SocketPath
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("connection cancelled: %w", err)
	}

	dialer := net.Dialer{Timeout: cfg.Timeout}
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s over ssh: %w", addr, err)
	}

	// The handshake has no context of its own; closing the socket unblocks it.
	stop := context.AfterFunc(ctx, func() { _ = tcpConn.Close() })
	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, cfg)
	if !stop() {
		if err == nil {
			_ = sshConn.Close()
		}
		return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
	}
	if err != nil {
		_ = tcpConn.Close()
		return nil, fmt.Errorf("failed to connect to %s over ssh: %w", addr, err)
	}
	tunnel := ssh.NewClient(sshConn, chans, reqs)

	conn, err := tunnel.Dial("unix", socketPath)
	if err != nil {
		_ = tunnel.Close()
		return nil, fmt.Errorf("failed to open %s on %s: %w", socketPath, addr, err)
	}

	l := libvirt.NewWithDialer(dialers.NewAlreadyConnected(conn))
	if err := l.Connect(); err != nil {
		_ = conn.Close()
		_ = tunnel.Close()
		return nil, fmt.Errorf("failed to connect to libvirt at %s:%s: %w", addr, socketPath, err)
	}

	return &Client{libvirt: l, tunnel: tunnel}, nil
}
