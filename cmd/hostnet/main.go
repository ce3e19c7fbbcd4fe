package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jbweber/hostnet/internal/config"
	"github.com/jbweber/hostnet/internal/hostif"
	hnlibvirt "github.com/jbweber/hostnet/internal/libvirt"
	"github.com/jbweber/hostnet/internal/netif"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Global flags
var (
	configPath string
	socketPath string
	timeout    time.Duration
	sshTarget  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hostnet",
	Short: "Hostnet - Libvirt host network interface management tool",
	Long: `Hostnet is a CLI tool for managing libvirt host network interfaces
(ethernet, bridge, bond, vlan) with simple YAML configuration.

It talks to the local libvirt daemon over its unix socket, or to a
remote daemon through an SSH tunnel.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/hostnet/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "libvirt daemon socket path")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "connection timeout, e.g. 5s")
	rootCmd.PersistentFlags().StringVar(&sshTarget, "ssh", "", "reach a remote daemon over ssh (user@host[:port])")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(defineCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(undefineCmd)
	rootCmd.AddCommand(dumpXMLCmd)
	rootCmd.AddCommand(testConnCmd)
}

// loadConfig reads the config file and environment, then applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Override(config.Overrides{
		Socket:  socketPath,
		Timeout: timeout,
		SSH:     sshTarget,
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Test libvirt connection",
	Long:  `Test connectivity to the libvirt daemon and display version information.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println("Testing libvirt connection...")

		client, err := hostif.Dial(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to libvirt: %w", err)
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", closeErr)
			}
		}()

		fmt.Println("✓ Connected to libvirt daemon")

		if err := printDaemonInfo(os.Stdout, client.Libvirt()); err != nil {
			return err
		}

		fmt.Println("\nConnection test successful!")
		return nil
	},
}

// daemonInfo is the part of *libvirt.Libvirt that test-conn reports on.
type daemonInfo interface {
	netif.Connection
	ConnectGetLibVersion() (uint64, error)
	ConnectGetHostname() (string, error)
}

// printDaemonInfo writes the daemon version, hostname and active interface count.
func printDaemonInfo(w io.Writer, conn daemonInfo) error {
	version, err := conn.ConnectGetLibVersion()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	fmt.Fprintf(w, "✓ Libvirt version: %s\n", hnlibvirt.FormatVersion(version))

	hostname, err := conn.ConnectGetHostname()
	if err != nil {
		return fmt.Errorf("failed to get hostname: %w", err)
	}
	fmt.Fprintf(w, "✓ Hypervisor hostname: %s\n", hostname)

	count, err := netif.NumOfInterfaces(conn)
	if err != nil {
		return fmt.Errorf("failed to count interfaces: %w", err)
	}
	fmt.Fprintf(w, "✓ Active interfaces: %d\n", count)
	return nil
}
