package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbweber/hostnet/api/v1alpha1"
	"github.com/jbweber/hostnet/internal/config"
	"github.com/jbweber/hostnet/internal/hostif"
	"github.com/jbweber/hostnet/internal/loader"
	"github.com/jbweber/hostnet/internal/netif"
	"github.com/jbweber/hostnet/internal/output"
)

var (
	outputFormat string
	noHeaders    bool

	listActive   bool
	listInactive bool

	exportPath string
)

const outputHelp = `
Output formats:
  -o table  Human-readable table (default)
  -o yaml   Full YAML resource definition
  -o json   Full JSON resource definition`

func init() {
	addOutputFlags(listCmd)
	listCmd.Flags().BoolVar(&listActive, "active", false, "list only running interfaces")
	listCmd.Flags().BoolVar(&listInactive, "inactive", false, "list only stopped interfaces")
	listCmd.MarkFlagsMutuallyExclusive("active", "inactive")

	addOutputFlags(getCmd)
	getCmd.Flags().StringVar(&exportPath, "export", "", "also save the resource as YAML to this file")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format: table, yaml or json")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "omit table headers")
}

// outputOptions merges the output flags over the configured defaults.
func outputOptions(cmd *cobra.Command, cfg *config.Config) (output.Options, error) {
	opts := output.Options{
		Format:    output.Format(cfg.Output),
		NoHeaders: cfg.NoHeaders,
	}
	if cmd.Flags().Changed("output") {
		if err := output.ValidateFormat(outputFormat); err != nil {
			return output.Options{}, err
		}
		opts.Format = output.Format(outputFormat)
	}
	if cmd.Flags().Changed("no-headers") {
		opts.NoHeaders = noHeaders
	}
	return opts, nil
}

// printInterfaces prints his. With listObject, JSON output is wrapped in a
// HostInterfaceList object instead of a bare array.
func printInterfaces(opts output.Options, his []*v1alpha1.HostInterface, listObject bool) error {
	formatter, err := output.NewFormatter(opts)
	if err != nil {
		return err
	}

	var result string
	if jf, ok := formatter.(*output.JSONFormatter); ok && listObject {
		result, err = jf.FormatInterfaceListAsItems(his)
	} else {
		result, err = formatter.FormatInterfaceList(his)
	}
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Print(result)
	return nil
}

func listFlags() netif.ListFlags {
	switch {
	case listActive:
		return netif.ListActive
	case listInactive:
		return netif.ListInactive
	default:
		return 0
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List host interfaces",
	Long: `List host interfaces known to libvirt.

Shows interface name, type, phase, state, MAC address and age.
` + outputHelp,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts, err := outputOptions(cmd, cfg)
		if err != nil {
			return err
		}

		his, err := hostif.List(context.Background(), cfg, listFlags())
		if err != nil {
			return fmt.Errorf("failed to list interfaces: %w", err)
		}

		return printInterfaces(opts, his, true)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <name|mac|uuid>",
	Short: "Get details about an interface",
	Long: `Get detailed information about a specific host interface.

Displays the HostInterface resource read back from libvirt, including
spec and status.
` + outputHelp,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts, err := outputOptions(cmd, cfg)
		if err != nil {
			return err
		}

		hi, err := hostif.Get(context.Background(), cfg, args[0])
		if err != nil {
			return fmt.Errorf("failed to get interface: %w", err)
		}

		formatter, err := output.NewFormatter(opts)
		if err != nil {
			return err
		}

		result, err := formatter.FormatInterface(hi)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)

		if exportPath != "" {
			if err := loader.SaveToFile(hi, exportPath); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Interface %s saved to %s\n", hi.Name, exportPath)
		}
		return nil
	},
}
