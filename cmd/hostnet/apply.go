package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/hostnet/internal/hostif"
)

var (
	applyFile  string
	removeFile string
)

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "filename", "f", "", "HostInterface resource file (required)")
	_ = applyCmd.MarkFlagRequired("filename")
	addOutputFlags(applyCmd)

	removeCmd.Flags().StringVarP(&removeFile, "filename", "f", "", "remove every interface named in this resource file")
}

var applyCmd = &cobra.Command{
	Use:   "apply -f <interfaces.yaml>",
	Short: "Define and start interfaces from a resource file",
	Long: `Define host interfaces from a YAML file of HostInterface resources.

For each resource this will:
- Generate the libvirt interface XML
- Define the interface, or redefine it if the definition changed
- Start it unless spec.start is false

Multiple resources may be given as a "---" separated stream. They are
applied in file order, so put bond members and VLAN parents first.

Example:
  hostnet apply -f br0.yaml`,
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

		fmt.Printf("Applying interfaces from: %s\n", applyFile)

		his, applyErr := hostif.Apply(context.Background(), cfg, applyFile)
		if len(his) > 0 {
			if err := printInterfaces(opts, his, false); err != nil {
				return err
			}
		}
		if applyErr != nil {
			return applyErr
		}

		fmt.Println("✓ Interfaces applied successfully!")
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [<name> | -f <interfaces.yaml>]",
	Short: "Stop and undefine interfaces",
	Long: `Remove host interfaces.

This will:
- Stop the interface if running
- Undefine the interface

With -f every interface named in the file is removed in reverse order,
and interfaces that are already gone are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 1) == (removeFile != "") {
			return fmt.Errorf("specify either an interface name or -f <file>")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		if removeFile != "" {
			fmt.Printf("Removing interfaces from: %s\n", removeFile)
			if err := hostif.RemoveFile(ctx, cfg, removeFile); err != nil {
				return fmt.Errorf("failed to remove interfaces: %w", err)
			}
			fmt.Println("✓ Interfaces removed successfully!")
			return nil
		}

		name := args[0]
		fmt.Printf("Removing interface: %s\n", name)
		if err := hostif.Remove(ctx, cfg, name); err != nil {
			return fmt.Errorf("failed to remove interface: %w", err)
		}
		fmt.Printf("✓ Interface %s removed successfully!\n", name)
		return nil
	},
}
