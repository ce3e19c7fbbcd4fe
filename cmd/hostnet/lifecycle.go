package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/hostnet/internal/hostif"
)

var dumpInactive bool

func init() {
	dumpXMLCmd.Flags().BoolVar(&dumpInactive, "inactive", false, "show the persistent definition instead of the running configuration")
}

var defineCmd = &cobra.Command{
	Use:   "define <interface.xml>",
	Short: "Define an interface from libvirt XML",
	Long: `Define a host interface from a raw libvirt interface XML file.

The interface is not started. Use "hostnet start" afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		name, err := hostif.Define(context.Background(), cfg, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("✓ Interface %s defined from %s\n", name, args[0])
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start <name|mac|uuid>",
	Short: "Start a defined interface",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := hostif.Start(context.Background(), cfg, args[0]); err != nil {
			return err
		}

		fmt.Printf("✓ Interface %s started\n", args[0])
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <name|mac|uuid>",
	Short: "Stop a running interface",
	Long:  `Stop a running host interface. The definition is kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := hostif.Stop(context.Background(), cfg, args[0]); err != nil {
			return err
		}

		fmt.Printf("✓ Interface %s stopped\n", args[0])
		return nil
	},
}

var undefineCmd = &cobra.Command{
	Use:   "undefine <name|mac|uuid>",
	Short: "Remove an interface definition",
	Long: `Remove the persistent definition of a host interface.

A running interface keeps running until it is stopped. Use
"hostnet remove" to stop and undefine in one step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := hostif.Undefine(context.Background(), cfg, args[0]); err != nil {
			return err
		}

		fmt.Printf("✓ Interface %s undefined\n", args[0])
		return nil
	},
}

var dumpXMLCmd = &cobra.Command{
	Use:   "dumpxml <name|mac|uuid>",
	Short: "Print the libvirt XML of an interface",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		xml, err := hostif.DumpXML(context.Background(), cfg, args[0], dumpInactive)
		if err != nil {
			return err
		}

		fmt.Println(xml)
		return nil
	},
}
