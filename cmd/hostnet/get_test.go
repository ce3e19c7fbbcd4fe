package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/jbweber/hostnet/internal/config"
	"github.com/jbweber/hostnet/internal/netif"
	"github.com/jbweber/hostnet/internal/output"
)

func TestOutputOptions(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		cfgOutput     string
		cfgNoHeaders  bool
		wantFormat    output.Format
		wantNoHeaders bool
		wantErr       bool
	}{
		{name: "config defaults", cfgOutput: "yaml", cfgNoHeaders: true, wantFormat: output.FormatYAML, wantNoHeaders: true},
		{name: "flag overrides format", args: []string{"-o", "json"}, cfgOutput: "yaml", wantFormat: output.FormatJSON},
		{name: "flag clears no-headers", args: []string{"--no-headers=false"}, cfgOutput: "table", cfgNoHeaders: true, wantFormat: output.FormatTable},
		{name: "invalid format", args: []string{"-o", "xml"}, cfgOutput: "table", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			addOutputFlags(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}

			cfg := config.Default()
			cfg.Output = tt.cfgOutput
			cfg.NoHeaders = tt.cfgNoHeaders

			opts, err := outputOptions(cmd, cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("outputOptions() error = %v", err)
			}
			if opts.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", opts.Format, tt.wantFormat)
			}
			if opts.NoHeaders != tt.wantNoHeaders {
				t.Errorf("NoHeaders = %v, want %v", opts.NoHeaders, tt.wantNoHeaders)
			}
		})
	}
}

func TestListFlags(t *testing.T) {
	defer func() { listActive, listInactive = false, false }()

	tests := []struct {
		active, inactive bool
		want             netif.ListFlags
	}{
		{want: 0},
		{active: true, want: netif.ListActive},
		{inactive: true, want: netif.ListInactive},
	}

	for _, tt := range tests {
		listActive, listInactive = tt.active, tt.inactive
		if got := listFlags(); got != tt.want {
			t.Errorf("listFlags() with active=%v inactive=%v = %d, want %d", tt.active, tt.inactive, got, tt.want)
		}
	}
}
