package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jbweber/hostnet/api/v1alpha1"
)

// TableFormatter formats resources as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatInterface formats a single HostInterface as a table row.
func (f *TableFormatter) FormatInterface(hi *v1alpha1.HostInterface) (string, error) {
	return f.FormatInterfaceList([]*v1alpha1.HostInterface{hi})
}

// FormatInterfaceList formats a list of HostInterfaces as a table.
func (f *TableFormatter) FormatInterfaceList(his []*v1alpha1.HostInterface) (string, error) {
	if len(his) == 0 {
		return "No interfaces found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tTYPE\tPHASE\tACTIVE\tMAC\tAGE")
	}

	for _, hi := range his {
		typ := string(hi.Spec.Type)
		if typ == "" {
			typ = "-"
		}
		phase := string(hi.Status.Phase)
		if phase == "" {
			phase = "-"
		}

		active := "no"
		if hi.Status.Active {
			active = "yes"
		}

		// Prefer what libvirt reports over the requested address
		mac := hi.Status.MAC
		if mac == "" {
			mac = hi.Spec.MAC
		}
		if mac == "" {
			mac = "-"
		}

		age := "-"
		if !hi.CreationTimestamp.IsZero() {
			age = formatAge(time.Since(hi.CreationTimestamp.Time))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			hi.Name, typ, phase, active, mac, age)
	}

	_ = w.Flush()
	return buf.String(), nil
}

// formatAge formats a duration as a human-readable age string.
// Examples: "5s", "2m", "3h", "4d", "2w", "1y"
func formatAge(d time.Duration) string {
	if d < 0 {
		return "unknown"
	}

	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}

	weeks := days / 7
	if weeks < 8 {
		return fmt.Sprintf("%dw", weeks)
	}

	years := days / 365
	if years > 0 {
		return fmt.Sprintf("%dy", years)
	}

	return fmt.Sprintf("%dd", days)
}
