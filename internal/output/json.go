package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jbweber/hostnet/api/v1alpha1"
)

// JSONFormatter formats resources as JSON.
type JSONFormatter struct{}

// FormatInterface formats a single HostInterface as JSON.
func (f *JSONFormatter) FormatInterface(hi *v1alpha1.HostInterface) (string, error) {
	v1alpha1.SetDefaultAPIVersion(hi)

	data, err := json.MarshalIndent(hi, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal interface to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatInterfaceList formats a list of HostInterfaces as a JSON array.
func (f *JSONFormatter) FormatInterfaceList(his []*v1alpha1.HostInterface) (string, error) {
	if len(his) == 0 {
		return "[]\n", nil
	}

	for _, hi := range his {
		v1alpha1.SetDefaultAPIVersion(hi)
	}

	data, err := json.MarshalIndent(his, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal interfaces to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatInterfaceListAsItems formats a list of HostInterfaces as a
// Kubernetes style list object:
//
//	{
//	  "apiVersion": "hostnet.cofront.xyz/v1alpha1",
//	  "kind": "HostInterfaceList",
//	  "items": [...]
//	}
func (f *JSONFormatter) FormatInterfaceListAsItems(his []*v1alpha1.HostInterface) (string, error) {
	for _, hi := range his {
		v1alpha1.SetDefaultAPIVersion(hi)
	}
	if his == nil {
		his = []*v1alpha1.HostInterface{}
	}

	wrapper := map[string]interface{}{
		"apiVersion": v1alpha1.APIVersion(),
		"kind":       v1alpha1.HostInterfaceKind + "List",
		"items":      his,
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(wrapper); err != nil {
		return "", fmt.Errorf("failed to marshal interface list to JSON: %w", err)
	}

	return buf.String(), nil
}
