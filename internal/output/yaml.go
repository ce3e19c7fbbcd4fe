package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/hostnet/api/v1alpha1"
)

// YAMLFormatter formats resources as YAML.
type YAMLFormatter struct{}

// FormatInterface formats a single HostInterface as YAML.
func (f *YAMLFormatter) FormatInterface(hi *v1alpha1.HostInterface) (string, error) {
	v1alpha1.SetDefaultAPIVersion(hi)

	data, err := yaml.Marshal(hi)
	if err != nil {
		return "", fmt.Errorf("failed to marshal interface to YAML: %w", err)
	}

	return string(data), nil
}

// FormatInterfaceList formats a list of HostInterfaces as a YAML stream.
// The output can be fed back to "hostnet apply".
func (f *YAMLFormatter) FormatInterfaceList(his []*v1alpha1.HostInterface) (string, error) {
	if len(his) == 0 {
		return "", nil
	}

	var buf bytes.Buffer

	for i, hi := range his {
		v1alpha1.SetDefaultAPIVersion(hi)

		data, err := yaml.Marshal(hi)
		if err != nil {
			return "", fmt.Errorf("failed to marshal interface %s to YAML: %w", hi.Name, err)
		}

		if i > 0 {
			buf.WriteString("---\n")
		}

		buf.Write(data)
	}

	return buf.String(), nil
}
