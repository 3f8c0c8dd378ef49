package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func checkOutputFormat(format string) error {
	switch format {
	case formatYAML, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s or %s)", format, formatYAML, formatJSON)
}

// render prints v to stdout in the selected format, with the field names of the JSON API.
func render(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()

	if outputFormat == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	// JSON is YAML, so decoding into a node keeps key order and json tag names
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	plain(&doc)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}

// plain drops the flow and quoting styles inherited from the JSON text.
func plain(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plain(c)
	}
}
