package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML encodes v as YAML. Values go through JSON first so field names
// match the wire format.
func writeYAML(cmd *cobra.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// writeStructured prints v in the requested machine format and reports
// whether it did.
func (c *commandContext) writeStructured(cmd *cobra.Command, v any) (bool, error) {
	switch {
	case c.jsonOutput():
		return true, writeJSON(cmd, v)
	case c.yamlOutput():
		return true, writeYAML(cmd, v)
	default:
		return false, nil
	}
}
