package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"playbridge/internal/bridge"
)

func newMethodsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "methods",
		Short:       "List the host methods the bridge can dispatch",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := registeredSpecs()
			if done, err := ctx.writeStructured(cmd, specs); done {
				return err
			}
			rows := make([][]string, 0, len(specs))
			for _, s := range specs {
				rows = append(rows, []string{s.Name, strings.Join(s.Params, ", "), s.Response})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Method", "Parameters", "Response"}, rows, nil))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

type methodRow struct {
	Name     string   `json:"name"`
	Params   []string `json:"params"`
	Response string   `json:"response"`
}

func registeredSpecs() []methodRow {
	methods := bridge.Methods()
	rows := make([]methodRow, 0, len(methods))
	for _, m := range methods {
		spec, ok := bridge.Lookup(m)
		if !ok {
			continue
		}
		params := make([]string, 0, len(spec.Params))
		for _, p := range spec.Params {
			label := fmt.Sprintf("%s %s", p.Name, p.Type)
			if p.Optional {
				label += fmt.Sprintf(" = %v", p.Default)
			}
			params = append(params, label)
		}
		rows = append(rows, methodRow{Name: string(spec.Name), Params: params, Response: spec.Response})
	}
	return rows
}
