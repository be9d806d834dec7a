package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pcbooth/internal/job"
)

func newJobsCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "jobs",
		Short:       "List registered jobs and their parameters",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			registered := job.Registered()

			if jsonOutput {
				type jsonField struct {
					Name    string `json:"name"`
					Type    string `json:"type"`
					Default any    `json:"default"`
				}
				type jsonJob struct {
					Name       string      `json:"name"`
					Parameters []jsonField `json:"parameters"`
				}
				payload := make([]jsonJob, 0, len(registered))
				for _, reg := range registered {
					fields := make([]jsonField, 0, len(reg.Schema))
					for _, field := range reg.Schema {
						fields = append(fields, jsonField{
							Name:    field.Name,
							Type:    field.Kind.String(),
							Default: field.Default,
						})
					}
					payload = append(payload, jsonJob{Name: reg.Name, Parameters: fields})
				}
				return writeJSON(cmd, payload)
			}

			var rows [][]string
			for _, reg := range registered {
				if len(reg.Schema) == 0 {
					rows = append(rows, []string{reg.Name, "", "", ""})
					continue
				}
				name := reg.Name
				for _, field := range reg.Schema {
					rows = append(rows, []string{
						name,
						field.Name,
						field.Kind.String(),
						formatDefault(field.Default),
					})
					name = ""
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Job", "Parameter", "Type", "Default"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func formatDefault(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
