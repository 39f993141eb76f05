package ctl

import (
	"encoding/json"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"modelops/internal/registry"
	"modelops/pkg/types"
)

func buildVersionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "versions",
		Aliases: []string{"list"},
		Short:   "List registered versions with their aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New(app.cfg.RegistryURI, app.log)
			versions, err := reg.ListVersions(cmd.Context(), app.cfg.ModelName)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return json.NewEncoder(app.out).Encode(types.VersionsResponse{
					ModelName: app.cfg.ModelName,
					Versions:  versions,
				})
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(app.out)
			tw.AppendHeader(table.Row{"Version", "Run ID", "Aliases", "Status"})
			for _, v := range versions {
				aliases := strings.Join(v.Aliases, ", ")
				if aliases == "" {
					aliases = "-"
				}
				tw.AppendRow(table.Row{v.Version, v.RunID, aliases, string(v.Status)})
			}
			tw.Render()
			return nil
		},
	}
}
