package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/config"
)

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available encoding profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := make([]string, 0, len(a.cfg.Profiles))
			for name := range a.cfg.Profiles {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCODEC\tPRESET\tCRF\tAUDIO\tBITRATE")
			for _, name := range names {
				p := a.cfg.Profiles[name]
				marker := ""
				if name == config.DefaultProfileName {
					marker = " (default)"
				}
				fmt.Fprintf(w, "%s%s\t%s\t%s\t%d\t%s\t%s\n",
					name, marker, p.Codec, p.Preset, p.CRF, p.AudioCodec, p.AudioBitrate)
			}
			return w.Flush()
		},
	}
}
