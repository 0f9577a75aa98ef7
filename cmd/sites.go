package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fieldlog/geoverify/internal/registry"
)

var sitesCmd = &cobra.Command{
	Use:   "sites [file]",
	Short: "Validate and list a site coordinates file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Verify.SitesPath
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return eris.New("sites: no site file; pass a path or set verify.sites_path")
		}

		reg, err := registry.Load(path)
		if err != nil {
			return eris.Wrap(err, "sites: load")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SITE\tLATITUDE\tLONGITUDE")
		for _, site := range reg.Sites() {
			fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", site.Name, site.Latitude, site.Longitude)
		}
		if err := w.Flush(); err != nil {
			return eris.Wrap(err, "sites: write listing")
		}

		fmt.Printf("\n%d sites\n", reg.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
