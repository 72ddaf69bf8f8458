package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/bootstrap/negotiate"
)

func newDevicesCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List physical devices and whether each could be selected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, *f)
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}

			s, err := openSession(cfg, logger, sdl.WINDOW_HIDDEN)
			if err != nil {
				return err
			}
			defer s.Close()

			verdicts, err := negotiate.SurveyPhysicalDevices(s.instance, s.instance, s.surface, negotiate.SelectOptions{
				RequiredExtensions: opts.DeviceExtensions,
				Predicates:         opts.DevicePredicates,
				RequiredFeatures:   opts.EnabledFeatures,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tNAME\tTYPE\tPIPELINE CACHE\tVERDICT")
			for _, v := range verdicts {
				props := v.Selection.Properties
				verdict := "suitable"
				if !v.Suitable() {
					verdict = v.Reason.Error()
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", v.Selection.Index, props.Name, props.Type, props.PipelineCacheUUID, verdict)
			}
			return w.Flush()
		},
	}
}
