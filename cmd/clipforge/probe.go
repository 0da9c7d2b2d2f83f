package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/timecode"
)

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Show media metadata for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mi, err := probe.Probe(cmd.Context(), a.cfg.FFprobePath, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Format:    %s\n", mi.Format)
			fmt.Printf("Duration:  %s (%.3f s)\n", timecode.FromSeconds(mi.Duration, true), mi.Duration)
			if mi.HasVideo() {
				fmt.Printf("Video:     %s, %dx%d @ %.3f fps\n", mi.Codec, mi.Width, mi.Height, mi.FPS)
			} else {
				fmt.Println("Video:     none")
			}
			if mi.BitRate > 0 {
				fmt.Printf("Bit rate:  %d kb/s\n", mi.BitRate/1000)
			}
			for i, t := range mi.AudioTracks {
				fmt.Printf("Audio #%d:  %s, %d Hz, %d ch\n", i+1, t.Codec, t.SampleRate, t.Channels)
			}
			return nil
		},
	}
}
