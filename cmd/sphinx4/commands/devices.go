package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/presentformyfriends/sphinx4/pkg/audio/portaudio"
	"github.com/presentformyfriends/sphinx4/pkg/cli"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	Long: `List the capture-capable audio devices PortAudio can see.

The device marked with * is the system default input. Pass a device's name
to --device (or set it in the config) to record from it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer portaudio.Terminate()
		devices, err := portaudio.InputDevices()
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println(styles.Dim.Render("no input devices found"))
			return nil
		}

		if outputJSON {
			return cli.Output(os.Stdout, devices, cli.FormatJSON)
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, styles.Label.Render("  NAME\tHOST API\tCHANNELS\tSAMPLE RATE"))
		for _, d := range devices {
			marker := " "
			if d.IsDefaultInput {
				marker = styles.Marker.Render("*")
			}
			fmt.Fprintf(w, "%s %s\t%s\t%d\t%.0f Hz\n",
				marker, d.Name, d.HostAPI, d.MaxInputChannels, d.DefaultSampleRate)
		}
		return w.Flush()
	},
}
