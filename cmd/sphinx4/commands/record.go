package commands

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/presentformyfriends/sphinx4/pkg/audio/capture"
	"github.com/presentformyfriends/sphinx4/pkg/audio/portaudio"
	"github.com/presentformyfriends/sphinx4/pkg/cli"
	"github.com/presentformyfriends/sphinx4/pkg/store"
)

var recordDuration time.Duration

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture audio into the archive",
	Long: `Capture audio from the configured input device into the archive.

Recording runs until --duration elapses or Ctrl-C is pressed. The finished
recording is stored in the local database; use 'recordings export' to turn
it into a WAV file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		defer portaudio.Terminate()

		mic := capture.New(inputDevice(), capture.Config{
			Format:    globalConfig.Format(),
			FrameSize: globalConfig.FrameSize,
			Logger:    logger,
		})
		defer mic.Close()

		if err := mic.Start(); err != nil {
			return err
		}
		u := mic.Utterance()
		fmt.Println(styles.Title.Render("● recording"),
			styles.Dim.Render(fmt.Sprintf("(%s, stop with Ctrl-C)", globalConfig.Format())))

		var timeout <-chan time.Time
		if recordDuration > 0 {
			timeout = time.After(recordDuration)
		}
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		defer signal.Stop(sig)
		go func() {
			select {
			case <-timeout:
			case <-sig:
			}
			mic.Stop()
		}()

		// Drain the capture side until the recording ends.
		for {
			a, err := mic.Next()
			if err != nil {
				return err
			}
			if a == nil || a.Signal == capture.SignalUtteranceEnd {
				break
			}
		}

		rec := store.FromUtterance(u)
		if err := s.Put(cmd.Context(), rec, u.Bytes()); err != nil {
			return err
		}

		fmt.Println(styles.Label.Render("saved"), rec.ID,
			styles.Dim.Render(fmt.Sprintf("(%s, %s)",
				cli.FormatDuration(rec.Duration), cli.FormatBytes(rec.Bytes))))
		return nil
	},
}

func init() {
	recordCmd.Flags().DurationVar(&recordDuration, "duration", 0, "stop after this long (default: run until Ctrl-C)")
}
