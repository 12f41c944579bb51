package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/presentformyfriends/sphinx4/pkg/audio/capture"
	"github.com/presentformyfriends/sphinx4/pkg/audio/portaudio"
	"github.com/presentformyfriends/sphinx4/pkg/feed"
)

var (
	streamAddr string
	streamPath string
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Serve live capture audio over WebSocket",
	Long: `Capture from the configured input device and serve the audio live over
WebSocket. Each client receives a JSON format header on connect, then raw
PCM frames as binary messages.

Runs until Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer portaudio.Terminate()

		format := globalConfig.Format()
		mic := capture.New(inputDevice(), capture.Config{
			Format:    format,
			FrameSize: globalConfig.FrameSize,
			Logger:    logger,
		})
		defer mic.Close()

		if err := mic.Start(); err != nil {
			return err
		}

		hub := feed.NewHub(format, logger)
		defer hub.Close()

		mux := http.NewServeMux()
		mux.Handle(streamPath, hub)
		srv := &http.Server{Addr: streamAddr, Handler: mux}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		fmt.Println(styles.Title.Render("● streaming"),
			styles.Dim.Render(fmt.Sprintf("ws://%s%s (%s)", displayAddr(streamAddr), streamPath, format)))

		// Pump capture records into the hub.
		go func() {
			for {
				a, err := mic.Next()
				if err != nil {
					logger.Error("read capture record", "error", err)
					continue
				}
				if a == nil || a.Signal != capture.SignalContent {
					if a == nil {
						return
					}
					continue
				}
				frame, err := format.EncodeSamples(a.Samples)
				if err != nil {
					logger.Error("encode frame", "error", err)
					continue
				}
				hub.Broadcast(frame)
			}
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		defer signal.Stop(sig)
		select {
		case err := <-errCh:
			return err
		case <-sig:
		}

		mic.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// displayAddr turns a listen address like ":8333" into something dialable.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func init() {
	streamCmd.Flags().StringVar(&streamAddr, "addr", ":8333", "listen address")
	streamCmd.Flags().StringVar(&streamPath, "path", "/feed", "websocket endpoint path")
}
