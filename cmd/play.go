package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamfin/streamfin/history"
	"github.com/streamfin/streamfin/key"
	"github.com/streamfin/streamfin/log"
	"github.com/streamfin/streamfin/media"
	"github.com/streamfin/streamfin/network"
	"github.com/streamfin/streamfin/playback"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Int64("wid", 0, "Native window handle to render into (0 detaches rendering)")
	playCmd.Flags().Float64("start", 0, "Start position in seconds, overriding saved progress")
	playCmd.Flags().String("title", "", "Display title for the session")
	playCmd.Flags().Bool("live", false, "Treat the stream as continuous (no end-of-item signaling)")
}

// playCmd drives a full playback session against a direct media URL. It exists for
// development and diagnostics; a real client embeds the proxy behind its UI layer.
var playCmd = &cobra.Command{
	Use:   "play <url>",
	Short: "Play a media URL through the native engine",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(runPlay(cmd, args[0]))
	},
}

func runPlay(cmd *cobra.Command, url string) error {
	item := &media.Item{
		ID:           url,
		Name:         lo.Must(cmd.Flags().GetString("title")),
		URL:          url,
		StartSeconds: lo.Must(cmd.Flags().GetFloat64("start")),
		Live:         lo.Must(cmd.Flags().GetBool("live")),
	}

	if item.StartSeconds == 0 && !item.Live {
		saved, err := history.Position(item.ID)
		if err != nil {
			log.Warnf("play: progress lookup failed: %v", err)
		} else {
			item.StartSeconds = saved
		}
	}

	server := network.NewServer(viper.GetString(key.ServerURL), viper.GetString(key.ServerToken))
	manager := newConsoleManager()

	proxy := playback.NewProxy(manager, server)
	defer proxy.Close()

	proxy.PlayItem(item)
	if err := proxy.AttachSurface(lo.Must(cmd.Flags().GetInt64("wid"))); err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case <-manager.ended:
		fmt.Println("playback finished")
	case err := <-manager.failed:
		return err
	case <-interrupt:
		fmt.Println("interrupted")
	}

	if !item.Live {
		if err := history.Save(item, manager.position()); err != nil {
			log.Warnf("play: persist progress: %v", err)
		}
	}

	return nil
}

// consoleManager is a minimal playback coordinator for CLI-driven sessions.
type consoleManager struct {
	mu      sync.Mutex
	seconds float64
	endOnce sync.Once
	ended   chan struct{}
	failed  chan error
}

func newConsoleManager() *consoleManager {
	return &consoleManager{
		ended:  make(chan struct{}),
		failed: make(chan error, 1),
	}
}

func (m *consoleManager) ReportSeconds(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seconds = seconds
}

func (m *consoleManager) RequestStatus(playing bool) {
	log.Debugf("play: engine reports playing=%t", playing)
}

func (m *consoleManager) ReportEnded() {
	m.endOnce.Do(func() { close(m.ended) })
}

func (m *consoleManager) ReportError(err error) {
	select {
	case m.failed <- err:
	default:
	}
}

func (m *consoleManager) position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seconds
}
