// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"voicegrade/cmd"
	"voicegrade/internal/analysis"
	"voicegrade/internal/capture"
	"voicegrade/internal/config"
	"voicegrade/internal/export"
	"voicegrade/internal/logging"
	"voicegrade/internal/session"
	"voicegrade/internal/transport"
	"voicegrade/internal/transport/udp"
	"voicegrade/internal/viz"
)

func main() {
	options, err := cmd.ParseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if options == nil || options.Command == "" {
		// Help or version output already handled by the CLI.
		return
	}

	cfg, err := config.Load(options.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if options.Verbose {
		cfg.LogLevel = "debug"
	}
	log := logging.New(cfg.LogLevel)

	// Command line flags win over the config file, including flags
	// that explicitly repeat a default value.
	if options.DeviceIDSet {
		cfg.Audio.DeviceID = options.DeviceID
	}
	if options.SampleRateSet {
		cfg.Audio.SampleRate = options.SampleRate
	}
	if options.WSAddr != "" {
		cfg.Transport.WebSocketAddr = options.WSAddr
	}
	if options.UDPTarget != "" {
		cfg.Transport.UDPTarget = options.UDPTarget
	}

	switch options.Command {
	case "list":
		err = runList()
	case "analyze":
		err = runAnalyze(options, log)
	case "record":
		err = runRecord(cfg, options, log)
	default:
		err = fmt.Errorf("unknown command %q", options.Command)
	}
	if err != nil {
		log.Error().Err(err).Msg(options.Command + " failed")
		os.Exit(1)
	}
}

// runList prints all input-capable devices.
func runList() error {
	if err := capture.Initialize(); err != nil {
		return err
	}
	defer capture.Terminate()

	devices, err := capture.ListDevices()
	if err != nil {
		return err
	}

	fmt.Printf("\nAvailable capture devices\n\n")
	for _, d := range devices {
		fmt.Printf("[%d] %s\n", d.ID, d.Name)
		fmt.Printf("    Input channels: %d, default sample rate: %.0f Hz\n",
			d.MaxInputChannels, d.DefaultSampleRate)
		fmt.Printf("    Latency: low=%.2fms, high=%.2fms\n\n", d.LowLatencyMs, d.HighLatencyMs)
	}
	return nil
}

// runAnalyze is the upload path: raw bytes plus a declared format go
// straight into the decode and scoring pipeline.
func runAnalyze(options *cmd.Options, log zerolog.Logger) error {
	data, err := os.ReadFile(options.InputFile)
	if err != nil {
		return err
	}

	format := options.Format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(options.InputFile), ".")
	}

	clip, err := analysis.Decode(data, format)
	if err != nil {
		return err
	}
	result, score := analysis.Analyze(clip)

	printScore(result, score)
	return exportResult(options.ExportPath, result, score)
}

// runRecord drives one capture session from acquisition to score.
func runRecord(cfg *config.Config, options *cmd.Options, log zerolog.Logger) error {
	if err := capture.Initialize(); err != nil {
		return err
	}
	defer capture.Terminate()

	sink, err := buildFrameSink(cfg, log)
	if err != nil {
		return err
	}
	defer sink.Close()

	provider := capture.NewPortAudioProvider(cfg, log)
	captureCfg := capture.Config{
		EchoCancellation: cfg.Audio.EchoCancellation && !options.NoEcho,
		NoiseSuppression: cfg.Audio.NoiseSuppression && !options.NoNoise,
		AutoGainControl:  cfg.Audio.AutoGainControl && !options.NoAGC,
	}

	sess := session.New(provider, captureCfg, sink, cfg.Viz.FrameInterval, log)

	// Surface status messages and stop waiting early on failure.
	failed := make(chan struct{})
	go func() {
		for status := range sess.Statuses() {
			fmt.Printf("[%s] %s\n", status.State, status.Message)
			if status.State == session.StateFailed {
				close(failed)
				return
			}
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var timeout <-chan time.Time
	if options.Duration > 0 {
		timeout = time.After(options.Duration)
	}

	sess.Start()

	select {
	case <-interrupt:
	case <-timeout:
	case <-failed:
	}

	if err := sess.Stop(); err != nil {
		saveRawClip(sess, options.SavePath, log)
		return err
	}
	if sess.State() != session.StateComplete {
		if err := sess.Err(); err != nil {
			return err
		}
		return fmt.Errorf("session ended in state %s", sess.State())
	}

	result, score, err := sess.Result()
	if err != nil {
		return err
	}
	printScore(result, score)

	if options.SavePath != "" {
		if err := analysis.SaveWAV(sess.Clip(), options.SavePath); err != nil {
			return err
		}
		fmt.Printf("\nClip saved to: %s\n", options.SavePath)
	}
	return exportResult(options.ExportPath, result, score)
}

// buildFrameSink assembles the visualization frame consumers from the
// transport configuration. A debug log sink is always attached.
func buildFrameSink(cfg *config.Config, log zerolog.Logger) (viz.FrameSink, error) {
	sinks := []viz.FrameSink{transport.NewLogSink(log, 60)}

	if addr := cfg.Transport.WebSocketAddr; addr != "" {
		sinks = append(sinks, transport.NewWebSocketSink(addr, log))
	}
	if target := cfg.Transport.UDPTarget; target != "" {
		sender, err := udp.NewSender(target)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, udp.NewFrameSink(sender))
	}
	return transport.NewFanout(sinks...), nil
}

// saveRawClip writes the undecoded clip bytes when analysis failed,
// so a take is never lost to a decoder problem.
func saveRawClip(sess *session.Session, path string, log zerolog.Logger) {
	if path == "" {
		return
	}
	raw, format := sess.RawClip()
	if len(raw) == 0 {
		return
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		log.Warn().Err(err).Msg("failed to save raw clip")
		return
	}
	log.Info().Str("path", path).Str("format", format).Msg("saved raw undecoded clip")
}

func printScore(result analysis.Result, score analysis.Score) {
	pitch := "undetected"
	if result.FundamentalFreqHz > 0 {
		pitch = fmt.Sprintf("%.1f Hz", result.FundamentalFreqHz)
	}

	fmt.Printf("\nScore: %d/100  grade %s\n", score.Total, score.Grade)
	fmt.Printf("  volume: %d  duration: %d  clarity: %d  pitch: %d\n",
		score.Breakdown.Volume, score.Breakdown.Duration,
		score.Breakdown.Clarity, score.Breakdown.Pitch)
	fmt.Printf("  %.2fs @ %d Hz, rms %.4f, peak %.3f, fundamental %s\n",
		result.DurationSeconds, result.SampleRate, result.RMS, result.Peak, pitch)
}

func exportResult(path string, result analysis.Result, score analysis.Score) error {
	switch path {
	case "":
		return nil
	case "-":
		return export.Write(os.Stdout, result, score, time.Now())
	default:
		if err := export.WriteFile(path, result, score, time.Now()); err != nil {
			return err
		}
		fmt.Printf("Exported analysis to: %s\n", path)
		return nil
	}
}
