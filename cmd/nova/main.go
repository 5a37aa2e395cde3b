// Nova — a voice-activated virtual assistant.
//
// Usage:
//
//	nova [--voice] [--verbose] [--quiet]
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/novassist/nova/internal/assistant"
	"github.com/novassist/nova/internal/display"
	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/handlers"
	"github.com/novassist/nova/internal/listen"
	"github.com/novassist/nova/internal/logger"
	"github.com/novassist/nova/internal/respond"
	"github.com/novassist/nova/internal/router"
	"github.com/novassist/nova/internal/search"
	"github.com/novassist/nova/internal/speech"
	"github.com/novassist/nova/internal/wake"
)

func main() {
	_ = godotenv.Load()

	verbose := pflag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := pflag.Bool("quiet", false, "disable all logging")
	logFile := pflag.String("log-file", ".nova-logs/nova.log", "file to write logs to (use \"stderr\" to log to console)")
	noSpeech := pflag.Bool("no-speech", false, "disable text-to-speech even if Azure keys are set")
	voiceName := pflag.String("voice", speech.DefaultVoice, "Azure TTS voice name")
	wakeWord := pflag.String("wake-word", wake.DefaultWakeWord, "wake word that activates the assistant")
	mic := pflag.Bool("mic", false, "enable voice input via local Whisper STT")
	whisperBin := pflag.String("whisper-bin", "whisper-cli", "path to the whisper-cpp CLI binary")
	whisperModel := pflag.String("whisper-model", "bin/ggml-small.bin", "path to the Whisper GGML model file")
	captureSecs := pflag.Int("capture-secs", 5, "seconds per voice capture window")
	armed := pflag.Bool("allow-power-actions", false, "actually execute shutdown/restart/logout commands")
	pflag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package (used by third-party libs like
	// the whisper transcriber) to the same output so it doesn't spam
	// the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	ui := display.NewUI()
	det := wake.New(wake.WithWakeWord(*wakeWord))
	run := handlers.ExecRunner{}

	// stopCh closes when the user says exit/quit; the shutdown
	// goroutine below sequences the teardown so the goodbye line is
	// still spoken.
	stopCh := make(chan struct{})
	var stopOnce sync.Once
	requestStop := func() { stopOnce.Do(func() { close(stopCh) }) }

	rt := router.New(log, det,
		router.WithHandler(handlers.NewAppHandler(run, log)),
		router.WithHandler(handlers.NewSystemHandler(run, log, handlers.WithArmed(*armed))),
		router.WithHandler(handlers.NewNetworkHandler(run, log)),
		router.WithHandler(handlers.NewUtilityHandler(run, log)),
		router.WithSearch(search.New(log)),
		router.WithExitFunc(requestStop),
	)

	// Speech output: Azure TTS when credentials are present, silent
	// otherwise. The worker runs either way so responses still show in
	// the UI through the observer.
	var synth = newSynth(log, *noSpeech, *voiceName)
	var player *speech.Player
	if _, isNoop := synth.(*speech.NoOp); !isNoop {
		p, err := speech.NewPlayer(log)
		if err != nil {
			log.Error("audio player init failed, speech disabled: %v", err)
			synth = speech.NewNoOp(log)
		} else {
			player = p
		}
	}
	worker := speech.NewWorker(synth, player, log,
		speech.WithObserver(ui),
		speech.WithVoiceName(*voiceName),
	)
	worker.Start(ctx)
	worker.Prewarm(ctx, respond.WakeAcks()...)
	worker.Prewarm(ctx, respond.Greetings()...)

	// Voice input is optional; typed commands always work.
	var rec domain.Recognizer
	if *mic {
		if _, err := os.Stat(*whisperModel); err != nil {
			fmt.Fprintf(os.Stderr, "error: whisper model not found at %s\n", *whisperModel)
			os.Exit(1)
		}
		os.MkdirAll(".nova-stt", 0o755)
		m, err := listen.NewMic(*whisperBin, *whisperModel, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		rec = m
	}

	asst := assistant.New(rec, rt, worker, det, log,
		assistant.WithObserver(ui),
		assistant.WithCaptureTimeout(time.Duration(*captureSecs)*time.Second),
	)

	voiceEnabled := rec != nil
	if voiceEnabled {
		if err := asst.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		log.Info("voice input enabled (bin=%s, model=%s, window=%ds)", *whisperBin, *whisperModel, *captureSecs)
	}

	fmt.Println(display.RenderBanner())
	if voiceEnabled {
		fmt.Println(display.BannerStyle.Render(fmt.Sprintf("  Voice mode ON — say %q to activate, or type commands.", *wakeWord)))
	} else {
		fmt.Println(display.BannerStyle.Render("  Type commands below. 'help' lists what I can do, 'exit' quits."))
	}
	fmt.Println()

	// Teardown sequence: stop capturing first, then finish speaking
	// (so the goodbye line drains), then close the UI.
	teardownDone := make(chan struct{})
	go func() {
		defer close(teardownDone)
		select {
		case <-stopCh:
		case <-ui.QuitChan():
			requestStop()
		}
		if voiceEnabled {
			asst.Stop()
		}
		worker.Stop()
		cancel()
		ui.Quit()
	}()

	// Typed input path.
	go func() {
		ui.WaitReady()
		worker.Say(respond.Greeting())
		for {
			select {
			case <-stopCh:
				return
			case line, ok := <-ui.InputChan():
				if !ok {
					return
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				asst.Submit(ctx, line)
			}
		}
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	requestStop()
	// Let the teardown goroutine drain the goodbye line.
	select {
	case <-teardownDone:
	case <-time.After(10 * time.Second):
	}
}

// newSynth picks the TTS backend from the environment.
func newSynth(log *logger.Logger, noSpeech bool, voice string) domain.Synthesizer {
	key := os.Getenv(speech.EnvAzureSpeechKey)
	region := os.Getenv(speech.EnvAzureSpeechRegion)

	if key != "" && region != "" && !noSpeech {
		log.Info("TTS enabled (voice=%s, region=%s)", voice, region)
		return speech.NewAzureClient(key, region, log, speech.WithVoice(voice))
	}
	if !noSpeech {
		log.Info("TTS disabled: set %s and %s env vars to enable", speech.EnvAzureSpeechKey, speech.EnvAzureSpeechRegion)
	}
	return speech.NewNoOp(log)
}
