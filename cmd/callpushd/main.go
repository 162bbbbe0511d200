package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/renwick/callpush/internal/audio"
	"github.com/renwick/callpush/internal/config"
	"github.com/renwick/callpush/internal/coordinator"
	"github.com/renwick/callpush/internal/event"
	"github.com/renwick/callpush/internal/logging"
	"github.com/renwick/callpush/internal/pushfeed"
	"github.com/renwick/callpush/internal/session"
	"github.com/renwick/callpush/internal/stream"
	"github.com/renwick/callpush/internal/surface"
)

func main() {
	configPath := flag.String("config", "/etc/callpush/callpush.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, closeLogs, err := logging.Setup(logging.Options{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
	})
	if err != nil {
		log.Fatalf("setting up logging: %v", err)
	}
	defer closeLogs()

	coreLog := logging.Named(logger, "core")
	pushLog := logging.Named(logger, "push")
	surfaceLog := logging.Named(logger, "surface")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := session.NewRegistry()
	emitter := event.NewEmitter()
	callSurface := surface.NewConsole(surfaceLog)
	configurator := audio.NewLogging(logging.Named(logger, "audio"))

	coord := coordinator.New(callSurface, registry, emitter, configurator, coreLog,
		coordinator.WithAudioSettings(cfg.Audio.Settings()))

	streamSrv := stream.NewServer(emitter, logging.Named(logger, "stream"))
	go func() {
		if err := streamSrv.ListenAndServe(ctx, cfg.Events.ListenAddr, cfg.Events.Path); err != nil {
			coreLog.Errorf("event stream server: %v", err)
			stop()
		}
	}()

	feed, err := pushfeed.Connect(pushfeed.Options{
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		TopicPrefix: cfg.MQTT.TopicPrefix,
	}, pushLog)
	if err != nil {
		coreLog.Fatalf("connecting to MQTT: %v", err)
	}
	defer feed.Close()

	if err := feed.Subscribe(&feedHandler{coord: coord}); err != nil {
		coreLog.Fatalf("subscribing to push topics: %v", err)
	}

	coreLog.Infof("callpushd running, broker %s", cfg.MQTT.Broker)
	<-ctx.Done()
	coreLog.Info("shutdown complete")
}

// feedHandler routes push channel traffic into the coordinator.
type feedHandler struct {
	coord *coordinator.Coordinator
}

func (h *feedHandler) Push(raw []byte) {
	// Extraction errors are already logged; a malformed push is
	// terminal for that one event.
	_ = h.coord.Ingest(raw)
}

func (h *feedHandler) Token(token string) {
	h.coord.HandleToken(token)
}
