package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"example.com/newsfeed/cmd/server"
	"example.com/newsfeed/cmd/worker"
	"example.com/newsfeed/internal/broker"
	"example.com/newsfeed/internal/fanout"
	config "example.com/newsfeed/internal/init"
	"example.com/newsfeed/internal/service"
	"example.com/newsfeed/internal/store"
)

func main() {
	// Initialize application configuration
	cfg := config.Init()
	mode := cfg.Mode

	// One store instance shared by every component; no implicit singleton.
	st := store.New()

	if cfg.SeedDemo {
		seedDemoData(st)
	}

	// Setup OS signal handling for graceful shutdown (SIGINT, SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	posts := service.NewPostService(st)
	feed := service.NewFeedService(st)

	kafkaCfg := broker.KafkaConfig{
		Brokers:      []string{cfg.KafkaBroker},
		Topic:        cfg.KafkaTopic,
		Partition:    cfg.KafkaPartition,
		GroupID:      cfg.KafkaGroupID,
		WriteTimeout: cfg.KafkaWriteTO,
		ReadTimeout:  cfg.KafkaReadTO,
	}

	// Run application depending on selected mode
	switch mode {
	case "local":
		// Single process: posts fan out through the in-process pipeline.
		pipeline := fanout.New(st, cfg.FanoutWorkers, cfg.FanoutDelay)
		fanoutSvc := service.NewFanoutService(st, pipeline)
		srv := server.New(st, posts, fanoutSvc, feed)
		srv.Run(ctx, cfg.ServerAddr)
		pipeline.Close()
	case "server":
		// Front-end only: fan-out jobs are published to Kafka for workers.
		writer, err := broker.NewKafkaJobWriter(kafkaCfg)
		if err != nil {
			log.Fatalf("Kafka writer init failed: %v", err)
		}
		defer writer.Close()
		fanoutSvc := service.NewFanoutService(st, broker.NewJobPublisher(writer))
		srv := server.New(st, posts, fanoutSvc, feed)
		srv.Run(ctx, cfg.ServerAddr)
	case "worker":
		// Back-end only: consume fan-out jobs from Kafka and apply them.
		reader := broker.NewKafkaJobReader(kafkaCfg)
		defer reader.Close()
		w := worker.New(st, reader, cfg.FanoutWorkers, 0)
		w.Run(ctx)
	default:
		log.Fatalf("unknown mode: %s", mode)
	}

	log.Println("Shutdown completed")
}
