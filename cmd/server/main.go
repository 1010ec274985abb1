package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ryansilva512/controle-frotas/config"
	"github.com/ryansilva512/controle-frotas/module/core"
	"github.com/ryansilva512/controle-frotas/module/core/service"
)

func main() {
	cfg := config.Load()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	fleet, err := config.LoadFleet(cfg.FleetConfigPath)
	if err != nil {
		log.Fatalf("fleet config: %v", err)
	}

	tripCfg := service.TripConfig{
		MotionThreshold: cfg.MotionThresholdKmh,
		MinStopDuration: cfg.MinStopDuration,
		TripEndIdle:     cfg.TripEndIdle,
	}

	coreModule, err := core.Build(db, amqpConn, mqttClient, fleet, tripCfg, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("core module: %v", err)
	}
	defer coreModule.Shutdown()

	if err := coreModule.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	coreModule.RegisterRoutes(&r.RouterGroup)

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := r.Run(":" + cfg.HTTPPort); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("shutting down")
}
