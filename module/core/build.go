package core

import (
	"database/sql"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"

	handler "github.com/ryansilva512/controle-frotas/module/core/internal/handler/http"
	"github.com/ryansilva512/controle-frotas/module/core/internal/handler/subscriber"
	"github.com/ryansilva512/controle-frotas/module/core/internal/metrics"
	"github.com/ryansilva512/controle-frotas/module/core/internal/repository/database/postgres"
	"github.com/ryansilva512/controle-frotas/module/core/internal/repository/publisher/rabbitmq"
	"github.com/ryansilva512/controle-frotas/module/core/service"
)

type Module struct {
	LocationSvc *service.LocationService
	TripSvc     *service.TripService
	Tracker     *service.Tracker
	handler     *handler.VehicleHandler
	subscriber  *subscriber.LocationSubscriber
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, provider service.ConfigProvider, tripCfg service.TripConfig, reg prometheus.Registerer) (*Module, error) {
	locationRepo := postgres.NewLocationRepo(db)
	tripRepo := postgres.NewTripRepo(db)

	alertPub, err := rabbitmq.NewAlertPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("alert publisher: %w", err)
	}

	m := metrics.New(reg)

	locationSvc := service.NewLocationService(locationRepo)
	tripSvc := service.NewTripService(tripRepo)
	tracker := service.NewTracker(tripCfg, provider, locationRepo, tripRepo, alertPub, m)

	h := handler.NewVehicleHandler(locationSvc, tripSvc, tracker)
	sub := subscriber.NewLocationSubscriber(mqttClient, tracker)

	return &Module{
		LocationSvc: locationSvc,
		TripSvc:     tripSvc,
		Tracker:     tracker,
		handler:     h,
		subscriber:  sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}

// Shutdown drains the per-vehicle pipelines.
func (m *Module) Shutdown() {
	m.Tracker.Close()
}
