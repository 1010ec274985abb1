package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type locationMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
	Heading   float64 `json:"heading"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomVehicleID() string {
	letter := string(charset[rand.Intn(26)])
	digits := fmt.Sprintf("%04d", rand.Intn(10000))
	suffix := string([]byte{charset[rand.Intn(26)], charset[rand.Intn(26)], charset[rand.Intn(26)]})
	return letter + digits + suffix
}

// vehicleSim drives a vehicle north from the depot at (-6.2088, 106.8456),
// speeding up past the limit partway, then stopping long enough to close
// the trip. Exercises geofence exit, speed violation and trip segmentation.
type vehicleSim struct {
	id      string
	tick    int
	lat     float64
	lon     float64
	heading float64
}

func newVehicleSim() *vehicleSim {
	return &vehicleSim{
		id:      randomVehicleID(),
		lat:     -6.2088,
		lon:     106.8456,
		heading: 0,
	}
}

func (v *vehicleSim) next() locationMessage {
	v.tick++
	var speed float64
	switch {
	case v.tick < 5:
		speed = 0 // parked at the depot
	case v.tick < 20:
		speed = 40 + rand.Float64()*10
	case v.tick < 30:
		speed = 75 + rand.Float64()*15 // over the default 60 limit
	case v.tick < 40:
		speed = 30 + rand.Float64()*10
	default:
		speed = 0 // arrived; long idle closes the trip
	}

	if speed > 0 {
		// ~0.0002 deg latitude per tick at cruise speed
		v.lat += 0.0002 * speed / 50
	}

	return locationMessage{
		VehicleID: v.id,
		Latitude:  v.lat,
		Longitude: v.lon,
		Speed:     speed,
		Heading:   v.heading,
		Accuracy:  5 + rand.Float64()*10,
		Timestamp: time.Now().Unix(),
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fleet-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	sims := make([]*vehicleSim, 3)
	for i := range sims {
		sims[i] = newVehicleSim()
	}

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)
	for _, s := range sims {
		log.Printf("simulating vehicle %s", s.id)
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		for _, sim := range sims {
			msg := sim.next()
			payload, _ := json.Marshal(msg)
			topic := fmt.Sprintf("/fleet/vehicle/%s/location", msg.VehicleID)

			token := client.Publish(topic, 1, false, payload)
			token.Wait()

			log.Printf("published to %s: %s", topic, payload)
		}
	}
}
