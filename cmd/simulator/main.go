package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agri-transport-monitor/internal/logger"
	pkgmqtt "agri-transport-monitor/pkg/mqtt"

	"go.uber.org/zap"
)

// Telemetry generator for load and integration testing. Each simulated
// device drives the Gondar → Addis Ababa corridor, publishing readings to
// the ingest MQTT topic at a fixed interval with sensor jitter.

type waypoint struct {
	lat float64
	lon float64
}

var route = []waypoint{
	{12.6044, 37.4693}, // Gondar
	{11.1549, 38.7630}, // Debre Tabor
	{10.6410, 39.2816}, // Weldiya
	{10.0500, 39.6800}, // Kemise
	{9.1450, 38.7672},  // Addis Ababa
}

type device struct {
	id       string
	lat      float64
	lon      float64
	speedKmh float64
	heading  float64
	temp     float64
	humidity float64
	fuel     float64
	battery  float64
	target   int
	rng      *rand.Rand
}

func newDevice(id string, rng *rand.Rand) *device {
	start := route[0]
	return &device{
		id:       id,
		lat:      start.lat + rng.Float64()*0.01,
		lon:      start.lon + rng.Float64()*0.01,
		speedKmh: 40 + rng.Float64()*30,
		temp:     18 + rng.Float64()*6,
		humidity: 55 + rng.Float64()*20,
		fuel:     60 + rng.Float64()*40,
		battery:  80 + rng.Float64()*20,
		target:   1,
		rng:      rng,
	}
}

// advance moves the device toward its current waypoint for one interval and
// drifts the sensor values.
func (d *device) advance(interval time.Duration) {
	target := route[d.target%len(route)]

	latDiff := target.lat - d.lat
	lonDiff := target.lon - d.lon
	distMeters := math.Sqrt(latDiff*latDiff+lonDiff*lonDiff) * 111000

	if distMeters < 1000 {
		d.target = (d.target + 1) % len(route)
		target = route[d.target]
		latDiff = target.lat - d.lat
		lonDiff = target.lon - d.lon
		distMeters = math.Sqrt(latDiff*latDiff+lonDiff*lonDiff) * 111000
	}

	d.speedKmh = clamp(d.speedKmh+d.rng.Float64()*10-5, 0, 100)
	moveMeters := d.speedKmh / 3.6 * interval.Seconds()
	if distMeters > 0 && moveMeters > 0 {
		ratio := math.Min(moveMeters/distMeters, 1)
		d.lat += latDiff * ratio
		d.lon += lonDiff * ratio
		d.heading = math.Mod(math.Atan2(lonDiff, latDiff)*180/math.Pi+360, 360)
	}

	d.temp = clamp(d.temp+d.rng.Float64()*1.0-0.5, -5, 45)
	d.humidity = clamp(d.humidity+d.rng.Float64()*4-2, 30, 90)
	d.fuel = clamp(d.fuel-d.rng.Float64()*0.05, 0, 100)
	d.battery = clamp(d.battery-d.rng.Float64()*0.02, 0, 100)
}

func (d *device) payload() ([]byte, error) {
	ignition := d.speedKmh > 0.5
	signal := -50 - d.rng.Intn(40)
	msg := map[string]interface{}{
		"device_id":       d.id,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"latitude":        round5(d.lat),
		"longitude":       round5(d.lon),
		"speed":           round1(d.speedKmh),
		"heading":         round1(d.heading),
		"temperature":     round1(d.temp),
		"humidity":        round1(d.humidity),
		"fuel_level":      round1(d.fuel),
		"battery_level":   round1(d.battery),
		"ignition_status": ignition,
		"signal_strength": signal,
		"shock_detected":  d.rng.Float64() < 0.002,
	}
	return json.Marshal(msg)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round5(v float64) float64 { return math.Round(v*100000) / 100000 }

func main() {
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	topic := flag.String("topic", "telemetry/readings", "telemetry topic")
	username := flag.String("username", "", "MQTT username")
	password := flag.String("password", "", "MQTT password")
	deviceCount := flag.Int("devices", 5, "number of simulated devices")
	prefix := flag.String("prefix", "SIM", "device ID prefix")
	interval := flag.Duration("interval", 10*time.Second, "publish interval")
	qos := flag.Int("qos", 1, "MQTT QoS")
	flag.Parse()

	if err := logger.Init("development"); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	client := pkgmqtt.NewClient(&pkgmqtt.Config{
		Broker:               *broker,
		ClientID:             fmt.Sprintf("telemetry-simulator-%d", os.Getpid()),
		Username:             *username,
		Password:             *password,
		CleanSession:         true,
		KeepAlive:            30,
		ConnectTimeout:       10,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
	})
	if err := client.Connect(); err != nil {
		logger.Fatal("Failed to connect to MQTT broker", zap.Error(err))
	}
	defer client.Disconnect()

	devices := make([]*device, *deviceCount)
	for i := range devices {
		id := fmt.Sprintf("%s-%03d", *prefix, i+1)
		devices[i] = newDevice(id, rand.New(rand.NewSource(time.Now().UnixNano()+int64(i))))
	}

	logger.Info("Simulator started",
		zap.String("broker", *broker),
		zap.String("topic", *topic),
		zap.Int("devices", *deviceCount),
		zap.Duration("interval", *interval),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			logger.Info("Simulator stopping")
			return
		case <-ticker.C:
			for _, d := range devices {
				d.advance(*interval)
				payload, err := d.payload()
				if err != nil {
					logger.Error("Failed to marshal telemetry", zap.Error(err))
					continue
				}
				if err := client.Publish(*topic, byte(*qos), false, payload); err != nil {
					logger.Warn("Failed to publish telemetry",
						zap.String("device_id", d.id),
						zap.Error(err),
					)
				}
			}
		}
	}
}
