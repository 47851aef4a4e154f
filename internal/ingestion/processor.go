package ingestion

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sync"
	"time"

	"agri-transport-monitor/internal/alerting"
	domainDevice "agri-transport-monitor/internal/domain/device"
	domainGeofence "agri-transport-monitor/internal/domain/geofence"
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
	"agri-transport-monitor/internal/geofencing"
	"agri-transport-monitor/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deviceCacheTTL = time.Minute

// Config carries the processor's tuning knobs.
type Config struct {
	WorkerCount  int
	BufferSize   int
	BatchSize    int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 8
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 1000
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 200
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 2 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
}

type cachedDevice struct {
	device   *domainDevice.Device
	loadedAt time.Time
}

// Processor runs the ingestion pipeline: validated messages are dispatched
// to a fixed worker by a hash of the device identifier, so each device's
// readings are processed serially and in arrival order. Workers batch
// inserts and, once a batch has been persisted, feed its readings through
// the geofence and alert engines; readings older than the device's newest
// seen reading stay in the audit trail but are skipped by the engines.
type Processor struct {
	readings domainTelemetry.Repository
	devices  domainDevice.Repository
	fences   domainGeofence.Repository

	geofenceEngine *geofencing.Engine
	alertEngine    *alerting.Engine

	cfg      Config
	channels []chan *TelemetryMessage

	deviceMu    sync.RWMutex
	deviceCache map[string]cachedDevice

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics *MetricsTracker
}

// NewProcessor creates a new telemetry processor
func NewProcessor(
	readings domainTelemetry.Repository,
	devices domainDevice.Repository,
	fences domainGeofence.Repository,
	geofenceEngine *geofencing.Engine,
	alertEngine *alerting.Engine,
	cfg Config,
) *Processor {
	cfg.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	channels := make([]chan *TelemetryMessage, cfg.WorkerCount)
	for i := range channels {
		channels[i] = make(chan *TelemetryMessage, cfg.BufferSize)
	}

	return &Processor{
		readings:       readings,
		devices:        devices,
		fences:         fences,
		geofenceEngine: geofenceEngine,
		alertEngine:    alertEngine,
		cfg:            cfg,
		channels:       channels,
		deviceCache:    make(map[string]cachedDevice),
		ctx:            ctx,
		cancel:         cancel,
		metrics:        NewMetricsTracker(),
	}
}

// Start starts the worker pool.
func (p *Processor) Start() {
	logger.Info("Starting telemetry processor",
		zap.Int("workers", p.cfg.WorkerCount),
		zap.Int("batch_size", p.cfg.BatchSize),
		zap.Duration("batch_timeout", p.cfg.BatchTimeout),
	)

	for i := 0; i < p.cfg.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop drains the pipeline: channels are closed, workers flush their
// remaining batches and exit.
func (p *Processor) Stop() {
	logger.Info("Stopping telemetry processor")

	for _, ch := range p.channels {
		close(ch)
	}
	p.wg.Wait()
	p.cancel()

	logger.Info("Telemetry processor stopped")
}

// Enqueue validates a message and hands it to its device's worker. A full
// worker queue drops the message rather than blocking the caller.
func (p *Processor) Enqueue(msg *TelemetryMessage) error {
	if err := ValidateTelemetry(msg); err != nil {
		p.metrics.Update(func(m *IngestMetrics) {
			m.MessagesFailed++
		})
		return err
	}

	idx := p.workerFor(msg.DeviceID)
	select {
	case p.channels[idx] <- msg:
		p.metrics.Update(func(m *IngestMetrics) {
			m.MessagesReceived++
			m.BufferSize = len(p.channels[idx])
		})
		return nil
	default:
		logger.Warn("ingest buffer full, dropping message",
			zap.String("device_id", msg.DeviceID),
		)
		p.metrics.Update(func(m *IngestMetrics) {
			m.MessagesFailed++
		})
		return &ValidationError{Field: "queue", Message: "ingest buffer full"}
	}
}

// GetMetrics returns current metrics
func (p *Processor) GetMetrics() IngestMetrics {
	return p.metrics.Snapshot()
}

func (p *Processor) workerFor(deviceID string) int {
	h := fnv.New32a()
	h.Write([]byte(deviceID))
	return int(h.Sum32() % uint32(p.cfg.WorkerCount))
}

// pendingReading pairs a buffered reading with the message fields the
// post-flush steps still need.
type pendingReading struct {
	reading      *domainTelemetry.Reading
	batteryLevel *float64
}

// worker owns its slice of devices. lastSeen needs no lock: every reading
// of a given device lands on the same worker. Engines run only after the
// batch holding a reading has been persisted, so events and alerts never
// reference readings missing from the audit trail.
func (p *Processor) worker(id int) {
	defer p.wg.Done()

	buffer := make([]pendingReading, 0, p.cfg.BatchSize)
	lastSeen := make(map[uuid.UUID]time.Time)

	ticker := time.NewTicker(p.cfg.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		batch := make([]*domainTelemetry.Reading, len(buffer))
		for i, item := range buffer {
			batch[i] = item.reading
		}
		if p.flushBatch(batch) {
			for _, item := range buffer {
				p.evaluate(item, lastSeen)
			}
		}
		buffer = buffer[:0]
	}

	for {
		select {
		case msg, ok := <-p.channels[id]:
			if !ok {
				flush()
				return
			}

			start := time.Now()
			reading, err := p.buildReading(msg)
			if err != nil {
				logger.Error("failed to process telemetry message",
					zap.Int("worker", id),
					zap.String("device_id", msg.DeviceID),
					zap.Error(err),
				)
				p.metrics.Update(func(m *IngestMetrics) {
					m.MessagesFailed++
				})
				continue
			}

			buffer = append(buffer, pendingReading{reading: reading, batteryLevel: msg.BatteryLevel})
			if len(buffer) >= p.cfg.BatchSize {
				flush()
			}

			p.metrics.Update(func(m *IngestMetrics) {
				m.MessagesProcessed++
				m.LastProcessedAt = time.Now()

				processingTime := time.Since(start)
				if m.AverageProcessingTime == 0 {
					m.AverageProcessingTime = processingTime
				} else {
					m.AverageProcessingTime = (m.AverageProcessingTime + processingTime) / 2
				}
			})

		case <-ticker.C:
			flush()
		}
	}
}

// buildReading resolves the device and converts the message for batching.
func (p *Processor) buildReading(msg *TelemetryMessage) (*domainTelemetry.Reading, error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.WriteTimeout)
	defer cancel()

	device, err := p.device(ctx, msg.DeviceID)
	if err != nil {
		return nil, err
	}

	return toReading(device.ID, msg), nil
}

// evaluate runs one persisted reading through the geofence and alert
// engines and records the device heartbeat.
func (p *Processor) evaluate(item pendingReading, lastSeen map[uuid.UUID]time.Time) {
	reading := item.reading

	// Out-of-order arrivals stay in the audit trail but must not rewind
	// the engines' view of "current".
	if !reading.Timestamp.After(lastSeen[reading.DeviceID]) {
		p.metrics.Update(func(m *IngestMetrics) {
			m.MessagesStale++
		})
		return
	}
	lastSeen[reading.DeviceID] = reading.Timestamp

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.WriteTimeout)
	defer cancel()

	events, err := p.geofenceEngine.Evaluate(ctx, reading)
	if err != nil {
		logger.Error("geofence evaluation failed", zap.Error(err))
	}
	for _, event := range events {
		if err := p.fences.InsertEvent(ctx, event); err != nil {
			logger.Error("failed to persist geofence event", zap.Error(err))
			continue
		}
		p.metrics.Update(func(m *IngestMetrics) {
			m.EventsGenerated++
		})
	}

	if err := p.alertEngine.Evaluate(ctx, reading); err != nil {
		logger.Error("alert evaluation failed", zap.Error(err))
	}

	if err := p.devices.UpdateHeartbeat(ctx, reading.DeviceID, reading.Timestamp, item.batteryLevel); err != nil {
		logger.Error("failed to update device heartbeat", zap.Error(err))
	}
}

func (p *Processor) flushBatch(batch []*domainTelemetry.Reading) bool {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := p.readings.BatchInsert(ctx, batch); err != nil {
		logger.Error("failed to insert telemetry batch",
			zap.Int("size", len(batch)),
			zap.Error(err),
		)
		p.metrics.Update(func(m *IngestMetrics) {
			m.MessagesFailed += int64(len(batch))
		})
		return false
	}

	logger.Debug("telemetry batch inserted",
		zap.Int("size", len(batch)),
		zap.Duration("took", time.Since(start)),
	)
	p.metrics.Update(func(m *IngestMetrics) {
		m.RecordsInserted += int64(len(batch))
	})
	return true
}

func (p *Processor) device(ctx context.Context, deviceID string) (*domainDevice.Device, error) {
	p.deviceMu.RLock()
	cached, ok := p.deviceCache[deviceID]
	p.deviceMu.RUnlock()
	if ok && time.Since(cached.loadedAt) < deviceCacheTTL {
		return cached.device, nil
	}

	device, err := p.devices.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	p.deviceMu.Lock()
	p.deviceCache[deviceID] = cachedDevice{device: device, loadedAt: time.Now()}
	p.deviceMu.Unlock()

	return device, nil
}

func toReading(deviceRowID uuid.UUID, msg *TelemetryMessage) *domainTelemetry.Reading {
	return &domainTelemetry.Reading{
		DeviceID:       deviceRowID,
		ShipmentID:     msg.ShipmentID,
		Latitude:       msg.Latitude,
		Longitude:      msg.Longitude,
		Speed:          msg.Speed,
		Heading:        msg.Heading,
		Altitude:       msg.Altitude,
		Temperature:    msg.Temperature,
		Humidity:       msg.Humidity,
		Pressure:       msg.Pressure,
		AccelerationX:  msg.AccelerationX,
		AccelerationY:  msg.AccelerationY,
		AccelerationZ:  msg.AccelerationZ,
		ShockDetected:  msg.ShockDetected,
		FuelLevel:      msg.FuelLevel,
		IgnitionStatus: msg.IgnitionStatus,
		DoorStatus:     msg.DoorStatus,
		SignalStrength: msg.SignalStrength,
		RawData:        json.RawMessage(msg.Raw),
		Timestamp:      msg.Timestamp,
	}
}
