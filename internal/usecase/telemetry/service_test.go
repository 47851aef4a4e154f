package telemetry

import (
	"context"
	"testing"
	"time"

	"agri-transport-monitor/internal/ingestion"
)

type fakeEnqueuer struct {
	enqueued []*ingestion.TelemetryMessage
}

func (f *fakeEnqueuer) Enqueue(msg *ingestion.TelemetryMessage) error {
	if err := ingestion.ValidateTelemetry(msg); err != nil {
		return err
	}
	f.enqueued = append(f.enqueued, msg)
	return nil
}

func (f *fakeEnqueuer) GetMetrics() ingestion.IngestMetrics {
	return ingestion.IngestMetrics{MessagesReceived: int64(len(f.enqueued))}
}

func tptr[T any](v T) *T { return &v }

func TestIngestBatchRejectsPerItem(t *testing.T) {
	enq := &fakeEnqueuer{}
	svc := NewService(enq, nil, nil, 30*time.Minute)

	now := time.Now()
	messages := []*ingestion.TelemetryMessage{
		{DeviceID: "TRK-001", Timestamp: now, Latitude: tptr(10.76), Longitude: tptr(106.66)},
		// Missing device ID.
		{Timestamp: now},
		// Latitude without longitude.
		{DeviceID: "TRK-002", Timestamp: now, Latitude: tptr(10.76)},
		{DeviceID: "TRK-003", Timestamp: now, Temperature: tptr(4.5)},
	}

	result, err := svc.IngestBatch(context.Background(), messages)
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}

	if result.Accepted != 2 {
		t.Errorf("accepted = %d, want 2", result.Accepted)
	}
	if len(result.Rejected) != 2 {
		t.Fatalf("rejected = %d, want 2", len(result.Rejected))
	}
	if result.Rejected[0].Index != 1 || result.Rejected[1].Index != 2 {
		t.Errorf("rejected indices = %d, %d; want 1, 2", result.Rejected[0].Index, result.Rejected[1].Index)
	}
	if len(enq.enqueued) != 2 {
		t.Errorf("enqueued = %d, want 2", len(enq.enqueued))
	}
}

func TestIngestBatchEmpty(t *testing.T) {
	svc := NewService(&fakeEnqueuer{}, nil, nil, 30*time.Minute)

	if _, err := svc.IngestBatch(context.Background(), nil); err == nil {
		t.Error("expected error for empty batch")
	}
}
