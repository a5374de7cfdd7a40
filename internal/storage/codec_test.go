package storage

import (
	"errors"
	"testing"

	"boolnet/internal/model"
)

func TestNetworkCodecRoundTrip(t *testing.T) {
	record := networkForTests("n1", "toy")
	record.Metadata = map[string]any{"source": "test"}

	payload, err := EncodeNetwork(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeNetwork(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != "n1" || decoded.Theta != "split" || decoded.Metadata["source"] != "test" {
		t.Fatalf("unexpected decoded network: %+v", decoded)
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	stale := networkForTests("n1", "toy")
	stale.SchemaVersion = CurrentSchemaVersion + 1
	payload, err := EncodeNetwork(stale)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeNetwork(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}

	unversioned := model.TrajectoryRecord{ID: "t1", States: [][]int{{0}}}
	payload, err = EncodeTrajectory(unversioned)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeTrajectory(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	if _, err := DecodeNetwork([]byte("{")); err == nil {
		t.Fatal("expected decode error")
	}
}
