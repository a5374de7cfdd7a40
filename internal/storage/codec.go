package storage

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"boolnet/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// CurrentVersion is the version stamp new records are written with.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeNetwork(record model.NetworkRecord) ([]byte, error) {
	return json.Marshal(record)
}

func DecodeNetwork(data []byte) (model.NetworkRecord, error) {
	var record model.NetworkRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.NetworkRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.NetworkRecord{}, err
	}
	return record, nil
}

func EncodeTrajectory(record model.TrajectoryRecord) ([]byte, error) {
	return json.Marshal(record)
}

func DecodeTrajectory(data []byte) (model.TrajectoryRecord, error) {
	var record model.TrajectoryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.TrajectoryRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.TrajectoryRecord{}, err
	}
	return record, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

func sortNetworks(records []model.NetworkRecord) {
	slices.SortFunc(records, func(a, b model.NetworkRecord) int {
		return strings.Compare(a.ID, b.ID)
	})
}

func sortTrajectories(records []model.TrajectoryRecord) {
	slices.SortStableFunc(records, func(a, b model.TrajectoryRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
