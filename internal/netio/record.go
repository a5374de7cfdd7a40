package netio

import (
	"fmt"
	"io"
	"maps"

	"gopkg.in/yaml.v3"

	"boolnet/internal/automata"
	"boolnet/internal/graph"
	"boolnet/internal/model"
	"boolnet/internal/network"
)

// DecodeYAML reads a single network record.
func DecodeYAML(r io.Reader) (model.NetworkRecord, error) {
	var record model.NetworkRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&record); err != nil {
		return model.NetworkRecord{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if record.Kind == "" {
		record.Kind = model.KindWeighted
	}
	return record, nil
}

func EncodeYAML(w io.Writer, record model.NetworkRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(record); err != nil {
		return err
	}
	return enc.Close()
}

// Build constructs the network a record describes. The record name, when
// set, becomes the "name" metadata entry.
func Build(record model.NetworkRecord) (network.Network, error) {
	switch record.Kind {
	case model.KindWeighted, "":
		theta, err := network.ParseTheta(record.Theta)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", network.ErrInvalidTheta, err)
		}
		var net *network.WTNetwork
		if record.Weights == nil && record.Size != 0 {
			if record.Thresholds != nil || record.Names != nil {
				return nil, fmt.Errorf("%w: thresholds and names require explicit weights", network.ErrInvalidShape)
			}
			net, err = network.NewEmptyWTNetwork(record.Size)
		} else {
			net, err = network.NewWTNetwork(network.WTConfig{
				Weights:    record.Weights,
				Thresholds: record.Thresholds,
				Names:      record.Names,
				Theta:      theta,
			})
		}
		if err != nil {
			return nil, err
		}
		net.Theta = theta
		annotate(net.Metadata, record)
		return net, nil

	case model.KindLogic:
		table := make([]network.LogicEntry, len(record.Logic))
		for i, rule := range record.Logic {
			table[i] = network.LogicEntry{Inputs: rule.Inputs, Conditions: rule.Conditions}
		}
		net, err := network.NewLogicNetwork(table, record.Names)
		if err != nil {
			return nil, err
		}
		annotate(net.Metadata, record)
		return net, nil

	case model.KindRewired:
		net, err := automata.NewRewiredECA(automata.RewiredConfig{
			Code:     record.Code,
			Boundary: record.Boundary,
			Size:     record.Size,
			Wiring:   record.Wiring,
		})
		if err != nil {
			return nil, err
		}
		return net, nil

	default:
		return nil, fmt.Errorf("unsupported network kind: %s", record.Kind)
	}
}

func annotate(metadata map[string]any, record model.NetworkRecord) {
	maps.Copy(metadata, record.Metadata)
	if record.Name != "" {
		metadata["name"] = record.Name
	}
}

// Record captures the definition of net.
func Record(net network.Network) (model.NetworkRecord, error) {
	switch n := net.(type) {
	case *network.WTNetwork:
		return model.NetworkRecord{
			Kind:       model.KindWeighted,
			Name:       graph.MetadataName(n.Metadata),
			Names:      n.Names(),
			Metadata:   withoutName(n.Metadata),
			Weights:    n.Weights,
			Thresholds: n.Thresholds,
			Theta:      n.Theta.String(),
		}, nil
	case *network.LogicNetwork:
		table := n.Table()
		rules := make([]model.LogicRule, len(table))
		for i, entry := range table {
			rules[i] = model.LogicRule{Inputs: entry.Inputs, Conditions: entry.Conditions}
		}
		return model.NetworkRecord{
			Kind:     model.KindLogic,
			Name:     graph.MetadataName(n.Metadata),
			Names:    n.Names(),
			Metadata: withoutName(n.Metadata),
			Logic:    rules,
		}, nil
	case *automata.RewiredECA:
		record := model.NetworkRecord{
			Kind:   model.KindRewired,
			Code:   n.Code,
			Wiring: n.Wiring(),
		}
		if n.Boundary != nil {
			record.Boundary = []int{n.Boundary[0], n.Boundary[1]}
		}
		return record, nil
	default:
		return model.NetworkRecord{}, fmt.Errorf("unsupported network type %T", net)
	}
}

// Metadata returns the annotation map of net, or nil for kinds without one.
func Metadata(net network.Network) map[string]any {
	switch n := net.(type) {
	case *network.WTNetwork:
		return n.Metadata
	case *network.LogicNetwork:
		return n.Metadata
	}
	return nil
}

func withoutName(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return nil
	}
	out := maps.Clone(metadata)
	delete(out, "name")
	if len(out) == 0 {
		return nil
	}
	return out
}
