// Package boolnet is the programmatic entry point to the network engine:
// it resolves networks from built-in models, definition files or the store,
// runs updates and simulations on them and persists the results.
package boolnet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"boolnet/internal/config"
	"boolnet/internal/graph"
	"boolnet/internal/logging"
	"boolnet/internal/model"
	"boolnet/internal/models"
	"boolnet/internal/netio"
	"boolnet/internal/network"
	"boolnet/internal/simulate"
	"boolnet/internal/storage"
)

const defaultDBPath = "boolnet.db"

var (
	ErrSource   = errors.New("exactly one network source is required")
	ErrNotFound = errors.New("record not found")
)

type Options struct {
	StoreKind string
	DBPath    string
	MaxSteps  int
	Logger    *slog.Logger
}

type Client struct {
	store    storage.Store
	maxSteps int
	logger   *slog.Logger
	now      func() time.Time
}

// Source names where a network comes from. Exactly one of Model, YAML,
// Nodes/Edges and ID must be set.
type Source struct {
	// Model is a built-in model name such as "s_pombe".
	Model string
	// YAML is the path of a YAML network record.
	YAML string
	// Nodes and Edges are the paths of a node/edge text definition.
	Nodes string
	Edges string
	// ID is a network id in the store.
	ID string
}

type UpdateRequest struct {
	Source Source
	State  []int
	Index  *int
	Pin    []int
	Values map[int]int
}

type NeighborsRequest struct {
	Source    Source
	Index     int
	Direction string // "in", "out" or "both" (default)
}

type SimulateRequest struct {
	Source Source
	State  []int
	// Steps is the trajectory length. It is ignored when Attractor is set.
	Steps int
	// Attractor runs until the first repeated state, bounded by the
	// client's MaxSteps.
	Attractor bool
	Pin       []int
	Values    map[int]int
	// Save stores the trajectory. The source must then be a stored network.
	Save bool
}

type SimulateSummary struct {
	TrajectoryID string  `json:"trajectory_id,omitempty"`
	States       [][]int `json:"states"`
	CycleStart   int     `json:"cycle_start"`
	CycleLen     int     `json:"cycle_len"`
}

type NetworkSummary struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	Size int    `json:"size"`
}

type StatesSummary struct {
	Size   int `json:"size"`
	Volume int `json:"volume"`
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = config.DefaultMaxSteps
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:    store,
		maxSteps: maxSteps,
		logger:   logging.OrDiscard(opts.Logger),
		now:      time.Now,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Load resolves a source to a network.
func (c *Client) Load(ctx context.Context, src Source) (network.Network, error) {
	var set int
	for _, s := range []string{src.Model, src.YAML, src.Nodes + src.Edges, src.ID} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, ErrSource
	}

	switch {
	case src.Model != "":
		return models.Lookup(src.Model)
	case src.YAML != "":
		f, err := os.Open(src.YAML)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		record, err := netio.DecodeYAML(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.YAML, err)
		}
		return netio.Build(record)
	case src.Nodes != "":
		if src.Edges == "" {
			return nil, fmt.Errorf("%w: nodes file given without edges file", ErrSource)
		}
		net, err := netio.ReadWTNetworkFiles(src.Nodes, src.Edges)
		if err != nil {
			return nil, err
		}
		return net, nil
	case src.Edges != "":
		return nil, fmt.Errorf("%w: edges file given without nodes file", ErrSource)
	default:
		record, err := c.getNetwork(ctx, src.ID)
		if err != nil {
			return nil, err
		}
		return netio.Build(record)
	}
}

// Import stores the network a source resolves to under a fresh id.
func (c *Client) Import(ctx context.Context, src Source) (NetworkSummary, error) {
	net, err := c.Load(ctx, src)
	if err != nil {
		return NetworkSummary{}, err
	}
	record, err := netio.Record(net)
	if err != nil {
		return NetworkSummary{}, err
	}
	record.VersionedRecord = storage.CurrentVersion()
	record.ID = uuid.NewString()
	if err := c.store.SaveNetwork(ctx, record); err != nil {
		return NetworkSummary{}, err
	}
	c.logger.Info("network imported", "id", record.ID, "kind", record.Kind, "size", net.Size())
	return NetworkSummary{ID: record.ID, Kind: record.Kind, Name: record.Name, Size: net.Size()}, nil
}

func (c *Client) Networks(ctx context.Context) ([]NetworkSummary, error) {
	records, err := c.store.ListNetworks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]NetworkSummary, 0, len(records))
	for _, record := range records {
		net, err := netio.Build(record)
		if err != nil {
			return nil, fmt.Errorf("network %s: %w", record.ID, err)
		}
		out = append(out, NetworkSummary{ID: record.ID, Kind: record.Kind, Name: record.Name, Size: net.Size()})
	}
	return out, nil
}

// Show returns the stored record of a network.
func (c *Client) Show(ctx context.Context, id string) (model.NetworkRecord, error) {
	return c.getNetwork(ctx, id)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.getNetwork(ctx, id); err != nil {
		return err
	}
	return c.store.DeleteNetwork(ctx, id)
}

// Update runs one validated update and returns the new state.
func (c *Client) Update(ctx context.Context, req UpdateRequest) ([]int, error) {
	net, err := c.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	return net.Update(req.State, network.UpdateOptions{Index: req.Index, Pin: req.Pin, Values: req.Values})
}

func (c *Client) Neighbors(ctx context.Context, req NeighborsRequest) ([]int, error) {
	net, err := c.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	switch req.Direction {
	case "in":
		return net.NeighborsIn(req.Index)
	case "out":
		return net.NeighborsOut(req.Index)
	case "", "both":
		return net.Neighbors(req.Index)
	default:
		return nil, fmt.Errorf("%w: direction must be in, out or both, got %q", network.ErrUsage, req.Direction)
	}
}

func (c *Client) States(ctx context.Context, src Source) (StatesSummary, error) {
	net, err := c.Load(ctx, src)
	if err != nil {
		return StatesSummary{}, err
	}
	space := net.StateSpace()
	return StatesSummary{Size: space.Size(), Volume: space.Volume()}, nil
}

func (c *Client) Graph(ctx context.Context, src Source, labels graph.Labels) (graph.Graph, error) {
	net, err := c.Load(ctx, src)
	if err != nil {
		return graph.Graph{}, err
	}
	return graph.FromNetwork(net, labels, graph.MetadataName(netio.Metadata(net)))
}

func (c *Client) Simulate(ctx context.Context, req SimulateRequest) (SimulateSummary, error) {
	if req.Save && req.Source.ID == "" {
		return SimulateSummary{}, fmt.Errorf("%w: saving a trajectory requires a stored network", ErrSource)
	}
	net, err := c.Load(ctx, req.Source)
	if err != nil {
		return SimulateSummary{}, err
	}

	opts := simulate.Options{
		Update: network.UpdateOptions{Pin: req.Pin, Values: req.Values},
		Logger: c.logger,
	}
	summary := SimulateSummary{CycleStart: -1}
	if req.Attractor {
		result, err := simulate.Attractor(ctx, net, req.State, c.maxSteps, opts)
		if err != nil {
			return SimulateSummary{}, err
		}
		summary.States = result.Trajectory
		summary.CycleStart = result.CycleStart
		summary.CycleLen = result.CycleLen
	} else {
		states, err := simulate.Trajectory(ctx, net, req.State, req.Steps, opts)
		if err != nil {
			return SimulateSummary{}, err
		}
		summary.States = states
	}

	if req.Save {
		record := model.TrajectoryRecord{
			VersionedRecord: storage.CurrentVersion(),
			ID:              uuid.NewString(),
			NetworkID:       req.Source.ID,
			States:          summary.States,
			CycleStart:      summary.CycleStart,
			CycleLen:        summary.CycleLen,
			CreatedAt:       c.now().UTC(),
		}
		if err := c.store.SaveTrajectory(ctx, record); err != nil {
			return SimulateSummary{}, err
		}
		summary.TrajectoryID = record.ID
		c.logger.Info("trajectory saved", "id", record.ID, "network", record.NetworkID, "states", len(record.States))
	}
	return summary, nil
}

// Trajectories lists the stored trajectories of a network.
func (c *Client) Trajectories(ctx context.Context, networkID string) ([]model.TrajectoryRecord, error) {
	if _, err := c.getNetwork(ctx, networkID); err != nil {
		return nil, err
	}
	return c.store.ListTrajectories(ctx, networkID)
}

func (c *Client) Trajectory(ctx context.Context, id string) (model.TrajectoryRecord, error) {
	record, ok, err := c.store.GetTrajectory(ctx, id)
	if err != nil {
		return model.TrajectoryRecord{}, err
	}
	if !ok {
		return model.TrajectoryRecord{}, fmt.Errorf("%w: trajectory %s", ErrNotFound, id)
	}
	return record, nil
}

func (c *Client) getNetwork(ctx context.Context, id string) (model.NetworkRecord, error) {
	record, ok, err := c.store.GetNetwork(ctx, id)
	if err != nil {
		return model.NetworkRecord{}, err
	}
	if !ok {
		return model.NetworkRecord{}, fmt.Errorf("%w: network %s", ErrNotFound, id)
	}
	return record, nil
}
