// Package simulate drives a network through repeated synchronous updates.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"boolnet/internal/logging"
	"boolnet/internal/network"
)

var (
	ErrSteps       = errors.New("step count must not be negative")
	ErrNoAttractor = errors.New("no attractor reached")
)

// Options modify every step of a run.
type Options struct {
	Update network.UpdateOptions
	Logger *slog.Logger
}

// Trajectory returns the initial state followed by steps successive states.
// state is not modified.
func Trajectory(ctx context.Context, net network.Network, state []int, steps int, opts Options) ([][]int, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: %d", ErrSteps, steps)
	}
	logger := logging.OrDiscard(opts.Logger)

	current := slices.Clone(state)
	if err := network.ValidateUpdate(net.StateSpace(), current, opts.Update); err != nil {
		return nil, err
	}
	trajectory := make([][]int, 0, steps+1)
	trajectory = append(trajectory, slices.Clone(current))
	for step := 1; step <= steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		net.UnsafeUpdate(current, opts.Update)
		trajectory = append(trajectory, slices.Clone(current))
		logger.Log(ctx, logging.LevelTrace, "simulate step", "step", step, "state", FormatState(current))
	}
	logger.Debug("trajectory complete", "size", net.Size(), "steps", steps)
	return trajectory, nil
}

// Result describes the first revisited state of a run. Trajectory holds every
// state up to, but not including, the first repetition; the attractor is
// Trajectory[CycleStart:], of length CycleLen. A fixed point has CycleLen 1.
type Result struct {
	Trajectory [][]int
	CycleStart int
	CycleLen   int
}

// Cycle returns the states of the attractor.
func (r Result) Cycle() [][]int {
	return r.Trajectory[r.CycleStart:]
}

func (r Result) FixedPoint() bool {
	return r.CycleLen == 1
}

// Attractor updates state until a state repeats, taking at most maxSteps
// updates. It fails with ErrNoAttractor when none repeats in time.
func Attractor(ctx context.Context, net network.Network, state []int, maxSteps int, opts Options) (Result, error) {
	if maxSteps < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrSteps, maxSteps)
	}
	logger := logging.OrDiscard(opts.Logger)

	current := slices.Clone(state)
	if err := network.ValidateUpdate(net.StateSpace(), current, opts.Update); err != nil {
		return Result{}, err
	}
	seen := map[string]int{FormatState(current): 0}
	trajectory := [][]int{slices.Clone(current)}
	for step := 1; step <= maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		net.UnsafeUpdate(current, opts.Update)
		key := FormatState(current)
		logger.Log(ctx, logging.LevelTrace, "simulate step", "step", step, "state", key)
		if first, ok := seen[key]; ok {
			result := Result{Trajectory: trajectory, CycleStart: first, CycleLen: step - first}
			logger.Debug("attractor found", "transient", first, "period", result.CycleLen)
			return result, nil
		}
		seen[key] = step
		trajectory = append(trajectory, slices.Clone(current))
	}
	return Result{}, fmt.Errorf("%w within %d steps", ErrNoAttractor, maxSteps)
}

// FormatState renders a binary state as a digit string, node 0 first.
func FormatState(state []int) string {
	var b strings.Builder
	b.Grow(len(state))
	for _, x := range state {
		b.WriteByte(byte('0' + x))
	}
	return b.String()
}

// ParseState is the inverse of FormatState. Separators ',' and ' ' are
// ignored so "0,1,1" and "011" are the same state.
func ParseState(s string) ([]int, error) {
	state := make([]int, 0, len(s))
	for _, r := range s {
		switch r {
		case '0', '1':
			state = append(state, int(r-'0'))
		case ',', ' ':
		default:
			return nil, fmt.Errorf("%w: invalid state character %q", network.ErrDomain, r)
		}
	}
	return state, nil
}

// WriteTrajectory writes one "step<TAB>state" line per state.
func WriteTrajectory(w io.Writer, trajectory [][]int) error {
	for step, state := range trajectory {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", step, FormatState(state)); err != nil {
			return err
		}
	}
	return nil
}
