package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"boolnet/internal/graph"
	"boolnet/internal/netio"
	"boolnet/internal/simulate"
	"boolnet/pkg/boolnet"
)

// maxListedSize bounds "states --list" output to 2^16 lines.
const maxListedSize = 16

func addSourceFlags(cmd *cobra.Command, src *boolnet.Source) {
	cmd.Flags().StringVar(&src.Model, "model", "", "built-in model name (s_pombe)")
	cmd.Flags().StringVar(&src.YAML, "yaml", "", "YAML network definition")
	cmd.Flags().StringVar(&src.Nodes, "nodes", "", "node file of a text definition")
	cmd.Flags().StringVar(&src.Edges, "edges", "", "edge file of a text definition")
	cmd.Flags().StringVar(&src.ID, "id", "", "stored network id")
}

func newUpdateCommand(opts *rootOptions) *cobra.Command {
	var (
		src    boolnet.Source
		state  string
		index  int
		pin    []int
		values map[string]int
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Apply one synchronous update to a state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := simulate.ParseState(state)
			if err != nil {
				return err
			}
			forced, err := parseValues(values)
			if err != nil {
				return err
			}
			req := boolnet.UpdateRequest{Source: src, State: parsed, Pin: pin, Values: forced}
			if cmd.Flags().Changed("index") {
				req.Index = &index
			}
			return opts.withClient(cmd, func(client *boolnet.Client) error {
				next, err := client.Update(cmd.Context(), req)
				if err != nil {
					return err
				}
				return opts.emit(cmd, map[string][]int{"state": next}, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, simulate.FormatState(next))
					return err
				})
			})
		},
	}
	addSourceFlags(cmd, &src)
	cmd.Flags().StringVar(&state, "state", "", "current state, e.g. 000010000")
	cmd.Flags().IntVar(&index, "index", 0, "update only this node")
	cmd.Flags().IntSliceVar(&pin, "pin", nil, "nodes held at their current state")
	cmd.Flags().StringToIntVar(&values, "value", nil, "node=state pairs forced after the update")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newNeighborsCommand(opts *rootOptions) *cobra.Command {
	var (
		src boolnet.Source
		req boolnet.NeighborsRequest
	)
	cmd := &cobra.Command{
		Use:   "neighbors",
		Short: "List the nodes a node reads from or feeds into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Source = src
			return opts.withClient(cmd, func(client *boolnet.Client) error {
				neighbors, err := client.Neighbors(cmd.Context(), req)
				if err != nil {
					return err
				}
				return opts.emit(cmd, map[string][]int{"neighbors": neighbors}, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, joinInts(neighbors))
					return err
				})
			})
		},
	}
	addSourceFlags(cmd, &src)
	cmd.Flags().IntVar(&req.Index, "index", 0, "node index; negative values count from the end")
	cmd.Flags().StringVar(&req.Direction, "direction", "both", "in|out|both")
	return cmd
}

func newStatesCommand(opts *rootOptions) *cobra.Command {
	var (
		src  boolnet.Source
		list bool
	)
	cmd := &cobra.Command{
		Use:   "states",
		Short: "Describe the state space of a network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(client *boolnet.Client) error {
				net, err := client.Load(cmd.Context(), src)
				if err != nil {
					return err
				}
				space := net.StateSpace()
				if list && space.Size() > maxListedSize {
					return fmt.Errorf("refusing to list %s states of a %d node network", humanize.Comma(int64(space.Volume())), space.Size())
				}

				summary := struct {
					boolnet.StatesSummary
					States []string `json:"states,omitempty"`
				}{StatesSummary: boolnet.StatesSummary{Size: space.Size(), Volume: space.Volume()}}
				if list {
					for state := range space.All() {
						summary.States = append(summary.States, simulate.FormatState(state))
					}
				}
				return opts.emit(cmd, summary, func(w io.Writer) error {
					if _, err := fmt.Fprintf(w, "size\t%d\nstates\t%s\n", summary.Size, humanize.Comma(int64(summary.Volume))); err != nil {
						return err
					}
					for _, state := range summary.States {
						if _, err := fmt.Fprintln(w, state); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
	addSourceFlags(cmd, &src)
	cmd.Flags().BoolVar(&list, "list", false, "enumerate every state, node 0 first")
	return cmd
}

func newGraphCommand(opts *rootOptions) *cobra.Command {
	var (
		src    boolnet.Source
		labels string
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the dependency graph (DOT or JSON)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(client *boolnet.Client) error {
				g, err := client.Graph(cmd.Context(), src, graph.Labels(labels))
				if err != nil {
					return err
				}
				return opts.emit(cmd, g, g.WriteDOT)
			})
		},
	}
	addSourceFlags(cmd, &src)
	cmd.Flags().StringVar(&labels, "labels", string(graph.LabelIndices), "node labels: indices|names")
	return cmd
}

func newSimulateCommand(opts *rootOptions) *cobra.Command {
	var (
		req    boolnet.SimulateRequest
		state  string
		values map[string]int
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run repeated updates from a state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := simulate.ParseState(state)
			if err != nil {
				return err
			}
			if req.Values, err = parseValues(values); err != nil {
				return err
			}
			req.State = parsed
			return opts.withClient(cmd, func(client *boolnet.Client) error {
				summary, err := client.Simulate(cmd.Context(), req)
				if err != nil {
					return err
				}
				return opts.emit(cmd, summary, func(w io.Writer) error {
					if err := simulate.WriteTrajectory(w, summary.States); err != nil {
						return err
					}
					if req.Attractor {
						kind := "cycle"
						if summary.CycleLen == 1 {
							kind = "fixed point"
						}
						if _, err := fmt.Fprintf(w, "# %s of length %d entered at step %d\n", kind, summary.CycleLen, summary.CycleStart); err != nil {
							return err
						}
					}
					if summary.TrajectoryID != "" {
						if _, err := fmt.Fprintf(w, "# saved trajectory %s\n", summary.TrajectoryID); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
	addSourceFlags(cmd, &req.Source)
	cmd.Flags().StringVar(&state, "state", "", "initial state, e.g. 000010000")
	cmd.Flags().IntVar(&req.Steps, "steps", 10, "number of updates")
	cmd.Flags().BoolVar(&req.Attractor, "attractor", false, "run until a state repeats")
	cmd.Flags().IntSliceVar(&req.Pin, "pin", nil, "nodes held at their current state")
	cmd.Flags().StringToIntVar(&values, "value", nil, "node=state pairs forced after every update")
	cmd.Flags().BoolVar(&req.Save, "save", false, "store the trajectory (requires --id)")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var src boolnet.Source
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a network definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(client *boolnet.Client) error {
				summary, err := client.Import(cmd.Context(), src)
				if err != nil {
					return err
				}
				return opts.emit(cmd, summary, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "imported %s kind=%s size=%d\n", summary.ID, summary.Kind, summary.Size)
					return err
				})
			})
		},
	}
	addSourceFlags(cmd, &src)
	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(client *boolnet.Client) error {
				networks, err := client.Networks(cmd.Context())
				if err != nil {
					return err
				}
				return opts.emit(cmd, networks, func(w io.Writer) error {
					if len(networks) == 0 {
						_, err := fmt.Fprintln(w, "no networks stored")
						return err
					}
					for _, n := range networks {
						if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", n.ID, n.Kind, n.Size, n.Name); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored network and its trajectories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(client *boolnet.Client) error {
				record, err := client.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				trajectories, err := client.Trajectories(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				data := map[string]any{"network": record, "trajectories": trajectories}
				return opts.emit(cmd, data, func(w io.Writer) error {
					if err := netio.EncodeYAML(w, record); err != nil {
						return err
					}
					for _, t := range trajectories {
						if _, err := fmt.Fprintf(w, "# trajectory %s: %d states, saved %s\n", t.ID, len(t.States), humanize.Time(t.CreatedAt)); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a stored network and its trajectories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(client *boolnet.Client) error {
				if err := client.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				return opts.emit(cmd, map[string]string{"deleted": args[0]}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "deleted %s\n", args[0])
					return err
				})
			})
		},
	}
}
