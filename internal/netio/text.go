// Package netio reads and writes network definitions: the whitespace
// separated node/edge text format and YAML records.
package netio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"boolnet/internal/network"
)

var ErrSyntax = errors.New("malformed network definition")

// ReadWTNetwork builds a weight/threshold network from a node file of
// "name threshold" lines and an edge file of "source target weight" lines.
// Blank lines and lines starting with # are skipped. The edge a -> b with
// weight w becomes Weights[b][a] = w. Nodes keep file order.
func ReadWTNetwork(nodes, edges io.Reader) (*network.WTNetwork, error) {
	var (
		names      []string
		thresholds []float64
		index      = make(map[string]int)
	)
	err := scanFields(nodes, 2, func(line int, fields []string) error {
		name := norm.NFC.String(fields[0])
		if _, dup := index[name]; dup {
			return fmt.Errorf("%w: nodes line %d: duplicate node %q", ErrSyntax, line, name)
		}
		threshold, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("%w: nodes line %d: threshold %q: %v", ErrSyntax, line, fields[1], err)
		}
		index[name] = len(names)
		names = append(names, name)
		thresholds = append(thresholds, threshold)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no nodes defined", network.ErrInvalidSize)
	}

	weights := make([][]float64, len(names))
	for i := range weights {
		weights[i] = make([]float64, len(names))
	}
	err = scanFields(edges, 3, func(line int, fields []string) error {
		source, ok := index[norm.NFC.String(fields[0])]
		if !ok {
			return fmt.Errorf("%w: edges line %d: unknown source node %q", ErrSyntax, line, fields[0])
		}
		target, ok := index[norm.NFC.String(fields[1])]
		if !ok {
			return fmt.Errorf("%w: edges line %d: unknown target node %q", ErrSyntax, line, fields[1])
		}
		weight, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("%w: edges line %d: weight %q: %v", ErrSyntax, line, fields[2], err)
		}
		weights[target][source] = weight
		return nil
	})
	if err != nil {
		return nil, err
	}

	return network.NewWTNetwork(network.WTConfig{
		Weights:    weights,
		Thresholds: thresholds,
		Names:      names,
	})
}

// ReadWTNetworkFiles is ReadWTNetwork over two file paths.
func ReadWTNetworkFiles(nodesPath, edgesPath string) (*network.WTNetwork, error) {
	nodes, err := os.Open(nodesPath)
	if err != nil {
		return nil, err
	}
	defer nodes.Close()

	edges, err := os.Open(edgesPath)
	if err != nil {
		return nil, err
	}
	defer edges.Close()

	return ReadWTNetwork(nodes, edges)
}

// WriteWTNetwork writes net in the node/edge text format. Unnamed nodes are
// written under their index.
func WriteWTNetwork(net *network.WTNetwork, nodes, edges io.Writer) error {
	names := net.Names()
	if names == nil {
		names = make([]string, net.Size())
		for i := range names {
			names[i] = strconv.Itoa(i)
		}
	}
	for i, name := range names {
		if _, err := fmt.Fprintf(nodes, "%s\t%s\n", name, strconv.FormatFloat(net.Thresholds[i], 'g', -1, 64)); err != nil {
			return err
		}
	}
	for target, row := range net.Weights {
		for source, w := range row {
			if w == 0 {
				continue
			}
			if _, err := fmt.Fprintf(edges, "%s\t%s\t%s\n", names[source], names[target], strconv.FormatFloat(w, 'g', -1, 64)); err != nil {
				return err
			}
		}
	}
	return nil
}

func scanFields(r io.Reader, want int, fn func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != want {
			return fmt.Errorf("%w: line %d: expected %d fields, got %d", ErrSyntax, line, want, len(fields))
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
	return scanner.Err()
}
