// Package models ships reference networks used by the CLI and in tests.
package models

import (
	"bytes"
	"embed"
	"fmt"
	"sort"

	"boolnet/internal/netio"
	"boolnet/internal/network"
)

//go:embed data/*.txt
var data embed.FS

var builders = map[string]func() (network.Network, error){
	"s_pombe": func() (network.Network, error) {
		net, err := SPombe()
		if err != nil {
			return nil, err
		}
		return net, nil
	},
}

// SPombe returns a fresh copy of the fission yeast cell-cycle network.
func SPombe() (*network.WTNetwork, error) {
	return readWT("s_pombe")
}

// Lookup returns a fresh copy of the named reference network. Aliases are
// resolved through Normalize.
func Lookup(name string) (network.Network, error) {
	build, ok := builders[Normalize(name)]
	if !ok {
		return nil, fmt.Errorf("unknown reference network: %s", name)
	}
	return build()
}

func List() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func readWT(name string) (*network.WTNetwork, error) {
	nodes, err := data.ReadFile("data/" + name + "-nodes.txt")
	if err != nil {
		return nil, err
	}
	edges, err := data.ReadFile("data/" + name + "-edges.txt")
	if err != nil {
		return nil, err
	}
	net, err := netio.ReadWTNetwork(bytes.NewReader(nodes), bytes.NewReader(edges))
	if err != nil {
		return nil, fmt.Errorf("reference network %s: %w", name, err)
	}
	net.Metadata["name"] = name
	return net, nil
}
