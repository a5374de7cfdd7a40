package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// emit writes data as indented JSON or through the text renderer, depending
// on the --format flag.
func (o *rootOptions) emit(cmd *cobra.Command, data any, text func(w io.Writer) error) error {
	w := cmd.OutOrStdout()
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return text(w)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// parseValues converts --value node=state flags into the update map.
func parseValues(raw map[string]int) (map[int]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	values := make(map[int]int, len(raw))
	for key, state := range raw {
		node, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid --value node %q: %w", key, err)
		}
		values[node] = state
	}
	return values, nil
}
