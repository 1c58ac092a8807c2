package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	csys "github.com/matzehuels/seed/pkg/core/constraint"
	"github.com/matzehuels/seed/pkg/core/layout"
)

type tree struct {
	Roots []layout.NodeID `json:"roots"`
	Nodes []*layout.Node  `json:"nodes"`
}

// WriteTree encodes a layout tree as JSON and writes it to w.
// Nodes are written in id order together with the root ids, so the output
// can be re-read with [ReadTree].
func WriteTree(t *layout.Tree, w io.Writer) error {
	out := tree{Roots: t.Roots(), Nodes: t.Nodes()}
	if out.Roots == nil {
		out.Roots = []layout.NodeID{}
	}
	if out.Nodes == nil {
		out.Nodes = []*layout.Node{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadTree decodes a tree written by [WriteTree].
func ReadTree(r io.Reader) (*layout.Tree, error) {
	var in tree
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	nodes := make([]layout.Node, len(in.Nodes))
	for i, n := range in.Nodes {
		if n != nil {
			nodes[i] = *n
		}
	}
	return layout.FromNodes(in.Roots, nodes)
}

// ExportTree writes a layout tree to a JSON file at path.
// This is a convenience wrapper around [WriteTree] for file-based output.
func ExportTree(t *layout.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(t, f)
}

// WriteSolution writes solved values as a JSON list in element
// registration order.
func WriteSolution(sol *csys.Solution, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sol); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadSolution decodes a list written by [WriteSolution].
func ReadSolution(r io.Reader) (*csys.Solution, error) {
	var sol csys.Solution
	if err := json.NewDecoder(r).Decode(&sol); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &sol, nil
}
