// Package registry maps instance names to their code parameters and
// base-graph description. The built-in table mirrors the graphs the
// cluster pipeline has been run against; extra instances can be merged
// in from a JSON file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
)

// Instance describes one registered problem configuration. Edges and
// SourceFile describe the base graph; they are opaque to the reduction
// pipeline and only handed through to the external oracle and decoder.
type Instance struct {
	Name       string   `json:"name"`
	NQubits    int      `json:"n_qbts"`
	Distance   int      `json:"distance"`
	InQubit    int      `json:"in_qbt"`
	Edges      [][2]int `json:"graph_edges,omitempty"`
	SourceFile string   `json:"source_file,omitempty"`
}

// Params validates and returns the instance's code parameters.
func (inst Instance) Params() (stabreduce.CodeParams, error) {
	return stabreduce.NewCodeParams(inst.NQubits, inst.Distance, inst.InQubit)
}

var builtin = map[string]Instance{
	"5_1_2": {
		Name:     "5_1_2",
		NQubits:  5,
		Distance: 2,
		InQubit:  0,
		Edges:    [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 1}},
	},
	"13_1_5": {
		Name:       "13_1_5",
		NQubits:    13,
		Distance:   5,
		InQubit:    0,
		SourceFile: "final_best_permutations_13_1_5_d.csv",
	},
	"23_1_7": {
		Name:       "23_1_7",
		NQubits:    23,
		Distance:   7,
		InQubit:    0,
		SourceFile: "final_best_permutations_23_1_7_d.csv",
	},
}

// Registry is a read-only instance lookup table.
type Registry struct {
	instances map[string]Instance
}

// Builtin returns a registry seeded with the built-in instances.
func Builtin() *Registry {
	r := &Registry{instances: make(map[string]Instance, len(builtin))}
	for name, inst := range builtin {
		r.instances[name] = inst
	}
	return r
}

// LoadFile merges instances from a JSON file ({"name": {...}, ...}) into
// the registry. File entries override built-ins with the same name.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read registry file: %w", err)
	}

	var extra map[string]Instance
	if err := json.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("failed to decode registry file: %w", err)
	}

	for name, inst := range extra {
		inst.Name = name
		if _, err := inst.Params(); err != nil {
			return fmt.Errorf("registry entry %s: %w", name, err)
		}
		r.instances[name] = inst
	}
	return nil
}

// Lookup finds an instance by name.
func (r *Registry) Lookup(name string) (Instance, error) {
	inst, exists := r.instances[name]
	if !exists {
		return Instance{}, fmt.Errorf("%w: %s", stabreduce.ErrUnknownInstance, name)
	}
	return inst, nil
}

// List returns all registered instances sorted by name.
func (r *Registry) List() []Instance {
	instances := make([]Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		instances = append(instances, inst)
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].Name < instances[j].Name })
	return instances
}
