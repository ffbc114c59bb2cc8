package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/plus3/hookworld/ecs"
)

// Scenario is a set of hand-placed entities loaded into the world before the
// random population is spawned.
type Scenario struct {
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec describes one entity with an explicit id.
type EntitySpec struct {
	ID       uint64     `yaml:"id"`
	Tags     []string   `yaml:"tags,omitempty"`
	Position *Position  `yaml:"position,omitempty"`
	Velocity *Velocity  `yaml:"velocity,omitempty"`
	Health   *Health    `yaml:"health,omitempty"`
	Shape    *ShapeSpec `yaml:"shape,omitempty"`
}

// ShapeSpec decodes a Shape variant selected by its kind field.
type ShapeSpec struct {
	Shape Shape
}

func (s *ShapeSpec) UnmarshalYAML(value *yaml.Node) error {
	var header struct {
		Kind string `yaml:"kind"`
	}
	if err := value.Decode(&header); err != nil {
		return err
	}

	switch header.Kind {
	case "circle":
		var v struct {
			Kind   string  `yaml:"kind"`
			Radius float64 `yaml:"radius"`
		}
		if err := decodeStrict(value, &v); err != nil {
			return err
		}
		s.Shape = &Circle{Radius: v.Radius}
	case "rectangle":
		var v struct {
			Kind   string  `yaml:"kind"`
			Width  float64 `yaml:"width"`
			Height float64 `yaml:"height"`
		}
		if err := decodeStrict(value, &v); err != nil {
			return err
		}
		s.Shape = &Rectangle{Width: v.Width, Height: v.Height}
	default:
		return fmt.Errorf("line %d: %w: shape kind %q", value.Line, ecs.ErrUnknownVariant, header.Kind)
	}
	return nil
}

// decodeStrict re-encodes node so the strict decoder can reject unknown fields,
// which Node.Decode does not do.
func decodeStrict(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML, rejecting unknown fields.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Name == "" {
		return nil, fmt.Errorf("invalid scenario: name is required")
	}
	for i, e := range scenario.Entities {
		if e.ID == 0 {
			return nil, fmt.Errorf("invalid scenario: entity %d: id is required", i)
		}
		if e.ID == math.MaxUint64 {
			return nil, fmt.Errorf("invalid scenario: entity %d: id %d is out of range", i, e.ID)
		}
	}
	return &scenario, nil
}

// Components builds the component list for e.
func (e EntitySpec) Components() []ecs.Component {
	var components []ecs.Component
	if e.Position != nil {
		p := *e.Position
		components = append(components, &p)
	}
	if e.Velocity != nil {
		v := *e.Velocity
		components = append(components, &v)
	}
	if e.Health != nil {
		h := *e.Health
		components = append(components, &h)
	}
	if e.Shape != nil && e.Shape.Shape != nil {
		components = append(components, e.Shape.Shape)
	}
	return components
}

// Apply loads every entity through LoadEntity and returns how many were
// accepted. Entities whose id is already live are skipped.
func (s *Scenario) Apply(store *ecs.Store, logger *slog.Logger) int {
	loaded := 0
	for _, e := range s.Entities {
		if store.LoadEntity(ecs.EntityId(e.ID), e.Components(), e.Tags...) {
			loaded++
		}
	}
	logger.Info("scenario loaded", "scenario", s.Name, "loaded", loaded, "skipped", len(s.Entities)-loaded)
	return loaded
}
