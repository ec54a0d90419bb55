package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/definition"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
)

// DefaultTolerance is used by numeric checks that do not set one.
const DefaultTolerance = 1e-6

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Graph is the path to a graph definition (YAML, CUE or HCL).
	// Relative paths are resolved against the scenario file's directory.
	Graph string `yaml:"graph"`

	// Mutations are applied in order after the graph is built.
	Mutations []Mutation `yaml:"mutations,omitempty"`

	// Checks run in order after all mutations.
	Checks []Check `yaml:"checks"`
}

// Mutation changes the graph. Exactly one operation must be set.
type Mutation struct {
	Register   *definition.NodeDef `yaml:"register,omitempty"`
	Connect    *definition.EdgeDef `yaml:"connect,omitempty"`
	Disconnect *definition.EdgeDef `yaml:"disconnect,omitempty"`
	Remove     string              `yaml:"remove,omitempty"`

	// ExpectError is the graph error code the mutation must fail with.
	// Empty means it must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Check queries the graph. Exactly one check must be set.
type Check struct {
	Readiness *ReadinessCheck `yaml:"readiness,omitempty"`
	Profile   *ProfileCheck   `yaml:"profile,omitempty"`
	Order     *OrderCheck     `yaml:"order,omitempty"`
	Propagate *PropagateCheck `yaml:"propagate,omitempty"`
}

// ReadinessCheck scores one node.
type ReadinessCheck struct {
	Node        string   `yaml:"node"`
	Expect      *float64 `yaml:"expect,omitempty"`
	ExpectError string   `yaml:"expect_error,omitempty"`
	Tolerance   float64  `yaml:"tolerance,omitempty"`
}

// ProfileCheck scores every node. Expect is a subset match.
type ProfileCheck struct {
	Expect      map[string]float64 `yaml:"expect,omitempty"`
	ExpectError string             `yaml:"expect_error,omitempty"`
	Tolerance   float64            `yaml:"tolerance,omitempty"`
}

// OrderCheck validates TopologicalOrder. Expect is the exact order; Before
// lists pairs that must appear in that relative order.
type OrderCheck struct {
	Expect      []string   `yaml:"expect,omitempty"`
	Before      [][]string `yaml:"before,omitempty"`
	ExpectError string     `yaml:"expect_error,omitempty"`
}

// ImpulseSpec is an impulse as written in a scenario.
type ImpulseSpec struct {
	Origin     string  `yaml:"origin"`
	Amplitude  float64 `yaml:"amplitude"`
	Urgency    float64 `yaml:"urgency"`
	Confidence float64 `yaml:"confidence"`
}

// Impulse converts the scenario form into a graph impulse.
func (s ImpulseSpec) Impulse() graph.Impulse {
	return graph.NewImpulse(s.Origin, s.Amplitude, s.Urgency, s.Confidence)
}

// PropagateCheck runs Propagate. Expect is a subset match; Descending lists
// keys whose impacts must be strictly decreasing and positive.
type PropagateCheck struct {
	Impulse     ImpulseSpec        `yaml:"impulse"`
	Attenuation float64            `yaml:"attenuation"`
	MaxDepth    int                `yaml:"max_depth"`
	Expect      map[string]float64 `yaml:"expect,omitempty"`
	Descending  []string           `yaml:"descending,omitempty"`
	ExpectError string             `yaml:"expect_error,omitempty"`
	Tolerance   float64            `yaml:"tolerance,omitempty"`
}

// Valid graph error codes for expect_error.
var knownErrorCodes = map[string]bool{
	string(graph.ErrCodeUnknownNode):     true,
	string(graph.ErrCodeSelfLoop):        true,
	string(graph.ErrCodeCycleDetected):   true,
	string(graph.ErrCodeInvalidArgument): true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The graph path is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "check:" vs "checks:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Graph != "" && !filepath.IsAbs(scenario.Graph) {
		scenario.Graph = filepath.Join(filepath.Dir(path), scenario.Graph)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Graph == "" {
		return fmt.Errorf("graph is required")
	}
	if _, err := os.Stat(s.Graph); os.IsNotExist(err) {
		return &GraphNotFoundError{Scenario: s.Name, Path: s.Graph}
	}
	if len(s.Checks) == 0 {
		return fmt.Errorf("checks list is required and must be non-empty")
	}

	for i, m := range s.Mutations {
		if err := validateMutation(i, &m); err != nil {
			return err
		}
	}
	for i, c := range s.Checks {
		if err := validateCheck(i, &c); err != nil {
			return err
		}
	}
	return nil
}

func validateMutation(index int, m *Mutation) error {
	set := 0
	if m.Register != nil {
		set++
	}
	if m.Connect != nil {
		set++
	}
	if m.Disconnect != nil {
		set++
	}
	if m.Remove != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("mutations[%d]: exactly one of register, connect, disconnect, remove is required", index)
	}
	return validateErrorCode(fmt.Sprintf("mutations[%d]", index), m.ExpectError)
}

func validateCheck(index int, c *Check) error {
	field := fmt.Sprintf("checks[%d]", index)
	set := 0
	var code string
	if c.Readiness != nil {
		set++
		if c.Readiness.Node == "" {
			return fmt.Errorf("%s.readiness: node is required", field)
		}
		if c.Readiness.Expect == nil && c.Readiness.ExpectError == "" {
			return fmt.Errorf("%s.readiness: expect or expect_error is required", field)
		}
		code = c.Readiness.ExpectError
	}
	if c.Profile != nil {
		set++
		code = c.Profile.ExpectError
	}
	if c.Order != nil {
		set++
		for j, pair := range c.Order.Before {
			if len(pair) != 2 {
				return fmt.Errorf("%s.order.before[%d]: want [first, second], got %d keys", field, j, len(pair))
			}
		}
		code = c.Order.ExpectError
	}
	if c.Propagate != nil {
		set++
		if c.Propagate.Impulse.Origin == "" {
			return fmt.Errorf("%s.propagate: impulse.origin is required", field)
		}
		code = c.Propagate.ExpectError
	}
	if set != 1 {
		return fmt.Errorf("%s: exactly one of readiness, profile, order, propagate is required", field)
	}
	return validateErrorCode(field, code)
}

func validateErrorCode(field, code string) error {
	if code != "" && !knownErrorCodes[code] {
		return fmt.Errorf("%s: unknown expect_error %q", field, code)
	}
	return nil
}
