// Package pipeline provides the stage model, composer and executor for one
// orchestration run: leaf tasks bound to the reasoning service or to tools,
// sequential groups, and parallel groups with barrier fan-in.
package pipeline

// Kind tags the closed set of stage variants. Stage dispatch is by tag, not
// by open-ended subtyping.
type Kind string

const (
	KindLeaf       Kind = "leaf"
	KindSequential Kind = "sequential"
	KindParallel   Kind = "parallel"
)

// Stage is one unit of orchestrated work. Stages are immutable once built;
// the composer constructs a fresh graph per run and no Stage instance is
// shared across runs.
type Stage struct {
	Name string
	Kind Kind

	// Children are set for Sequential and Parallel stages.
	Children []*Stage

	// Exactly one of Reasoning/Tool is set for a Leaf.
	Reasoning *ReasoningBinding
	Tool      *ToolBinding
}

// ReasoningBinding binds a leaf to a reasoning-service judgment.
type ReasoningBinding struct {
	Model       string
	Instruction string
	// ContextKeys selects the top-level context entries sent with the call.
	ContextKeys []string
	// OutputKey names where the response lands in the output context.
	OutputKey string
	// OutputSchema, when non-empty, is a JSON Schema the response must
	// conform to; a non-conforming response is a structural failure.
	OutputSchema string
}

// ArgSource resolves one tool argument: from a dotted context path when Key
// is set, otherwise the literal Value.
type ArgSource struct {
	Key   string
	Value any
}

// FromContext binds an argument to a context path.
func FromContext(path string) ArgSource { return ArgSource{Key: path} }

// Literal binds an argument to a fixed value.
func Literal(v any) ArgSource { return ArgSource{Value: v} }

// ToolBinding binds a leaf to a dispatcher tool call.
type ToolBinding struct {
	Tool      string
	Args      map[string]ArgSource
	OutputKey string
}

// Leaf constructors.

// ReasoningLeaf builds a leaf bound to a reasoning judgment.
func ReasoningLeaf(name string, binding ReasoningBinding) *Stage {
	return &Stage{Name: name, Kind: KindLeaf, Reasoning: &binding}
}

// ToolLeaf builds a leaf bound to a tool call.
func ToolLeaf(name string, binding ToolBinding) *Stage {
	return &Stage{Name: name, Kind: KindLeaf, Tool: &binding}
}

// Sequential builds an ordered group.
func Sequential(name string, children ...*Stage) *Stage {
	return &Stage{Name: name, Kind: KindSequential, Children: children}
}

// Parallel builds a concurrent group with barrier fan-in.
func Parallel(name string, children ...*Stage) *Stage {
	return &Stage{Name: name, Kind: KindParallel, Children: children}
}

// OutputKeys returns the declared output keys of the stage: a leaf's output
// key, or the union of a group's children. A Parallel group merges exactly
// these keys from each child into the combined output context.
func (s *Stage) OutputKeys() []string {
	switch s.Kind {
	case KindLeaf:
		switch {
		case s.Reasoning != nil && s.Reasoning.OutputKey != "":
			return []string{s.Reasoning.OutputKey}
		case s.Tool != nil && s.Tool.OutputKey != "":
			return []string{s.Tool.OutputKey}
		}
		return nil
	default:
		var keys []string
		for _, child := range s.Children {
			keys = append(keys, child.OutputKeys()...)
		}
		return keys
	}
}
