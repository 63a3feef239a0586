package emitter

import (
	"fmt"

	"api-scaffolder/internal/schemamap"
	"api-scaffolder/internal/types"
)

// ValueKind tags how a default header or query-parameter value is produced
type ValueKind int

const (
	// Fixed emits a constant value
	Fixed ValueKind = iota
	// Choice emits a random pick among enumerated values
	Choice
	// GeneratorExpr emits a call into the synthetic-data provider
	GeneratorExpr
)

// ValueSpec is a tagged variant describing one default value source. It is
// resolved to a concrete expression only at artifact-render time.
type ValueSpec struct {
	Kind    ValueKind
	Value   interface{}
	Choices []interface{}
	Expr    string
}

// PyExpr resolves the value to the generator expression emitted into the
// configs module
func (v ValueSpec) PyExpr() string {
	switch v.Kind {
	case Choice:
		return fmt.Sprintf("lambda: random.choice(%s)", schemamap.PyLiteral(v.Choices))
	case GeneratorExpr:
		return fmt.Sprintf("lambda: %s", v.Expr)
	default:
		return fmt.Sprintf("lambda: %s", schemamap.PyLiteral(v.Value))
	}
}

// ConfigLiteral resolves the value to the per-endpoint config dict entry
func (v ValueSpec) ConfigLiteral() string {
	switch v.Kind {
	case Choice:
		return fmt.Sprintf("{'values': %s}", schemamap.PyLiteral(v.Choices))
	case GeneratorExpr:
		return fmt.Sprintf("{'generator': %s}", schemamap.PyLiteral(v.Expr))
	default:
		return fmt.Sprintf("{'fixed_value': %s}", schemamap.PyLiteral(v.Value))
	}
}

// Registry maps names to value specs, preserving insertion order. The first
// registration for a name wins; catalog entries never override the built-in
// defaults.
type Registry struct {
	names []string
	specs map[string]ValueSpec
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{specs: map[string]ValueSpec{}}
}

// Put registers a spec under a name unless one already exists
func (r *Registry) Put(name string, spec ValueSpec) {
	if _, ok := r.specs[name]; ok {
		return
	}
	r.names = append(r.names, name)
	r.specs[name] = spec
}

// Names returns registered names in insertion order
func (r *Registry) Names() []string {
	return r.names
}

// Get returns the value spec registered under a name
func (r *Registry) Get(name string) (ValueSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// specForParameter derives the value spec for a header or query parameter
// from its catalog schema
func specForParameter(schema *types.SchemaNode) ValueSpec {
	if schema == nil {
		return ValueSpec{Kind: Fixed, Value: "default"}
	}
	switch {
	case len(schema.Enum) > 0:
		return ValueSpec{Kind: Choice, Choices: schema.Enum}
	case schema.Example != nil:
		return ValueSpec{Kind: Fixed, Value: schema.Example}
	case schema.Format == "uuid":
		return ValueSpec{Kind: GeneratorExpr, Expr: "self._faker.uuid4()"}
	case schema.Type == "integer":
		return ValueSpec{Kind: GeneratorExpr, Expr: "random.randint(1, 100)"}
	default:
		return ValueSpec{Kind: Fixed, Value: "default"}
	}
}

// defaultHeaderRegistry seeds the generator table with the headers every
// scaffolded project understands
func defaultHeaderRegistry() *Registry {
	r := NewRegistry()
	r.Put("User-Agent", ValueSpec{Kind: GeneratorExpr, Expr: "self._ua.random"})
	r.Put("Accept", ValueSpec{Kind: Fixed, Value: "application/json"})
	r.Put("Content-Type", ValueSpec{Kind: Fixed, Value: "application/json"})
	r.Put("X-Request-ID", ValueSpec{Kind: GeneratorExpr, Expr: "self._faker.uuid4()"})
	r.Put("X-Client", ValueSpec{Kind: GeneratorExpr, Expr: "self._faker.uuid4()"})
	r.Put("X-API-Version", ValueSpec{Kind: GeneratorExpr, Expr: "f'{random.randint(1, 5)}.{random.randint(0, 9)}'"})
	return r
}

// defaultParamRegistry seeds the generator table for common pagination
// parameters
func defaultParamRegistry() *Registry {
	r := NewRegistry()
	r.Put("offset", ValueSpec{Kind: GeneratorExpr, Expr: "random.randint(0, 1000)"})
	r.Put("limit", ValueSpec{Kind: GeneratorExpr, Expr: "random.randint(1, 1000)"})
	return r
}
