package queryir

// Query represents an abstract query.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode()
}

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode()
}

// Select reads rows from a source with an optional filter.
//
// Semantics:
//
//	SELECT * FROM <from> WHERE <filter> ORDER BY seq, id LIMIT <limit>
//
// Limit 0 means no limit. Row order is always the logical insertion order.
type Select struct {
	From   string    // Source name (e.g., "runs")
	Filter Predicate // WHERE conditions (nil = no filter)
	Limit  int
}

func (Select) queryNode() {}

// Equals matches rows whose field equals Value.
type Equals struct {
	Field string
	Value any // string, int or int64
}

func (Equals) predicateNode() {}

// AtLeast matches rows whose numeric field is >= Value.
type AtLeast struct {
	Field string
	Value int64
}

func (AtLeast) predicateNode() {}

// And matches rows satisfying every predicate. An empty And matches all
// rows.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
