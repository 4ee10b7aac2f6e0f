// Package query turns client-supplied list parameters into a store-neutral
// query: filter criteria, projection, sort order and a page window. It also
// owns the pagination arithmetic shared by every list endpoint.
//
// Criteria use the query-string syntax popularised by query-to-mongo:
//
//	title=Go             equality
//	views>=10            range (>, >=, <, <=)
//	category!=news       inequality
//	category=go,rust     membership (!= for exclusion)
//	cover                field exists (!cover for missing)
//	title=/^intro/i      regular expression
//
// Reserved keys are limit, offset (alias skip), sort, fields and omit.
package query

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Operator is a comparison applied to a single field.
type Operator string

const (
	OpEq        Operator = "eq"
	OpNe        Operator = "ne"
	OpGt        Operator = "gt"
	OpGte       Operator = "gte"
	OpLt        Operator = "lt"
	OpLte       Operator = "lte"
	OpIn        Operator = "in"
	OpNin       Operator = "nin"
	OpExists    Operator = "exists"
	OpNotExists Operator = "not_exists"
	OpRegex     Operator = "regex"
)

// Regex is the value of an OpRegex condition.
type Regex struct {
	Pattern string
	Options string
}

// Condition is one filter term. Value is a scalar for comparisons, []any for
// OpIn/OpNin, Regex for OpRegex and nil for the existence operators.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// SortField orders results by a single field.
type SortField struct {
	Field string
	Desc  bool
}

// Projection selects returned fields. Include and Exclude are never both
// populated, except that Exclude may hold "_id" alongside an Include list.
type Projection struct {
	Include []string
	Exclude []string
}

// Query is the parsed, validated form of a list request.
type Query struct {
	Criteria   []Condition
	Projection Projection
	Sort       []SortField
	Limit      int
	Offset     int

	// raw non-window terms, kept verbatim for pagination links
	passthrough []string
}

// Options describes what a resource accepts.
type Options struct {
	// Fields is the allow-list for filtering, sorting and projection.
	Fields []string
	// IDFields hold document identifiers; their values are never coerced.
	IDFields     []string
	DefaultLimit int
	MaxLimit     int
}

func (o Options) withDefaults() Options {
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DefaultLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = MaxLimit
	}
	if o.DefaultLimit > o.MaxLimit {
		o.DefaultLimit = o.MaxLimit
	}
	return o
}

// TotalPages returns ceil(total / limit). The limit is always positive after
// Parse; a hand-built Query with no limit reports zero pages.
func (q *Query) TotalPages(total int64) int {
	if q.Limit <= 0 || total <= 0 {
		return 0
	}
	limit := int64(q.Limit)
	return int((total + limit - 1) / limit)
}
