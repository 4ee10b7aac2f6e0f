package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/query"
)

var operators = map[query.Operator]string{
	query.OpEq:  "$eq",
	query.OpNe:  "$ne",
	query.OpGt:  "$gt",
	query.OpGte: "$gte",
	query.OpLt:  "$lt",
	query.OpLte: "$lte",
	query.OpIn:  "$in",
	query.OpNin: "$nin",
}

// buildFilter translates criteria into a filter document. Conditions on the
// same field are merged so ranges like a>=1&a<5 apply together. Values of
// idFields are converted to ObjectIDs.
func buildFilter(criteria []query.Condition, idFields map[string]bool) (bson.M, error) {
	filter := bson.M{}
	for _, c := range criteria {
		var expr bson.M
		switch c.Op {
		case query.OpExists:
			expr = bson.M{"$exists": true}
		case query.OpNotExists:
			expr = bson.M{"$exists": false}
		case query.OpRegex:
			re, _ := c.Value.(query.Regex)
			expr = bson.M{"$regex": primitive.Regex{Pattern: re.Pattern, Options: re.Options}}
		default:
			op, ok := operators[c.Op]
			if !ok {
				return nil, domain.Invalid("unsupported operator %q", c.Op)
			}
			value := c.Value
			if idFields[c.Field] {
				converted, err := toObjectIDs(value)
				if err != nil {
					return nil, err
				}
				value = converted
			}
			expr = bson.M{op: value}
		}

		existing, ok := filter[c.Field].(bson.M)
		if !ok {
			filter[c.Field] = expr
			continue
		}
		for k, v := range expr {
			existing[k] = v
		}
	}

	// collapse {field: {$eq: v}} to {field: v}
	for field, v := range filter {
		if m, ok := v.(bson.M); ok && len(m) == 1 {
			if eq, ok := m["$eq"]; ok {
				filter[field] = eq
			}
		}
	}
	return filter, nil
}

func toObjectIDs(value any) (any, error) {
	switch v := value.(type) {
	case string:
		oid, ok := objectID(v)
		if !ok {
			return nil, domain.Invalid("%q is not a valid id", v)
		}
		return oid, nil
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			converted, err := toObjectIDs(item)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return value, nil
}

// buildProjection returns nil when every field should be returned. hidden
// fields are excluded unless the client asked for an inclusion list, which
// cannot name them anyway.
func buildProjection(p query.Projection, hidden ...string) bson.M {
	out := bson.M{}
	for _, f := range p.Include {
		out[f] = 1
	}
	for _, f := range p.Exclude {
		out[f] = 0
	}
	if len(p.Include) == 0 {
		for _, f := range hidden {
			out[f] = 0
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// buildSort keeps the client's order and appends _id so pages are stable.
func buildSort(fields []query.SortField) bson.D {
	sort := bson.D{}
	hasID := false
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		if f.Field == "_id" {
			hasID = true
		}
		sort = append(sort, bson.E{Key: f.Field, Value: dir})
	}
	if !hasID {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}

func findOptions(q *query.Query, hidden ...string) *options.FindOptions {
	opts := options.Find().
		SetSort(buildSort(q.Sort)).
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit))
	if proj := buildProjection(q.Projection, hidden...); proj != nil {
		opts.SetProjection(proj)
	}
	return opts
}

func toSet(fields ...string) map[string]bool {
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[f] = true
	}
	return out
}
