package query

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/inkwell/blog-api/internal/core/domain"
)

var (
	termPattern    = regexp.MustCompile(`^(!?)([^!=<>]+)(!=|>=|<=|=|>|<)?(.*)$`)
	numberPattern  = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)
	regexLiteral   = regexp.MustCompile(`^/(.+)/([imxs]*)$`)
	dateOnlyLayout = "2006-01-02"
)

// Parse reads a raw (still percent-encoded) query string. Terms are split on
// '&' before decoding so encoded separators inside values survive.
func Parse(raw string, opts Options) (*Query, error) {
	opts = opts.withDefaults()
	allowed := toSet(opts.Fields)
	ids := toSet(opts.IDFields)

	q := &Query{Limit: opts.DefaultLimit}

	for _, term := range strings.Split(raw, "&") {
		if term == "" {
			continue
		}
		decoded, err := url.QueryUnescape(term)
		if err != nil {
			return nil, domain.Invalid("malformed query term %q", term)
		}

		key, value, _ := strings.Cut(decoded, "=")
		switch key {
		case "limit":
			limit, err := parseLimit(value, opts)
			if err != nil {
				return nil, err
			}
			q.Limit = limit
			continue
		case "offset", "skip":
			offset, err := strconv.Atoi(value)
			if err != nil || offset < 0 {
				return nil, domain.Invalid("%s must be a non-negative integer", key)
			}
			q.Offset = offset
			continue
		case "sort":
			sort, err := parseSort(value, allowed)
			if err != nil {
				return nil, err
			}
			q.Sort = append(q.Sort, sort...)
		case "fields":
			if err := parseFields(value, allowed, &q.Projection, false); err != nil {
				return nil, err
			}
		case "omit":
			if err := parseFields(value, allowed, &q.Projection, true); err != nil {
				return nil, err
			}
		default:
			cond, err := parseCondition(decoded, allowed, ids)
			if err != nil {
				return nil, err
			}
			q.Criteria = append(q.Criteria, cond)
		}
		q.passthrough = append(q.passthrough, term)
	}

	if len(q.Projection.Include) > 0 {
		for _, f := range q.Projection.Exclude {
			if f != "_id" {
				return nil, domain.Invalid("fields cannot mix inclusion and exclusion")
			}
		}
	}

	return q, nil
}

func parseLimit(value string, opts Options) (int, error) {
	if value == "" {
		return opts.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 0 {
		return 0, domain.Invalid("limit must be a non-negative integer")
	}
	switch {
	case limit == 0:
		return opts.DefaultLimit, nil
	case limit > opts.MaxLimit:
		return opts.MaxLimit, nil
	}
	return limit, nil
}

func parseSort(value string, allowed map[string]struct{}) ([]SortField, error) {
	var out []SortField
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sf := SortField{Field: part}
		switch part[0] {
		case '-':
			sf = SortField{Field: part[1:], Desc: true}
		case '+':
			sf.Field = part[1:]
		}
		if _, ok := allowed[sf.Field]; !ok {
			return nil, domain.Invalid("cannot sort by %q", sf.Field)
		}
		out = append(out, sf)
	}
	return out, nil
}

func parseFields(value string, allowed map[string]struct{}, p *Projection, omit bool) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		exclude := omit
		if strings.HasPrefix(part, "-") {
			exclude = true
			part = part[1:]
		}
		if _, ok := allowed[part]; !ok {
			return domain.Invalid("unknown field %q", part)
		}
		if exclude {
			p.Exclude = append(p.Exclude, part)
		} else {
			p.Include = append(p.Include, part)
		}
	}
	return nil
}

func parseCondition(term string, allowed, ids map[string]struct{}) (Condition, error) {
	m := termPattern.FindStringSubmatch(term)
	if m == nil {
		return Condition{}, domain.Invalid("malformed filter %q", term)
	}
	negated, field, op, raw := m[1] == "!", m[2], m[3], m[4]

	if _, ok := allowed[field]; !ok {
		return Condition{}, domain.Invalid("unknown field %q", field)
	}

	if op == "" {
		if raw != "" {
			return Condition{}, domain.Invalid("malformed filter %q", term)
		}
		if negated {
			return Condition{Field: field, Op: OpNotExists}, nil
		}
		return Condition{Field: field, Op: OpExists}, nil
	}
	if negated {
		return Condition{}, domain.Invalid("malformed filter %q", term)
	}

	_, isID := ids[field]

	switch op {
	case "=":
		if rm := regexLiteral.FindStringSubmatch(raw); rm != nil && !isID {
			return Condition{Field: field, Op: OpRegex, Value: Regex{Pattern: rm[1], Options: rm[2]}}, nil
		}
		if strings.Contains(raw, ",") {
			return Condition{Field: field, Op: OpIn, Value: coerceList(raw, isID)}, nil
		}
		return Condition{Field: field, Op: OpEq, Value: coerce(raw, isID)}, nil
	case "!=":
		if strings.Contains(raw, ",") {
			return Condition{Field: field, Op: OpNin, Value: coerceList(raw, isID)}, nil
		}
		return Condition{Field: field, Op: OpNe, Value: coerce(raw, isID)}, nil
	case ">":
		return Condition{Field: field, Op: OpGt, Value: coerce(raw, isID)}, nil
	case ">=":
		return Condition{Field: field, Op: OpGte, Value: coerce(raw, isID)}, nil
	case "<":
		return Condition{Field: field, Op: OpLt, Value: coerce(raw, isID)}, nil
	default: // "<="
		return Condition{Field: field, Op: OpLte, Value: coerce(raw, isID)}, nil
	}
}

func coerceList(raw string, isID bool) []any {
	parts := strings.Split(raw, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		out = append(out, coerce(p, isID))
	}
	return out
}

// coerce converts a raw value to the most specific type it parses as.
// Double quotes force a string.
func coerce(raw string, isID bool) any {
	if isID {
		return raw
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	if numberPattern.MatchString(raw) {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t
	}
	return raw
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
