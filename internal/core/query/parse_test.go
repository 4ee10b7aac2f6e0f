package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/blog-api/internal/core/domain"
)

var blogOpts = Options{
	Fields:   []string{"_id", "title", "category", "author", "readTime.value", "createdAt", "cover"},
	IDFields: []string{"_id", "author"},
}

func TestParse_Defaults(t *testing.T) {
	q, err := Parse("", blogOpts)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Empty(t, q.Criteria)
	assert.Empty(t, q.Sort)
}

func TestParse_LimitFallbacks(t *testing.T) {
	cases := map[string]int{
		"limit=0":   DefaultLimit,
		"limit=":    DefaultLimit,
		"limit=5":   5,
		"limit=500": MaxLimit,
	}
	for raw, want := range cases {
		q, err := Parse(raw, blogOpts)
		require.NoError(t, err, raw)
		assert.Equal(t, want, q.Limit, raw)
	}

	_, err := Parse("limit=-1", blogOpts)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = Parse("limit=ten", blogOpts)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParse_OffsetAndSkipAlias(t *testing.T) {
	q, err := Parse("offset=40", blogOpts)
	require.NoError(t, err)
	assert.Equal(t, 40, q.Offset)

	q, err = Parse("skip=10", blogOpts)
	require.NoError(t, err)
	assert.Equal(t, 10, q.Offset)

	_, err = Parse("offset=-3", blogOpts)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParse_Operators(t *testing.T) {
	q, err := Parse("category=go&title!=draft&readTime.value>=5&readTime.value<12&cover&!author", blogOpts)
	require.NoError(t, err)
	require.Len(t, q.Criteria, 6)

	assert.Equal(t, Condition{Field: "category", Op: OpEq, Value: "go"}, q.Criteria[0])
	assert.Equal(t, Condition{Field: "title", Op: OpNe, Value: "draft"}, q.Criteria[1])
	assert.Equal(t, Condition{Field: "readTime.value", Op: OpGte, Value: int64(5)}, q.Criteria[2])
	assert.Equal(t, Condition{Field: "readTime.value", Op: OpLt, Value: int64(12)}, q.Criteria[3])
	assert.Equal(t, Condition{Field: "cover", Op: OpExists}, q.Criteria[4])
	assert.Equal(t, Condition{Field: "author", Op: OpNotExists}, q.Criteria[5])
}

func TestParse_EncodedOperators(t *testing.T) {
	q, err := Parse("readTime.value%3E3", blogOpts)
	require.NoError(t, err)
	require.Len(t, q.Criteria, 1)
	assert.Equal(t, OpGt, q.Criteria[0].Op)
	assert.Equal(t, int64(3), q.Criteria[0].Value)
}

func TestParse_ListsAndRegex(t *testing.T) {
	q, err := Parse("category=go,rust&title!=a,b&title=/^intro/i", blogOpts)
	require.NoError(t, err)
	require.Len(t, q.Criteria, 3)

	assert.Equal(t, OpIn, q.Criteria[0].Op)
	assert.Equal(t, []any{"go", "rust"}, q.Criteria[0].Value)
	assert.Equal(t, OpNin, q.Criteria[1].Op)
	assert.Equal(t, Condition{Field: "title", Op: OpRegex, Value: Regex{Pattern: "^intro", Options: "i"}}, q.Criteria[2])
}

func TestParse_Coercion(t *testing.T) {
	assert.Equal(t, int64(42), coerce("42", false))
	assert.Equal(t, 4.5, coerce("4.5", false))
	assert.Equal(t, true, coerce("true", false))
	assert.Equal(t, "42", coerce(`"42"`, false))
	assert.Equal(t, "NaN", coerce("NaN", false))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), coerce("2024-03-01", false))
	assert.Equal(t, "65f1c0ffee0000000000beef", coerce("65f1c0ffee0000000000beef", true))
	assert.Equal(t, "123", coerce("123", true))
}

func TestParse_IDFieldsAreNotCoerced(t *testing.T) {
	q, err := Parse("author=65f1c0ffee0000000000beef", blogOpts)
	require.NoError(t, err)
	assert.Equal(t, "65f1c0ffee0000000000beef", q.Criteria[0].Value)
}

func TestParse_SortAndProjection(t *testing.T) {
	q, err := Parse("sort=-createdAt,title&fields=title,category", blogOpts)
	require.NoError(t, err)
	assert.Equal(t, []SortField{{Field: "createdAt", Desc: true}, {Field: "title"}}, q.Sort)
	assert.Equal(t, []string{"title", "category"}, q.Projection.Include)

	q, err = Parse("omit=cover", blogOpts)
	require.NoError(t, err)
	assert.Equal(t, []string{"cover"}, q.Projection.Exclude)

	_, err = Parse("fields=title,-cover", blogOpts)
	assert.ErrorIs(t, err, domain.ErrValidation)

	q, err = Parse("fields=title,-_id", blogOpts)
	require.NoError(t, err)
	assert.Equal(t, []string{"_id"}, q.Projection.Exclude)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	for _, raw := range []string{"password=x", "sort=password", "fields=password", "!password", "=5", "title!x"} {
		_, err := Parse(raw, blogOpts)
		assert.ErrorIs(t, err, domain.ErrValidation, raw)
	}
}
