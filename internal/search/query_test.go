package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobscout/search-service/internal/search"
)

func TestQueryValidate(t *testing.T) {
	base := search.Query{Keywords: "go", Location: "remote", MaxDaysSincePosted: 7, Limit: 10}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base.Validate())
	})

	t.Run("empty keywords and location are allowed", func(t *testing.T) {
		q := base
		q.Keywords, q.Location = "", ""
		assert.NoError(t, q.Validate())
	})

	cases := []struct {
		name   string
		mutate func(*search.Query)
	}{
		{"limit zero", func(q *search.Query) { q.Limit = 0 }},
		{"limit negative", func(q *search.Query) { q.Limit = -5 }},
		{"limit above 100", func(q *search.Query) { q.Limit = 101 }},
		{"window zero", func(q *search.Query) { q.MaxDaysSincePosted = 0 }},
		{"window above 120", func(q *search.Query) { q.MaxDaysSincePosted = 121 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := base
			c.mutate(&q)
			err := q.Validate()
			assert.Error(t, err)
			assert.IsType(t, &search.ValidationError{}, err)
		})
	}
}

func TestQuerySearchKey(t *testing.T) {
	a := search.Query{Keywords: "Remote Jobs", Location: " NYC "}
	b := search.Query{Keywords: "remote jobs", Location: "nyc"}
	assert.Equal(t, a.SearchKey(), b.SearchKey(),
		"search key must be case- and whitespace-insensitive")

	c := search.Query{Keywords: "remote jobs", Location: "boston"}
	assert.NotEqual(t, a.SearchKey(), c.SearchKey())
}

func TestQueryNormalizedLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{3, 10},
		{10, 10},
		{23, 20},
		{99, 90},
		{100, 100},
	}
	for _, c := range cases {
		q := search.Query{Limit: c.in}
		assert.Equal(t, c.want, q.NormalizedLimit(), "limit %d", c.in)
	}
}
