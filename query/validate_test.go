package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructurallyValid(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"anonymous query", "{ viewer { id } }", true},
		{"named query", "query GetViewer { viewer { id } }", true},
		{"mutation", "mutation Create { create { id } }", true},
		{"leading comments", "# fetch the viewer\n# second line\n{ viewer { id } }", true},
		{"comment containing brace", "{ viewer { id } } # trailing { comment", true},
		{"empty", "", false},
		{"whitespace only", "   \n\t", false},
		{"comment only", "# nothing here", false},
		{"unknown keyword", "subscription { events }", false},
		{"unbalanced open", "{ viewer { id }", false},
		{"unbalanced close", "{ viewer } }", false},
		{"depth goes negative", "} {", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StructurallyValid(tc.text))
		})
	}
}

func TestValidate_FullParse(t *testing.T) {
	require.NoError(t, Validate("ok.graphql", "query GetViewer { viewer { id name } }"))

	err := Validate("bad.graphql", "query { viewer { id ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.graphql")

	require.Error(t, Validate("empty.graphql", "  \n"))
}
