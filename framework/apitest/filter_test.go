package apitest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(path ...string) TestID { return TestID{Path: path} }

func TestRegexFilters(t *testing.T) {
	var f RegexFilters
	assert.True(t, f.AsFilter(id("anything")))

	require.NoError(t, f.MustMatch.Set("^create"))
	require.NoError(t, f.MustNotMatch.Set("wrong type"))
	assert.True(t, f.AsFilter(id("create user", "empty name")))
	assert.False(t, f.AsFilter(id("create user", "name of wrong type")))
	assert.False(t, f.AsFilter(id("users listing")))

	assert.Equal(t, `"^create"`, f.MustMatch.String())
	assert.Equal(t, []string{"^create"}, f.MustMatch.Patterns())
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var r RegexList
	assert.Error(t, r.Set("("))
	assert.False(t, r.IsDefined())
}

func TestExactMatchSelectsTestWithParentsAndChildren(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set(ExactMatch(id("create user", "valid (payload)"))))

	assert.True(t, f.AsFilter(id("create user")))
	assert.True(t, f.AsFilter(id("create user", "valid (payload)")))
	assert.True(t, f.AsFilter(id("create user", "valid (payload)", "child")))
	assert.False(t, f.AsFilter(id("create user", "empty name")))
	assert.False(t, f.AsFilter(id("create user", "valid (payload)x")))
	assert.False(t, f.AsFilter(id("users listing")))
}

func TestPrintFilterDescription(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("a"))
	require.NoError(t, f.MustNotMatch.Set("b"))
	var out bytes.Buffer
	PrintFilterDescription(&out, f, []string{"x", "y", "z"}, Capabilities{"y"})
	assert.Contains(t, out.String(), `skip any not matching "a"`)
	assert.Contains(t, out.String(), `skip any matching "b"`)
	assert.Contains(t, out.String(), "  x, z\n")
}

func TestPrintFilterDescriptionWithNothingToReport(t *testing.T) {
	var out bytes.Buffer
	PrintFilterDescription(&out, RegexFilters{}, []string{"x"}, Capabilities{"x"})
	assert.Empty(t, out.String())
}

func TestCapabilities(t *testing.T) {
	c := Capabilities{"a", "b"}
	assert.True(t, c.Has("a"))
	assert.False(t, c.Has("c"))
	assert.True(t, c.HasAll("a", "b"))
	assert.False(t, c.HasAll("a", "c"))
	assert.Equal(t, []string{"c"}, c.Missing([]string{"a", "c", "b"}))
}
