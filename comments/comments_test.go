package comments

import (
	"testing"

	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsecutiveComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.builder")
	defer teardown()
	//
	c := New()
	c.Add("# one\n")
	c.Add("# two\n")
	assert.True(t, c.Keyword("def", ripperparser.Pos{Line: 3}))
	e, err := c.Pop("def")
	require.NoError(t, err)
	assert.Equal(t, "# one\n# two\n", e.Text)
	assert.Equal(t, 3, e.Pos.Line)
}

func TestInterruptDropsComments(t *testing.T) {
	c := New()
	c.Add("# dropped\n")
	c.Interrupt()
	c.Keyword("class", ripperparser.Pos{Line: 2})
	e, err := c.Pop("class")
	require.NoError(t, err)
	assert.Equal(t, "", e.Text)
}

func TestSymbolsAreNotConstructs(t *testing.T) {
	c := New()
	c.Add("# c\n")
	c.EnterSymbol()
	assert.False(t, c.Keyword("class", ripperparser.Pos{}))
	c.LeaveSymbol()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Keyword("if", ripperparser.Pos{}))
	assert.Equal(t, "# c\n", c.Buffer())
}

func TestNesting(t *testing.T) {
	c := New()
	c.Add("# class\n")
	c.Keyword("class", ripperparser.Pos{Line: 2})
	c.Add("# method\n")
	c.Keyword("def", ripperparser.Pos{Line: 4})
	c.Add("# inside\n")
	inner, err := c.Pop("def")
	require.NoError(t, err)
	outer, err := c.Pop("class")
	require.NoError(t, err)
	assert.Equal(t, "# method\n", inner.Text)
	assert.Equal(t, "# class\n", outer.Text)
	assert.Equal(t, "", c.Buffer(), "comments inside the body are dropped")
}

func TestPopErrors(t *testing.T) {
	c := New()
	_, err := c.Pop("def")
	assert.True(t, ripperparser.IsInternalError(err))
	c.Keyword("module", ripperparser.Pos{})
	_, err = c.Pop("def")
	assert.True(t, ripperparser.IsInternalError(err))
}
