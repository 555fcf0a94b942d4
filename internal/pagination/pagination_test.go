package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit}, Parse("", ""))
	assert.Equal(t, Params{Page: 3, Limit: 6}, Parse("3", "6"))
	assert.Equal(t, Params{Page: 1, Limit: MaxLimit}, Parse("-2", "1000"))
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit}, Parse("abc", "0"))
	assert.Equal(t, 12, Params{Page: 3, Limit: 6}.Offset())
}

func TestNewLinks(t *testing.T) {
	self, err := url.Parse("http://api.test/api/recipes?limit=2&page=2&author=5")
	require.NoError(t, err)

	page := New([]int{3, 4}, 5, Params{Page: 2, Limit: 2}, self)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://api.test/api/recipes?author=5&limit=2&page=3", *page.Next)
	assert.Equal(t, "http://api.test/api/recipes?author=5&limit=2", *page.Previous)
	assert.EqualValues(t, 5, page.Count)
}

func TestNewLastPage(t *testing.T) {
	self, err := url.Parse("http://api.test/api/users")
	require.NoError(t, err)

	page := New[int](nil, 1, Params{Page: 1, Limit: 10}, self)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.Equal(t, []int{}, page.Results)
}
