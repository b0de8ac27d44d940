package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	require.Equal(t, Pagination{Total: 45, Page: 2, Pages: 3, Limit: 20}, p)

	p = NewPagination(1, 20, 0)
	require.Equal(t, 0, p.Pages)

	// Defaults kick in for nonsense input.
	p = NewPagination(0, -5, 10)
	require.Equal(t, DefaultPage, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
}

func TestClampLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, ClampLimit(0))
	require.Equal(t, 50, ClampLimit(50))
	require.Equal(t, MaxLimit, ClampLimit(5000))
}
