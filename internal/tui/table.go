package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// defaultPageSize is the number of sets shown per page of the results panel.
const defaultPageSize = 4

// pager pages through the rows of the results panel.
type pager struct {
	page     int // 0-indexed
	pageSize int
}

func newPager() pager {
	return pager{pageSize: defaultPageSize}
}

// Update handles the page keys. It reports whether the key was consumed.
func (p *pager) Update(msg tea.KeyMsg, totalRows int) bool {
	switch {
	case key.Matches(msg, keys.PrevPage):
		if p.page > 0 {
			p.page--
		}
	case key.Matches(msg, keys.NextPage):
		p.page++
		p.clampPage(totalRows)
	default:
		return false
	}
	return true
}

func (p *pager) reset() { p.page = 0 }

// pageCount returns the total number of pages for totalRows rows at pageSize rows per page.
// Always at least 1.
func pageCount(totalRows, pageSize int) int {
	if totalRows == 0 || pageSize <= 0 {
		return 1
	}
	c := totalRows / pageSize
	if totalRows%pageSize != 0 {
		c++
	}
	return c
}

// currentPageIndices returns the slice of row indices visible on the current page.
func currentPageIndices(allIndices []int, page, pageSize int) []int {
	if pageSize <= 0 || len(allIndices) == 0 {
		return allIndices
	}
	start := page * pageSize
	if start >= len(allIndices) {
		start = 0
	}
	end := min(start+pageSize, len(allIndices))
	return allIndices[start:end]
}

// clampPage ensures the page index stays within valid bounds given the total
// number of rows and the configured pageSize.
func (p *pager) clampPage(totalRows int) {
	pc := pageCount(totalRows, p.pageSize)
	if p.page >= pc {
		p.page = pc - 1
	}
	if p.page < 0 {
		p.page = 0
	}
}
