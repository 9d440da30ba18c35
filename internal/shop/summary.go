package shop

import (
	"fmt"

	"github.com/wizzzeystore/wizzzey-store-web/internal/catalog"
	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
)

const windowThreshold = 5

// Summary is the result count label above the product grid. It is empty
// until a generation has settled.
func Summary(v catalog.View) string {
	if v.Status != catalog.StatusSettled {
		return ""
	}
	if v.Explicit {
		return fmt.Sprintf("%d selected products", len(v.Items))
	}

	p := v.Pagination
	if p.Total <= 0 {
		return "0 products found"
	}
	first := (p.Page-1)*p.Limit + 1
	last := min(p.Page*p.Limit, p.Total)
	return fmt.Sprintf("Showing %d-%d of %d products", first, last, p.Total)
}

// Title names the page after the selection, the first selected category or
// the whole catalog.
func Title(s filter.State, af catalog.AvailableFilters) string {
	if s.Explicit() {
		return "Selected Products"
	}
	if len(s.CategoryIDs) > 0 {
		if name, ok := af.CategoryName(s.CategoryIDs[0]); ok && name != "" {
			return name
		}
	}
	return "All Products"
}

// PageWindow lists the page links to show. Short result sets list every
// page; longer ones keep the first, last and neighbours of the current page,
// with an ellipsis two pages away from it. Explicit selections and single
// pages have no pagination.
func PageWindow(v catalog.View) []PageLink {
	p := v.Pagination
	if v.Explicit || v.Status != catalog.StatusSettled || p.TotalPages <= 1 {
		return nil
	}

	links := make([]PageLink, 0, min(p.TotalPages, 2*windowThreshold))
	for n := 1; n <= p.TotalPages; n++ {
		switch {
		case p.TotalPages <= windowThreshold || n == 1 || n == p.TotalPages ||
			(n >= p.Page-1 && n <= p.Page+1):
			links = append(links, PageLink{Number: n, Current: n == p.Page})
		case n == p.Page-2 || n == p.Page+2:
			links = append(links, PageLink{Ellipsis: true})
		}
	}
	return links
}
