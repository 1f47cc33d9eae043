package converter

import (
	"fmt"
	"strconv"
	"strings"
)

// PageRange is an inclusive range of 1-based page numbers
type PageRange struct {
	Start int
	End   int
}

// PageRangeSet holds the pages selected for printing
type PageRangeSet struct {
	ranges []PageRange
}

// ParsePageRanges parses a page selection like "1-2,5,10-15". Pages are
// 1-based. An empty string selects every page.
func ParsePageRanges(rangeStr string) (*PageRangeSet, error) {
	set := &PageRangeSet{}

	for _, part := range strings.Split(rangeStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		first, last, isRange := strings.Cut(part, "-")
		start, err := parsePageNumber(first)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = parsePageNumber(last); err != nil {
				return nil, err
			}
		}

		if start > end {
			return nil, fmt.Errorf("start page (%d) cannot be greater than end page (%d)", start, end)
		}

		set.ranges = append(set.ranges, PageRange{Start: start, End: end})
	}

	return set, nil
}

func parsePageNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	page, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid page number: %q", s)
	}
	if page < 1 {
		return 0, fmt.Errorf("page numbers must be 1 or greater, got: %d", page)
	}
	return page, nil
}

// IsEmpty reports whether no explicit ranges were given
func (prs *PageRangeSet) IsEmpty() bool {
	return len(prs.ranges) == 0
}

// Contains checks if a page number is within any of the ranges
func (prs *PageRangeSet) Contains(pageNum int) bool {
	for _, r := range prs.ranges {
		if pageNum >= r.Start && pageNum <= r.End {
			return true
		}
	}
	return false
}

// String returns the canonical form of the selection
func (prs *PageRangeSet) String() string {
	parts := make([]string, 0, len(prs.ranges))
	for _, r := range prs.ranges {
		if r.Start == r.End {
			parts = append(parts, strconv.Itoa(r.Start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", r.Start, r.End))
		}
	}
	return strings.Join(parts, ",")
}

// ValidateAgainstTotal checks that every selected page exists
func (prs *PageRangeSet) ValidateAgainstTotal(totalPages int) error {
	for _, r := range prs.ranges {
		if r.End > totalPages {
			return fmt.Errorf("page %d exceeds total pages (%d)", r.End, totalPages)
		}
	}
	return nil
}

// Pages returns the selected page numbers in ascending order without
// duplicates. An empty set selects every page.
func (prs *PageRangeSet) Pages(totalPages int) []int {
	var pages []int
	for page := 1; page <= totalPages; page++ {
		if prs.IsEmpty() || prs.Contains(page) {
			pages = append(pages, page)
		}
	}
	return pages
}
