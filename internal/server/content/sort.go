package content

import (
	"slices"
	"strings"
)

const (
	SortLatest = "latest"
	SortOldest = "oldest"
)

// ParseSort maps a query value to SortLatest or SortOldest.
func ParseSort(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), SortOldest) {
		return SortOldest
	}
	return SortLatest
}

// SortBlogPosts returns a copy of posts ordered by date, newest first for
// SortLatest and oldest first for SortOldest. Ties break on ID, so one order
// is always the exact reverse of the other. Undated posts count as the
// oldest.
func SortBlogPosts(posts []BlogPost, order string) []BlogPost {
	out := slices.Clone(posts)
	oldest := ParseSort(order) == SortOldest

	slices.SortFunc(out, func(a, b BlogPost) int {
		c := a.Date.Compare(b.Date)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if !oldest {
			c = -c
		}
		return c
	})
	return out
}
