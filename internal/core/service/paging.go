package service

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// normalizePage clamps skip and limit to the accepted range.
func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	switch {
	case limit <= 0:
		limit = defaultPageLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}
	return skip, limit
}
