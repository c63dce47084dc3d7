package pagination

import "strconv"

// PageSize is the number of entries returned per page once a listing crosses
// the threshold.
const PageSize = 10

// ParsePage reads the page query parameter. Missing, non-numeric and
// non-positive values all mean the first page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// Paginated reports whether a table holding total rows is served page by page.
// Small tables are returned whole.
func Paginated(total int) bool {
	return total > PageSize
}
