package utils

import "strconv"

const maxPageSize = 100

// Page parses page/page_size query values into a limit and offset.
func Page(pageStr, sizeStr string, defSize int) (limit, offset int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		size = defSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return size, (page - 1) * size
}
