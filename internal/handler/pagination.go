package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pageParam reads the "page" query parameter, defaulting to 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return page
}

// totalPages computes the page count for a fixed page size.
func totalPages(totalItems int64, pageSize int) int {
	if pageSize <= 0 {
		pageSize = 1
	}
	return (int(totalItems) + pageSize - 1) / pageSize
}
