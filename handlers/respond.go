package handlers

import (
	"net/http"
	"strconv"

	"kree/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pagination is the paging block attached to list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func paginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func newPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondList(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": p})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// respondErr maps service errors to their HTTP status and logs the
// unexpected ones.
func respondErr(c *gin.Context, err error) {
	switch {
	case utils.IsNotFound(err), utils.IsNotAuthorized(err), utils.IsValidation(err), utils.IsConflict(err):
	default:
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	utils.RespondError(c, err)
}
