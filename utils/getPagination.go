package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const MaxPageLimit = 100

// Pagination is optional: a zero Limit means "everything".
type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

func GetPagination(c *gin.Context) Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	skip := 0
	if limit > 0 {
		skip = (page - 1) * limit
	}

	return Pagination{
		Page:  page,
		Limit: limit,
		Skip:  skip,
	}
}

// Scope applies offset/limit to a query.
func (p Pagination) Scope(db *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return db
	}
	return db.Offset(p.Skip).Limit(p.Limit)
}
