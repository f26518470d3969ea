package productControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ki-assist/storefront-api/repository"
)

// GetProducts lists the catalog with optional filters:
// ?category=...&featured=true&search=...&min_price=...&max_price=...&sort_by=price&order=asc
func GetProducts(products repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repository.ProductFilter{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			MinPrice: c.Query("min_price"),
			MaxPrice: c.Query("max_price"),
			SortBy:   c.DefaultQuery("sort_by", "created_at"),
			Order:    strings.ToLower(c.DefaultQuery("order", "desc")),
		}

		if featuredStr := c.Query("featured"); featuredStr != "" {
			featured, err := strconv.ParseBool(featuredStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid featured flag"})
				return
			}
			filter.Featured = &featured
		}

		list, err := products.List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
