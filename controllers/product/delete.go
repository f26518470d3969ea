package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ki-assist/storefront-api/repository"
)

// DELETE /admin/products/:id
func DeleteProduct(products repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
