package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ki-assist/storefront-api/repository"
)

type UpdateProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Category    *string          `json:"category"`
	Stock       *int             `json:"stock"`
	Featured    *bool            `json:"featured"`
}

// PUT /admin/products/:id
func UpdateProduct(products repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
				return
			}
			updates["price"] = *input.Price
		}
		if input.ImageURL != nil {
			updates["image_url"] = *input.ImageURL
		}
		if input.Category != nil {
			updates["category"] = *input.Category
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Stock must not be negative"})
				return
			}
			updates["stock"] = *input.Stock
		}
		if input.Featured != nil {
			updates["featured"] = *input.Featured
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		if err := products.Update(c.Request.Context(), c.Param("id"), updates); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
	}
}
