package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ki-assist/storefront-api/repository"
)

func currentUserID(c *gin.Context) string {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	userID, _ := userIDVal.(string)
	return userID
}

// GET /user
func GetUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.GetByID(c.Request.Context(), currentUserID(c))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			}
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
