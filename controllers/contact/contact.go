package contactControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// POST /contact
// TODO: wire an email provider; until then the request is only logged.
func SubmitContactForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ContactInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		log.Info().
			Str("name", input.Name).
			Str("email", input.Email).
			Str("message", input.Message).
			Msg("contact request received")

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Nachricht erfolgreich gesendet!"})
	}
}
