package routes

import (
	"knowledge-base-api/services"
	"knowledge-base-api/utils"

	"github.com/gin-gonic/gin"
)

// SetupQueryRoutes registers the question-answering endpoint.
func SetupQueryRoutes(router *gin.Engine, querySvc *services.QueryService) {
	router.POST("/query/:kb_id", func(c *gin.Context) {
		kbID := c.Param("kb_id")

		query := c.Query("query")
		if query == "" {
			utils.RespondWithMessage(c, "query parameter is required")
			return
		}

		result, err := querySvc.Answer(c.Request.Context(), kbID, query)
		if err != nil {
			utils.RespondWithMessage(c, "I couldn't retrieve data from the vector store %v", err)
			return
		}

		utils.RespondWithResult(c, result)
	})
}
