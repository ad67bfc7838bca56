package routes

import (
	"net/http"

	"knowledge-base-api/internal/vectorstore"
	"knowledge-base-api/models"
	"knowledge-base-api/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupKnowledgeBaseRoutes registers collection management endpoints.
// documentsCollection may be nil when the registry is disabled (tests).
func SetupKnowledgeBaseRoutes(router *gin.Engine, store vectorstore.Store, documentsCollection *mongo.Collection) {
	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "it works"})
	})

	router.GET("/knowledge_bases/", func(c *gin.Context) {
		names, err := store.List(c.Request.Context())
		if err != nil {
			utils.RespondWithMessage(c, "error occured %v", err)
			return
		}
		if names == nil {
			names = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"list of knowledge bases": names})
	})

	router.POST("/create_knowledge_base/:kb_id", func(c *gin.Context) {
		kbID := c.Param("kb_id")
		if err := store.Create(c.Request.Context(), kbID); err != nil {
			utils.RespondWithMessage(c, "error occured %v", err)
			return
		}
		utils.RespondWithMessage(c, "new knowledge base is successfully created")
	})

	router.DELETE("/knowledge_base/:kb_id", func(c *gin.Context) {
		kbID := c.Param("kb_id")
		if err := store.Delete(c.Request.Context(), kbID); err != nil {
			utils.RespondWithMessage(c, "error occurred %v", err)
			return
		}
		utils.RespondWithMessage(c, "%s deleted successfully", kbID)
	})

	router.GET("/knowledge_base/:kb_id/documents", func(c *gin.Context) {
		kbID := c.Param("kb_id")
		if documentsCollection == nil {
			c.JSON(http.StatusOK, gin.H{"documents": []models.Document{}})
			return
		}

		ctx := c.Request.Context()
		cursor, err := documentsCollection.Find(ctx,
			bson.M{"knowledge_base": kbID},
			options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}}))
		if err != nil {
			utils.RespondWithMessage(c, "error occured %v", err)
			return
		}
		defer cursor.Close(ctx)

		documents := []models.Document{}
		if err := cursor.All(ctx, &documents); err != nil {
			utils.RespondWithMessage(c, "error occured %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"documents": documents,
			"total":     len(documents),
		})
	})
}
