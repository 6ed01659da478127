package configmanagement

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pronunciation-eval-platform/internal/datastore"
)

// CreateEngineConfigHandler handles the creation of a new engine configuration.
func CreateEngineConfigHandler(c *gin.Context) {
	var ec datastore.EngineConfig
	if err := c.ShouldBindJSON(&ec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if ec.Name == "" || ec.EngineType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and engine_type are required fields"})
		return
	}

	if len(ec.SupportedModels) > 0 {
		if !json.Valid(ec.SupportedModels) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "supported_models is not valid JSON"})
			return
		}
	} else {
		ec.SupportedModels = json.RawMessage("null")
	}

	if len(ec.OtherConfigs) > 0 {
		if !json.Valid(ec.OtherConfigs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "other_configs is not valid JSON"})
			return
		}
	} else {
		ec.OtherConfigs = json.RawMessage("null")
	}

	id, err := datastore.CreateEngineConfig(&ec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create engine config: " + err.Error()})
		return
	}

	ec.ID = id
	c.JSON(http.StatusCreated, ec)
}

// GetEngineConfigHandler retrieves a specific engine configuration by its ID.
func GetEngineConfigHandler(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid engine config ID format"})
		return
	}

	ec, err := datastore.GetEngineConfig(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve engine config: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, ec)
}

// UpdateEngineConfigHandler updates an existing engine configuration.
func UpdateEngineConfigHandler(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid engine config ID format"})
		return
	}

	var ec datastore.EngineConfig
	if err := c.ShouldBindJSON(&ec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	ec.ID = id // The ID from the path wins

	if ec.Name == "" || ec.EngineType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and engine_type are required fields"})
		return
	}

	if len(ec.SupportedModels) > 0 {
		if !json.Valid(ec.SupportedModels) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "supported_models is not valid JSON"})
			return
		}
	} else {
		ec.SupportedModels = json.RawMessage("null")
	}

	if len(ec.OtherConfigs) > 0 {
		if !json.Valid(ec.OtherConfigs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "other_configs is not valid JSON"})
			return
		}
	} else {
		ec.OtherConfigs = json.RawMessage("null")
	}

	err = datastore.UpdateEngineConfig(&ec)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update engine config: " + err.Error()})
		}
		return
	}

	updatedEC, err := datastore.GetEngineConfig(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve updated engine config: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, updatedEC)
}

// DeleteEngineConfigHandler deletes an engine configuration by its ID.
func DeleteEngineConfigHandler(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid engine config ID format"})
		return
	}

	err = datastore.DeleteEngineConfig(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete engine config: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Engine config deleted successfully"})
}

// ListEngineConfigsHandler lists engine configurations, optionally filtered by engine_type.
func ListEngineConfigsHandler(c *gin.Context) {
	engineType := c.Query("engine_type") // e.g., /engines?engine_type=GOOGLE

	configs, err := datastore.ListEngineConfigs(engineType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list engine configs: " + err.Error()})
		return
	}

	if configs == nil {
		configs = []*datastore.EngineConfig{} // Return empty array instead of null
	}

	c.JSON(http.StatusOK, configs)
}
