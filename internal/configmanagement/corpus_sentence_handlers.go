package configmanagement

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pronunciation-eval-platform/internal/corpusloader"
	"pronunciation-eval-platform/internal/datastore"
	"pronunciation-eval-platform/internal/objectstore"
)

const maxUploadSize = 50 << 20 // 50 MB

// CreateCorpusSentenceHandler handles the creation of a new corpus sentence.
// It expects a multipart/form-data request with the audio clip and metadata.
func CreateCorpusSentenceHandler(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to parse multipart form: %v. Max size: %d MB", err, maxUploadSize>>20)})
		return
	}

	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		if err == http.ErrMissingFile {
			c.JSON(http.StatusBadRequest, gin.H{"error": "audio_file is required"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to get audio_file: %v", err)})
		}
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Audio file size exceeds limit of %d MB", maxUploadSize>>20)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to open uploaded file: %v", err)})
		return
	}
	defer file.Close()

	minioClient, err := objectstore.GetGlobalMinioClient()
	if err != nil {
		log.Printf("Error getting Minio client: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Object storage service not available"})
		return
	}

	objectName, err := minioClient.UploadAudio(context.Background(), fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("Error uploading file to Minio: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to upload audio file: %v", err)})
		return
	}

	// deleteOrphan removes the already-uploaded clip when a later validation
	// or DB step fails, so object storage never accumulates unreferenced audio.
	deleteOrphan := func(reason string) {
		go func() {
			if err := minioClient.DeleteAudio(context.Background(), objectName); err != nil {
				log.Printf("Failed to delete orphaned MinIO object '%s' after %s: %v", objectName, reason, err)
			}
		}()
	}

	var cs datastore.CorpusSentence
	cs.Name = c.PostForm("name")
	cs.AudioFilePath = objectName
	cs.ReferenceText = c.PostForm("reference_text")

	if cs.Name == "" {
		deleteOrphan("validation error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "name field is required"})
		return
	}
	if cs.ReferenceText == "" {
		deleteOrphan("validation error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference_text field is required"})
		return
	}

	if langCode := c.PostForm("language_code"); langCode != "" {
		cs.LanguageCode = sql.NullString{String: langCode, Valid: true}
	}
	if desc := c.PostForm("description"); desc != "" {
		cs.Description = sql.NullString{String: desc, Valid: true}
	}

	tagsStr := c.PostForm("tags") // Expecting a JSON array string e.g., ["short", "noisy"]
	if tagsStr != "" {
		if json.Valid([]byte(tagsStr)) {
			cs.Tags = json.RawMessage(tagsStr)
		} else {
			deleteOrphan("tags validation error")
			c.JSON(http.StatusBadRequest, gin.H{"error": "tags field contains invalid JSON"})
			return
		}
	} else {
		cs.Tags = json.RawMessage("null")
	}

	id, err := datastore.CreateCorpusSentence(&cs)
	if err != nil {
		deleteOrphan("DB error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create corpus sentence metadata: %v", err)})
		return
	}

	cs.ID = id
	// Refetch to get DB-generated timestamps
	createdCS, err := datastore.GetCorpusSentence(id)
	if err != nil {
		log.Printf("Failed to refetch corpus sentence %d after creation: %v", id, err)
		c.JSON(http.StatusCreated, cs)
		return
	}

	c.JSON(http.StatusCreated, createdCS)
}

// ImportCorpusSentencesHandler bulk-imports corpus sentences from an
// LJSpeech-style pipe-separated metadata file. The audio clips themselves are
// expected to already exist in object storage under `<clip_id>.wav`.
func ImportCorpusSentencesHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("metadata_file")
	if err != nil {
		if err == http.ErrMissingFile {
			c.JSON(http.StatusBadRequest, gin.H{"error": "metadata_file is required"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to get metadata_file: %v", err)})
		}
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to open uploaded file: %v", err)})
		return
	}
	defer file.Close()

	entries, err := corpusloader.ParseMetadata(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to parse metadata file: %v", err)})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metadata file contains no usable entries"})
		return
	}

	limit := 0
	if limitStr := c.PostForm("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
	}

	languageCode := c.PostForm("language_code")

	sentences := corpusloader.ToCorpusSentences(entries, languageCode, limit)
	ids, err := datastore.BulkCreateCorpusSentences(sentences)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to import corpus sentences: %v", err)})
		return
	}

	log.Printf("Imported %d corpus sentences from metadata file '%s'", len(ids), fileHeader.Filename)
	c.JSON(http.StatusCreated, gin.H{
		"imported":     len(ids),
		"sentence_ids": ids,
	})
}

// GetCorpusSentenceHandler retrieves a specific corpus sentence by its ID.
func GetCorpusSentenceHandler(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid corpus sentence ID format"})
		return
	}

	cs, err := datastore.GetCorpusSentence(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to retrieve corpus sentence: %v", err)})
		}
		return
	}

	c.JSON(http.StatusOK, cs)
}

// ListCorpusSentencesHandler lists corpus sentences, with optional filters.
func ListCorpusSentencesHandler(c *gin.Context) {
	languageCode := c.Query("language_code")
	tagsQuery := c.Query("tags") // e.g., /corpus-sentences?tags=short,noisy

	sentences, err := datastore.ListCorpusSentences(languageCode, tagsQuery)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to list corpus sentences: %v", err)})
		return
	}

	if sentences == nil {
		sentences = []*datastore.CorpusSentence{} // Return empty array instead of null
	}

	c.JSON(http.StatusOK, sentences)
}

// UpdateCorpusSentenceHandler updates metadata for an existing corpus sentence.
// Does not handle audio file replacement.
func UpdateCorpusSentenceHandler(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid corpus sentence ID format"})
		return
	}

	_, err = datastore.GetCorpusSentence(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("corpus sentence with ID %d not found", id)})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to verify corpus sentence: %v", err)})
		}
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}

	// The audio object key is owned by the upload flow.
	if _, ok := updateData["audio_file_path"]; ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio_file_path cannot be updated via this endpoint"})
		return
	}
	delete(updateData, "id")
	delete(updateData, "created_at")
	delete(updateData, "updated_at")

	updatedCS, err := datastore.UpdateCorpusSentence(id, updateData)
	if err != nil {
		if strings.Contains(err.Error(), "no valid fields provided for update") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to update corpus sentence: %v", err)})
		}
		return
	}

	c.JSON(http.StatusOK, updatedCS)
}

// DeleteCorpusSentenceHandler deletes a corpus sentence and its audio clip.
func DeleteCorpusSentenceHandler(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid corpus sentence ID format"})
		return
	}

	// Retrieve first to get the audio object key for deletion from MinIO.
	cs, err := datastore.GetCorpusSentence(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("corpus sentence with ID %d not found", id)})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to retrieve corpus sentence before deletion: %v", err)})
		}
		return
	}

	err = datastore.DeleteCorpusSentence(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to delete corpus sentence metadata: %v", err)})
		return
	}

	// DB record is gone; best-effort removal of the clip.
	if cs.AudioFilePath != "" {
		minioClient, clientErr := objectstore.GetGlobalMinioClient()
		if clientErr != nil {
			log.Printf("Error getting Minio client for file deletion: %v. DB record for ID %d deleted, but MinIO object %s may be orphaned.", clientErr, id, cs.AudioFilePath)
			c.JSON(http.StatusOK, gin.H{"message": "Corpus sentence metadata deleted successfully, but failed to connect to object storage to remove audio clip."})
			return
		}

		err = minioClient.DeleteAudio(context.Background(), cs.AudioFilePath)
		if err != nil {
			log.Printf("Failed to delete audio clip '%s' from MinIO for corpus sentence ID %d: %v. DB record was deleted.", cs.AudioFilePath, id, err)
			c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Corpus sentence metadata deleted successfully, but failed to remove audio clip '%s' from object storage: %v", cs.AudioFilePath, err)})
			return
		}
		log.Printf("Successfully deleted audio clip '%s' from MinIO for corpus sentence ID %d.", cs.AudioFilePath, id)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Corpus sentence and associated audio clip deleted successfully"})
}
