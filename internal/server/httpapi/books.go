package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

type bookResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Genre      string    `json:"genre"`
	Visibility string    `json:"visibility"`
	OwnerID    int64     `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func toBookResponse(b *models.Book) bookResponse {
	return bookResponse{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Genre:      b.Genre,
		Visibility: string(b.Visibility),
		OwnerID:    b.OwnerID,
		CreatedAt:  b.CreatedAt,
	}
}

func toBookResponses(bs []*models.Book) []bookResponse {
	result := make([]bookResponse, 0, len(bs))
	for _, b := range bs {
		result = append(result, toBookResponse(b))
	}
	return result
}

type bookRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Genre      string `json:"genre"`
	Visibility string `json:"visibility"`
}

func (s *Server) handleCreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := s.books.Create(c.Request.Context(), currentUserID(c),
		req.Title, req.Author, req.Genre, models.Visibility(req.Visibility))
	if err != nil {
		s.renderError(c, err, false)
		return
	}

	c.JSON(http.StatusCreated, toBookResponse(book))
}

func (s *Server) handleGetBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	book, err := s.books.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.renderError(c, err, true)
		return
	}

	c.JSON(http.StatusOK, toBookResponse(book))
}

func (s *Server) handleListBooks(c *gin.Context) {
	result, err := s.books.ListVisible(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.renderError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, toBookResponses(result))
}

func (s *Server) handleListOwnBooks(c *gin.Context) {
	result, err := s.books.ListOwn(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.renderError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, toBookResponses(result))
}

func (s *Server) handleSearchBooks(c *gin.Context) {
	result, err := s.books.Search(c.Request.Context(), currentUserID(c), c.Query("q"))
	if err != nil {
		s.renderError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, toBookResponses(result))
}

func (s *Server) handleUpdateBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := s.books.Update(c.Request.Context(), currentUserID(c), id,
		req.Title, req.Author, req.Genre, models.Visibility(req.Visibility))
	if err != nil {
		s.renderError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, toBookResponse(book))
}

func (s *Server) handleDeleteBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := s.books.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		s.renderError(c, err, false)
		return
	}

	c.Status(http.StatusNoContent)
}

type attachFileRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileType string `json:"file_type" binding:"required"`
	Size     int64  `json:"size" binding:"required"`
}

func (s *Server) handleAttachFile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req attachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upload, err := s.books.AttachFile(c.Request.Context(), currentUserID(c), id,
		req.FileName, req.FileType, req.Size)
	if err != nil {
		s.renderError(c, err, false)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"upload_url": upload.URL,
		"file": gin.H{
			"id":        upload.Metadata.ID,
			"file_name": upload.Metadata.FileName,
			"file_type": upload.Metadata.FileType,
			"size":      upload.Metadata.Size,
		},
	})
}

func (s *Server) handleGetFile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	download, err := s.books.GetFileURL(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.renderError(c, err, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"download_url": download.URL,
		"file": gin.H{
			"id":        download.Metadata.ID,
			"file_name": download.Metadata.FileName,
			"file_type": download.Metadata.FileType,
			"size":      download.Metadata.Size,
		},
	})
}

func (s *Server) handleDetachFile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := s.books.DetachFile(c.Request.Context(), currentUserID(c), id); err != nil {
		s.renderError(c, err, false)
		return
	}

	c.Status(http.StatusNoContent)
}
