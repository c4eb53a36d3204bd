package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

type noteResponse struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	PageNumber int       `json:"page_number"`
	BookID     int64     `json:"book_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func toNoteResponse(n *models.Note) noteResponse {
	return noteResponse{
		ID:         n.ID,
		Content:    n.Content,
		PageNumber: n.PageNumber,
		BookID:     n.BookID,
		CreatedAt:  n.CreatedAt,
	}
}

type noteRequest struct {
	Content    string `json:"content"`
	PageNumber int    `json:"page_number"`
}

func (s *Server) handleCreateNote(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := s.notes.Create(c.Request.Context(), currentUserID(c), bookID, req.Content, req.PageNumber)
	if err != nil {
		// creating a note is a write, but a denial here leaks the
		// existence of a private book, so mask it like a read
		s.renderError(c, err, true)
		return
	}

	c.JSON(http.StatusCreated, toNoteResponse(note))
}

func (s *Server) handleListNotes(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := s.notes.ListByBook(c.Request.Context(), currentUserID(c), bookID)
	if err != nil {
		s.renderError(c, err, true)
		return
	}

	responses := make([]noteResponse, 0, len(result))
	for _, n := range result {
		responses = append(responses, toNoteResponse(n))
	}
	c.JSON(http.StatusOK, responses)
}

func (s *Server) handleGetNote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	note, err := s.notes.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.renderError(c, err, true)
		return
	}

	c.JSON(http.StatusOK, toNoteResponse(note))
}

func (s *Server) handleUpdateNote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := s.notes.Update(c.Request.Context(), currentUserID(c), id, req.Content, req.PageNumber)
	if err != nil {
		// author-only resource: mask denials as not found
		s.renderError(c, err, true)
		return
	}

	c.JSON(http.StatusOK, toNoteResponse(note))
}

func (s *Server) handleDeleteNote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := s.notes.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		s.renderError(c, err, true)
		return
	}

	c.Status(http.StatusNoContent)
}
