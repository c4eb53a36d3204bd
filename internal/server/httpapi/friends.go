package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

type friendshipResponse struct {
	ID          int64     `json:"id"`
	RequesterID int64     `json:"requester_id"`
	RecipientID int64     `json:"recipient_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toFriendshipResponse(f *models.Friendship) friendshipResponse {
	return friendshipResponse{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		RecipientID: f.RecipientID,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
	}
}

func toFriendshipResponses(fs []*models.Friendship) []friendshipResponse {
	result := make([]friendshipResponse, 0, len(fs))
	for _, f := range fs {
		result = append(result, toFriendshipResponse(f))
	}
	return result
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

type sendFriendRequestRequest struct {
	RecipientID int64 `json:"recipient_id" binding:"required"`
}

func (s *Server) handleSendFriendRequest(c *gin.Context) {
	var req sendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	edge, err := s.friendships.SendRequest(c.Request.Context(), currentUserID(c), req.RecipientID)
	if err != nil {
		s.renderError(c, err, false)
		return
	}

	c.JSON(http.StatusCreated, toFriendshipResponse(edge))
}

func (s *Server) respondToFriendRequest(c *gin.Context, accept bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := s.friendships.Respond(c.Request.Context(), currentUserID(c), id, accept); err != nil {
		s.renderError(c, err, false)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleAcceptFriendRequest(c *gin.Context) {
	s.respondToFriendRequest(c, true)
}

func (s *Server) handleRejectFriendRequest(c *gin.Context) {
	s.respondToFriendRequest(c, false)
}

func (s *Server) handleRemoveFriend(c *gin.Context) {
	otherID, ok := paramID(c, "userID")
	if !ok {
		return
	}

	if err := s.friendships.Remove(c.Request.Context(), currentUserID(c), otherID); err != nil {
		s.renderError(c, err, false)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleListFriendBooks(c *gin.Context) {
	friendID, ok := paramID(c, "userID")
	if !ok {
		return
	}

	books, err := s.books.ListFriendBooks(c.Request.Context(), currentUserID(c), friendID)
	if err != nil {
		s.renderError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, toBookResponses(books))
}

func (s *Server) handleFriendStatus(c *gin.Context) {
	otherID, ok := paramID(c, "userID")
	if !ok {
		return
	}

	status, err := s.friendships.StatusOf(c.Request.Context(), currentUserID(c), otherID)
	if err != nil {
		s.renderError(c, err, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(status)})
}

func (s *Server) handleListFriends(c *gin.Context) {
	friends, err := s.friendships.ListFriends(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.renderError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(friends))
}

func (s *Server) handleListPendingReceived(c *gin.Context) {
	edges, err := s.friendships.ListPendingReceived(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.renderError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, toFriendshipResponses(edges))
}

func (s *Server) handleListPendingSent(c *gin.Context) {
	edges, err := s.friendships.ListPendingSent(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.renderError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, toFriendshipResponses(edges))
}
