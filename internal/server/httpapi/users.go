package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toUserResponses(us []*models.User) []userResponse {
	result := make([]userResponse, 0, len(us))
	for _, u := range us {
		result = append(result, toUserResponse(u))
	}
	return result
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.renderError(c, err, false)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	SessionToken string `json:"session_token"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, pair, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.renderError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          toUserResponse(user),
		"access_token":  pair.AccessToken,
		"session_token": pair.SessionToken,
	})
}

type refreshRequest struct {
	SessionToken string `json:"session_token" binding:"required"`
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := s.users.Refresh(c.Request.Context(), req.SessionToken)
	if err != nil {
		s.renderError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, SessionToken: pair.SessionToken})
}

func (s *Server) handleLogout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.users.Logout(c.Request.Context(), req.SessionToken); err != nil {
		s.renderError(c, err, false)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetMe(c *gin.Context) {
	user, err := s.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.renderError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) handleUpdateMe(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.users.Update(c.Request.Context(), currentUserID(c), req.Username, req.Email)
	if err != nil {
		s.renderError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteMe(c *gin.Context) {
	if err := s.users.Delete(c.Request.Context(), currentUserID(c)); err != nil {
		s.renderError(c, err, false)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSearchUsers(c *gin.Context) {
	result, err := s.users.SearchByUsername(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.renderError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(result))
}
