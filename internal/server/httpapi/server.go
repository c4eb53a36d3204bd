// Package httpapi is the thin HTTP boundary over the services. It binds
// JSON, resolves the bearer token once per request, and maps sentinel errors
// to statuses. Authorization denials on reads are presented as 404 so a
// private resource is indistinguishable from a missing one.
package httpapi

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/shelfshare/shelfshare/internal/logging"
	"github.com/shelfshare/shelfshare/internal/server/config"
	"github.com/shelfshare/shelfshare/internal/server/models"
	"github.com/shelfshare/shelfshare/internal/server/repositories/repomanager"
	"github.com/shelfshare/shelfshare/internal/server/services"
)

// UserAPI is the slice of UserService the boundary consumes.
type UserAPI interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, *services.TokenPair, error)
	Refresh(ctx context.Context, sessionToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, sessionToken string) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, userID int64, username, email string) (*models.User, error)
	Delete(ctx context.Context, userID int64) error
	SearchByUsername(ctx context.Context, query string) ([]*models.User, error)
}

// FriendshipAPI is the slice of FriendshipService the boundary consumes.
type FriendshipAPI interface {
	SendRequest(ctx context.Context, requesterID, recipientID int64) (*models.Friendship, error)
	Respond(ctx context.Context, actorID, friendshipID int64, accept bool) error
	Remove(ctx context.Context, actorID, otherID int64) error
	StatusOf(ctx context.Context, userA, userB int64) (models.FriendshipStatus, error)
	ListFriends(ctx context.Context, userID int64) ([]*models.User, error)
	ListPendingReceived(ctx context.Context, userID int64) ([]*models.Friendship, error)
	ListPendingSent(ctx context.Context, userID int64) ([]*models.Friendship, error)
}

// BookAPI is the slice of BookService the boundary consumes.
type BookAPI interface {
	Create(ctx context.Context, ownerID int64, title, author, genre string, visibility models.Visibility) (*models.Book, error)
	Get(ctx context.Context, requesterID, bookID int64) (*models.Book, error)
	ListOwn(ctx context.Context, requesterID int64) ([]*models.Book, error)
	ListVisible(ctx context.Context, requesterID int64) ([]*models.Book, error)
	ListFriendBooks(ctx context.Context, requesterID, friendID int64) ([]*models.Book, error)
	Update(ctx context.Context, requesterID, bookID int64, title, author, genre string, visibility models.Visibility) (*models.Book, error)
	Delete(ctx context.Context, requesterID, bookID int64) error
	AttachFile(ctx context.Context, requesterID, bookID int64, fileName, fileType string, size int64) (*services.FileUpload, error)
	GetFileURL(ctx context.Context, requesterID, bookID int64) (*services.FileDownload, error)
	DetachFile(ctx context.Context, requesterID, bookID int64) error
	Search(ctx context.Context, requesterID int64, query string) ([]*models.Book, error)
}

// NoteAPI is the slice of NoteService the boundary consumes.
type NoteAPI interface {
	Create(ctx context.Context, authorID, bookID int64, content string, pageNumber int) (*models.Note, error)
	Get(ctx context.Context, requesterID, noteID int64) (*models.Note, error)
	ListByBook(ctx context.Context, requesterID, bookID int64) ([]*models.Note, error)
	Update(ctx context.Context, requesterID, noteID int64, content string, pageNumber int) (*models.Note, error)
	Delete(ctx context.Context, requesterID, noteID int64) error
}

// Server holds the wired services and builds the gin router.
type Server struct {
	users       UserAPI
	friendships FriendshipAPI
	books       BookAPI
	notes       NoteAPI

	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secretKey   []byte
	logger      logging.Logger
}

// NewServer wires the boundary. db and m are needed to build the per-request
// session resolver.
func NewServer(users UserAPI, friendships FriendshipAPI, books BookAPI, notes NoteAPI,
	db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *Server {
	return &Server{
		users:       users,
		friendships: friendships,
		books:       books,
		notes:       notes,
		db:          db,
		repomanager: m,
		secretKey:   []byte(cfg.SecretKey),
		logger:      logger,
	}
}

// Router assembles all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/refresh", s.handleRefresh)
		authGroup.POST("/logout", s.handleLogout)
	}

	protected := api.Group("")
	protected.Use(s.authMiddleware())
	{
		protected.GET("/users/me", s.handleGetMe)
		protected.PATCH("/users/me", s.handleUpdateMe)
		protected.DELETE("/users/me", s.handleDeleteMe)
		protected.GET("/users/search", s.handleSearchUsers)

		protected.POST("/friends/requests", s.handleSendFriendRequest)
		protected.POST("/friends/requests/:id/accept", s.handleAcceptFriendRequest)
		protected.POST("/friends/requests/:id/reject", s.handleRejectFriendRequest)
		protected.GET("/friends/requests/received", s.handleListPendingReceived)
		protected.GET("/friends/requests/sent", s.handleListPendingSent)
		protected.GET("/friends", s.handleListFriends)
		protected.GET("/friends/status/:userID", s.handleFriendStatus)
		protected.DELETE("/friends/:userID", s.handleRemoveFriend)
		protected.GET("/friends/:userID/books", s.handleListFriendBooks)

		protected.POST("/books", s.handleCreateBook)
		protected.GET("/books", s.handleListBooks)
		protected.GET("/books/mine", s.handleListOwnBooks)
		protected.GET("/books/search", s.handleSearchBooks)
		protected.GET("/books/:id", s.handleGetBook)
		protected.PATCH("/books/:id", s.handleUpdateBook)
		protected.DELETE("/books/:id", s.handleDeleteBook)

		protected.POST("/books/:id/file", s.handleAttachFile)
		protected.GET("/books/:id/file", s.handleGetFile)
		protected.DELETE("/books/:id/file", s.handleDetachFile)

		protected.POST("/books/:id/notes", s.handleCreateNote)
		protected.GET("/books/:id/notes", s.handleListNotes)
		protected.GET("/notes/:id", s.handleGetNote)
		protected.PATCH("/notes/:id", s.handleUpdateNote)
		protected.DELETE("/notes/:id", s.handleDeleteNote)
	}

	return r
}
