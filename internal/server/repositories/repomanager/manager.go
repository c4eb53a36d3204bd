package repomanager

import (
	"context"
	"database/sql"

	"github.com/shelfshare/shelfshare/internal/dbx"
	"github.com/shelfshare/shelfshare/internal/server/repositories/books"
	"github.com/shelfshare/shelfshare/internal/server/repositories/files"
	"github.com/shelfshare/shelfshare/internal/server/repositories/friendships"
	"github.com/shelfshare/shelfshare/internal/server/repositories/notes"
	"github.com/shelfshare/shelfshare/internal/server/repositories/sessions"
	"github.com/shelfshare/shelfshare/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Friendships(db dbx.DBTX) friendships.Repository
	Books(db dbx.DBTX) books.Repository
	Notes(db dbx.DBTX) notes.Repository
	Files(db dbx.DBTX) files.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
