// Package access is the single authority for read/write/delete authorization
// decisions on books, notes, and files. All decisions are pure functions over
// (requester, resource snapshot); the package performs no storage I/O.
//
// Friendship is orthogonal to book visibility: being friends with an owner
// does not grant read access to that owner's private books.
package access

import "github.com/shelfshare/shelfshare/internal/server/models"

// Reason explains a decision. Services log the precise reason; the transport
// boundary decides how much of it to reveal.
type Reason string

const (
	Allowed         Reason = "allowed"
	DeniedNotOwner  Reason = "not_owner"
	DeniedPrivate   Reason = "private"
	DeniedNotAuthor Reason = "not_author"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	OK     bool
	Reason Reason
}

func allow() Decision {
	return Decision{OK: true, Reason: Allowed}
}

func deny(reason Reason) Decision {
	return Decision{OK: false, Reason: reason}
}

// CanRead allows public books for anyone and private books for the owner.
func CanRead(requesterID int64, book models.BookSnapshot) Decision {
	if book.Visibility == models.VisibilityPublic || book.OwnerID == requesterID {
		return allow()
	}
	return deny(DeniedPrivate)
}

// CanWrite allows only the owner.
func CanWrite(requesterID int64, book models.BookSnapshot) Decision {
	if book.OwnerID == requesterID {
		return allow()
	}
	return deny(DeniedNotOwner)
}

// CanDelete allows only the owner.
func CanDelete(requesterID int64, book models.BookSnapshot) Decision {
	return CanWrite(requesterID, book)
}

// CanReadNote allows only the note's author, regardless of the book's
// visibility.
func CanReadNote(requesterID int64, note models.NoteSnapshot) Decision {
	if note.AuthorID == requesterID {
		return allow()
	}
	return deny(DeniedNotAuthor)
}

// CanAccessFile rides on the parent book's read rule.
func CanAccessFile(requesterID int64, book models.BookSnapshot) Decision {
	return CanRead(requesterID, book)
}
