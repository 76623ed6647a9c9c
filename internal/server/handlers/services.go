// Defines shared service dependencies for handlers.

package handlers

import (
	"github.com/bizcanvas/bizcanvas/internal/storage"
	"github.com/bizcanvas/bizcanvas/internal/storage/catalog"
	"github.com/bizcanvas/bizcanvas/internal/storage/git"
	"github.com/bizcanvas/bizcanvas/internal/storage/identity"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

// Services holds all service dependencies for handlers.
type Services struct {
	User    *identity.UserService
	Views   *viewstore.Service
	Catalog *catalog.Service
	Repo    *git.Repo
}

// Config holds configuration values needed by handlers.
type Config struct {
	JWTSecret []byte
	Version   string
	Quotas    storage.ServerQuotas
}

// GitAuthor builds the commit author identity for a user's changes.
func GitAuthor(user *identity.User) git.Author {
	if user == nil {
		return git.Author{}
	}
	return git.Author{Name: user.Name, Email: user.Email}
}
