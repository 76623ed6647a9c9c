// Package identity provides user accounts and authentication.
//
// This is a single-tenant tool: there are no organizations or workspaces,
// just users with password credentials stored in a JSONL table.
package identity

import (
	"time"

	"github.com/maruel/ksid"
)

// User is a registered account.
type User struct {
	ID       ksid.ID   `json:"id" jsonschema:"description=Unique user ID"`
	Email    string    `json:"email" jsonschema:"description=Login email address"`
	Name     string    `json:"name,omitempty" jsonschema:"description=Display name"`
	Created  time.Time `json:"created" jsonschema:"description=Account creation time"`
	Modified time.Time `json:"modified" jsonschema:"description=Last profile update time"`
}
