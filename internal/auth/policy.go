package auth

import "github.com/realtyflow/api/internal/domain/user"

// Action names the operations the API gates on role.
type Action string

const (
	ActionViewListings  Action = "listings.view"
	ActionCreateListing Action = "listings.create"
	ActionUpdateListing Action = "listings.update"
	ActionDeleteListing Action = "listings.delete"
)

// CanPerform is the whole authorization policy. Handlers and middleware
// call it directly instead of relying on middleware chaining order to
// encode who may do what.
func CanPerform(role string, action Action) bool {
	switch action {
	case ActionViewListings:
		return true
	case ActionCreateListing, ActionUpdateListing, ActionDeleteListing:
		return role == user.RoleAdmin
	default:
		return false
	}
}
