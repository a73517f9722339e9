package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark records (JSON)
	KeyPrefixBookmark = "bookmarkai:bookmark:"
	// KeyPrefixUser is the prefix for per-user lists
	KeyPrefixUser = "bookmarkai:user:"
)

// BookmarkKey returns the Redis key for a bookmark record
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// UserBookmarksKey returns the LIST of a user's bookmark ids, newest at the head
func UserBookmarksKey(userID string) string {
	return KeyPrefixUser + userID + ":bookmarks"
}

// UserOrderKey returns the LIST holding a user's custom display order
func UserOrderKey(userID string) string {
	return KeyPrefixUser + userID + ":order"
}
