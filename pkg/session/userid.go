package session

import (
	"strconv"
	"strings"

	"animeplan/entities"
)

const userIDKey = "user_id="

// ParseUserID extracts the user id from a deep link such as
// "/?user_id=555" or "/app/user_id=555". The value after the last
// "user_id=" is used; anything absent or non-numeric yields the guest id.
func ParseUserID(uri string) int64 {
	id, _ := LookupUserID(uri)
	return id
}

// LookupUserID is ParseUserID that also reports whether the link carried a
// "user_id=" token at all, valid or not.
func LookupUserID(uri string) (int64, bool) {
	i := strings.LastIndex(uri, userIDKey)
	if i < 0 {
		return entities.GuestUserID, false
	}
	v := uri[i+len(userIDKey):]
	if j := strings.IndexAny(v, "&#/;"); j >= 0 {
		v = v[:j]
	}
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return entities.GuestUserID, true
	}
	return id, true
}
