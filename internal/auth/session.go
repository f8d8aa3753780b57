package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitprogress-session||"
	tokensSetKey     = "fitprogress-sessions"
)

// session value stored in redis: "<userID>|<createdAtUnix>"
// a logged-out session keeps the key with createdAt set to 0 until cleaned up
type session struct {
	UserID    int
	CreatedAt time.Time
}

func (s session) encode() string {
	return fmt.Sprintf("%d|%d", s.UserID, s.CreatedAt.Unix())
}

func (s session) loggedOut() bool {
	return s.CreatedAt.Unix() <= 0
}

func decodeSession(val string) (session, error) {
	userIDStr, createdAtStr, found := strings.Cut(val, "|")
	if !found {
		return session{}, fmt.Errorf("malformed session value: %q", val)
	}
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		return session{}, fmt.Errorf("parse session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return session{}, fmt.Errorf("parse session created at: %w", err)
	}
	return session{
		UserID:    userID,
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}
