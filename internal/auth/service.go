package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitprogress/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

var ErrWrongCredentials = errors.New("wrong credentials")

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type usersStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type Service struct {
	redisClient *redis.Client
	users       usersStore
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	users usersStore,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		users:          users,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) Login(ctx context.Context, creds Credentials, createdAt time.Time) (string, error) {
	user, err := as.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrWrongCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return "", ErrWrongCredentials
	}

	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	s := session{UserID: user.ID, CreatedAt: createdAt}
	cmdSet := as.redisClient.Set(ctx, sessionKey, s.encode(), 0)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := as.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		return false, err
	}

	s, err := decodeSession(cmd.Val())
	if err != nil {
		return false, err
	}
	if s.loggedOut() {
		return false, nil
	}

	loggedOut := session{UserID: s.UserID, CreatedAt: time.Unix(0, 0)}
	cmdSet := as.redisClient.Set(ctx, sessionKey, loggedOut.encode(), 0)
	if err := cmdSet.Err(); err != nil {
		return false, err
	}

	// remove token from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
	if err := cmdSRem.Err(); err != nil {
		return false, err
	}

	return true, nil
}

// ScanAndClean drops sessions older than the TTL, and the ones that cannot be decoded.
func (as *Service) ScanAndClean(ctx context.Context) {
	tokens, err := as.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("sessions cleanup, list sessions: %s", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	stale := as.staleTokens(ctx, tokens)
	removed := 0
	for _, token := range stale {
		if err := as.dropSession(ctx, token); err != nil {
			log.Errorf("sessions cleanup, drop session: %s", err)
			continue
		}
		removed++
	}
	log.Debugf("sessions cleanup: %d sessions checked, %d removed", len(tokens), removed)
}

func (as *Service) staleTokens(ctx context.Context, tokens []string) []string {
	var stale []string
	for _, token := range tokens {
		val, err := as.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Errorf("sessions cleanup, get session: %s", err)
				continue
			}
			// listed but gone, only the set member is left
			stale = append(stale, token)
			continue
		}

		s, err := decodeSession(val)
		if err != nil {
			log.Warnf("sessions cleanup, %s", err)
			stale = append(stale, token)
			continue
		}
		if time.Since(s.CreatedAt) > as.ttl {
			log.WithField("user_id", s.UserID).Traceln("sessions cleanup, session expired")
			stale = append(stale, token)
		}
	}
	return stale
}

func (as *Service) dropSession(ctx context.Context, token string) error {
	if err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("del session: %w", err)
	}
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return fmt.Errorf("remove from sessions set: %w", err)
	}
	return nil
}
