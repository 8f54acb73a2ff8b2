package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/soniarr234/fitlover-back/pkg/utils"
)

// IdentityResolver turns bearer tokens into user ids and mints new ones.
// It holds the signing key; nothing else in the process should.
type IdentityResolver struct {
	secret string
	issuer string
	ttl    time.Duration
}

func NewIdentityResolver(secret, issuer string, ttl time.Duration) (*IdentityResolver, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("identity resolver: signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("identity resolver: token ttl must be positive")
	}
	return &IdentityResolver{secret: secret, issuer: issuer, ttl: ttl}, nil
}

func (r *IdentityResolver) Resolve(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrUnauthenticated
	}

	claims, err := utils.ValidateToken(token, r.secret, r.issuer)
	if err != nil {
		return 0, ErrUnauthenticated
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

func (r *IdentityResolver) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", ErrInvalidInput
	}
	return utils.GenerateToken(strconv.FormatInt(userID, 10), r.secret, r.issuer, r.ttl)
}
