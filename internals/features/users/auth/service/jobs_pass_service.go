package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	JobsPassCookie = "jobs_pass"
	JobsPassHeader = "X-Jobs-Pass"
	jobsPassTyp    = "jobs_gate"
)

var ErrWrongJobsPassword = errors.New("パスワードが正しくありません")

// JobsPass guards the job board with one shared password. A correct entry is
// exchanged for a signed pass so the browser stays unlocked across reloads.
// It keeps casual visitors out; it is not per-user access control.
//
// Passes carry a fingerprint of the password they were issued for, so
// changing the password locks every browser again.
type JobsPass struct {
	password    string
	secret      []byte
	fingerprint string
	ttl         time.Duration
	now         func() time.Time
}

func NewJobsPass(password, secret string, ttl time.Duration) *JobsPass {
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}
	return &JobsPass{
		password:    password,
		secret:      []byte(secret),
		fingerprint: passwordFingerprint(secret, password),
		ttl:         ttl,
		now:         time.Now,
	}
}

func passwordFingerprint(secret, password string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(jobsPassTyp + ":" + password))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Unlock returns a pass token when input matches the shared password exactly.
func (p *JobsPass) Unlock(input string) (string, time.Time, error) {
	if p.password == "" || len(p.secret) == 0 {
		return "", time.Time{}, ErrWrongJobsPassword
	}
	if subtle.ConstantTimeCompare([]byte(input), []byte(p.password)) != 1 {
		return "", time.Time{}, ErrWrongJobsPassword
	}
	now := p.now()
	exp := now.Add(p.ttl)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ": jobsPassTyp,
		"pwf": p.fingerprint,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Valid reports whether token is an unexpired pass signed by this server for
// the current password.
func (p *JobsPass) Valid(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" || len(p.secret) == 0 || p.password == "" {
		return false
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil || !tok.Valid {
		return false
	}
	typ, _ := claims["typ"].(string)
	pwf, _ := claims["pwf"].(string)
	return typ == jobsPassTyp && hmac.Equal([]byte(pwf), []byte(p.fingerprint))
}

func (p *JobsPass) TTL() time.Duration { return p.ttl }
