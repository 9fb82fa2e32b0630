package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	redis "github.com/redis/go-redis/v9"
)

// RedisClient is an optional shared Redis client used for token revocation and
// other cross-process coordination (distribution sweep locks). It will be nil
// when REDIS_ADDR is not configured.
var RedisClient *redis.Client

func init() {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return
	}
	addr = strings.ReplaceAll(addr, " ", "")
	opts := &redis.Options{Addr: addr}
	if p := os.Getenv("REDIS_PASS"); p != "" {
		opts.Password = p
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		var dbn int
		_, _ = fmt.Sscanf(dbStr, "%d", &dbn)
		opts.DB = dbn
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(context.Background()).Err(); err != nil {
		fmt.Printf("warning: redis ping failed: %v\n", err)
		// don't fail startup for redis issues; revocation and sweep locks degrade gracefully
		return
	}
	RedisClient = rc
}

type contextKey string

const UserIDKey = contextKey("userID")
const RequestIDKey = contextKey("requestID")

// ValidateAccessToken parses and validates an access token and checks the jti
// revocation store when Redis is configured.
func ValidateAccessToken(tokenStr string) (*jwt.Token, jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, nil, errors.New("JWT_SECRET is not set")
	}
	token, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Require exact HS256 algorithm to avoid algorithm confusion.
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		if err != nil && strings.Contains(err.Error(), "expired") {
			return nil, nil, errors.New("token expired")
		}
		return nil, nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return token, nil, errors.New("invalid claims")
	}

	now := time.Now()
	if expRaw, ok := claims["exp"]; ok {
		if v, ok := expRaw.(float64); ok && now.Unix() > int64(v) {
			return token, nil, errors.New("token expired")
		}
	}
	if nbfRaw, ok := claims["nbf"]; ok {
		if v, ok := nbfRaw.(float64); ok && now.Unix() < int64(v) {
			return token, nil, errors.New("token not yet valid")
		}
	}

	if audEnv := os.Getenv("JWT_AUD"); audEnv != "" {
		if aud, ok := claims["aud"].(string); !ok || aud != audEnv {
			return token, nil, errors.New("invalid audience")
		}
	}
	if issEnv := os.Getenv("JWT_ISS"); issEnv != "" {
		if iss, ok := claims["iss"].(string); !ok || iss != issEnv {
			return token, nil, errors.New("invalid issuer")
		}
	}

	// jti revocation: Redis blacklist only; ignore redis errors so an outage
	// does not lock every caller out.
	if jtiRaw, ok := claims["jti"].(string); ok && jtiRaw != "" && RedisClient != nil {
		res, err := RedisClient.Get(context.Background(), "jwt:blacklist:"+jtiRaw).Result()
		if err == nil && res == "1" {
			return token, nil, errors.New("token revoked")
		}
	}

	return token, claims, nil
}

// AcquireSweepLock takes a best-effort cross-process lock for a named batch
// sweep within one distribution period. Returns true when the lock was
// acquired or when Redis is not configured (the per-row idempotency markers
// remain the hard guard either way).
func AcquireSweepLock(name, period string, ttl time.Duration) bool {
	if RedisClient == nil {
		return true
	}
	ok, err := RedisClient.SetNX(context.Background(), "sweep:"+name+":"+period, "1", ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

// ReleaseSweepLock drops a sweep lock so a failed run can be retried within
// the same period.
func ReleaseSweepLock(name, period string) {
	if RedisClient == nil {
		return
	}
	_ = RedisClient.Del(context.Background(), "sweep:"+name+":"+period).Err()
}

// Get userID from context
func GetUserID(r *http.Request) (uint, bool) {
	v := r.Context().Value(UserIDKey)
	id, ok := v.(uint)
	return id, ok
}
