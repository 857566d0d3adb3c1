package service

import (
	"crypto/sha512"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Signer строит bearer-токен для приватных запросов.
// query — url-encoded параметры запроса, пустая строка если их нет.
type Signer interface {
	Sign(query string) (string, error)
}

// JWTSigner — схема Upbit: HS256, access_key + nonce, для запросов с
// параметрами ещё query_hash (SHA512) и query_hash_alg.
type JWTSigner struct {
	accessKey string
	secretKey []byte

	mu        sync.Mutex
	lastNonce int64
	now       func() time.Time
}

func NewJWTSigner(accessKey, secretKey string) *JWTSigner {
	return &JWTSigner{
		accessKey: accessKey,
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
}

// nextNonce — миллисекунды, строго возрастающие даже при вызовах в одну мс.
func (s *JWTSigner) nextNonce() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.now().UnixMilli()
	if n <= s.lastNonce {
		n = s.lastNonce + 1
	}
	s.lastNonce = n
	return n
}

func (s *JWTSigner) Sign(query string) (string, error) {
	claims := jwt.MapClaims{
		"access_key": s.accessKey,
		"nonce":      strconv.FormatInt(s.nextNonce(), 10),
	}
	if query != "" {
		sum := sha512.Sum512([]byte(query))
		claims["query_hash"] = hex.EncodeToString(sum[:])
		claims["query_hash_alg"] = "SHA512"
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", errors.Wrap(err, "sign jwt")
	}
	return "Bearer " + token, nil
}
