package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

const testIssuer = "https://clerk.chirp.test"

func newKeyPair(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    testIssuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
}

func TestJWTVerifier(t *testing.T) {
	key, pubPEM := newKeyPair(t)
	otherKey, _ := newKeyPair(t)

	v, err := NewJWTVerifier(pubPEM, testIssuer)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		userID, err := v.Verify(sign(t, key, validClaims("user_1")))
		require.NoError(t, err)
		assert.Equal(t, "user_1", userID)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims("user_1")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := v.Verify(sign(t, key, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		claims := validClaims("user_1")
		claims.ExpiresAt = nil
		_, err := v.Verify(sign(t, key, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims("user_1")
		claims.Issuer = "https://evil.test"
		_, err := v.Verify(sign(t, key, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := v.Verify(sign(t, otherKey, validClaims("user_1")))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := v.Verify(sign(t, key, validClaims("")))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("hmac rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("user_1")).SignedString(pubPEM)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewJWTVerifier_BadPEM(t *testing.T) {
	_, err := NewJWTVerifier([]byte("nope"), "")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	key, pubPEM := newKeyPair(t)
	v, err := NewJWTVerifier(pubPEM, testIssuer)
	require.NoError(t, err)

	var seen domain.Caller
	h := Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ForContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
		wantCaller domain.Caller
	}{
		{
			name:       "anonymous",
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusNoContent,
			wantCaller: domain.Anonymous,
		},
		{
			name: "bearer",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+sign(t, key, validClaims("user_1")))
			},
			wantStatus: http.StatusNoContent,
			wantCaller: domain.Caller{UserID: "user_1"},
		},
		{
			name: "session cookie",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookie, Value: sign(t, key, validClaims("user_2"))})
			},
			wantStatus: http.StatusNoContent,
			wantCaller: domain.Caller{UserID: "user_2"},
		},
		{
			name: "malformed header",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Token abc")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "invalid token",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer abc.def.ghi")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired bearer",
			prepare: func(r *http.Request) {
				claims := validClaims("user_1")
				claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Minute))
				r.Header.Set("Authorization", "Bearer "+sign(t, key, claims))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired session cookie falls back to anonymous",
			prepare: func(r *http.Request) {
				claims := validClaims("user_2")
				claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Minute))
				r.AddCookie(&http.Cookie{Name: SessionCookie, Value: sign(t, key, claims)})
			},
			wantStatus: http.StatusNoContent,
			wantCaller: domain.Anonymous,
		},
		{
			name: "garbage session cookie falls back to anonymous",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "abc.def.ghi"})
			},
			wantStatus: http.StatusNoContent,
			wantCaller: domain.Anonymous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = domain.Caller{UserID: "sentinel"}
			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, tt.wantCaller, seen)
			} else {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestForContext_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, domain.Anonymous, ForContext(req.Context()))
}
