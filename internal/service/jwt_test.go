package service

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret = "this-is-a-test-secret-with-32-bytes!"
	testExpiry = 7 * 24 * time.Hour
)

func newTestJWTService(t *testing.T, expiry time.Duration) *jwtService {
	t.Helper()
	svc := NewJWTService(testSecret, expiry)
	if svc == nil {
		t.Fatal("NewJWTService returned nil")
	}
	return svc.(*jwtService)
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewJWTService(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)
	if service == nil {
		t.Fatal("NewJWTService returned nil")
	}

	if got := service.GetExpiry(); got != testExpiry {
		t.Errorf("GetExpiry() = %v, want %v", got, testExpiry)
	}
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	if service := NewJWTService("", testExpiry); service != nil {
		t.Error("NewJWTService() should return nil for empty secret")
	}
}

func TestNewJWTService_ShortSecret(t *testing.T) {
	if service := NewJWTService("short", testExpiry); service != nil {
		t.Error("NewJWTService() should return nil for secret less than 32 bytes")
	}
}

// =============================================================================
// GenerateToken Tests
// =============================================================================

func TestGenerateToken(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	tests := []struct {
		name   string
		userID int64
		email  string
		role   string
	}{
		{name: "worker", userID: 1, email: "john@example.com", role: "worker"},
		{name: "admin", userID: 42, email: "admin@example.com", role: "admin"},
		{name: "zero user ID", userID: 0, email: "zero@example.com", role: "worker"},
		{name: "max int64 user ID", userID: 9223372036854775807, email: "max@example.com", role: "manager"},
		{name: "unicode email", userID: 5, email: "用户@example.com", role: "worker"},
		{name: "empty role", userID: 6, email: "none@example.com", role: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := service.GenerateToken(tt.userID, tt.email, tt.role)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			if token == "" {
				t.Fatal("Generated token is empty")
			}
			if strings.Count(token, ".") != 2 {
				t.Errorf("token %q is not a compact JWS", token)
			}

			claims, err := service.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.UserID != tt.userID {
				t.Errorf("Claims.UserID = %v, want %v", claims.UserID, tt.userID)
			}
			if claims.Email != tt.email {
				t.Errorf("Claims.Email = %v, want %v", claims.Email, tt.email)
			}
			if claims.Role != tt.role {
				t.Errorf("Claims.Role = %v, want %v", claims.Role, tt.role)
			}
		})
	}
}

func TestGenerateToken_ClaimsStructure(t *testing.T) {
	service := newTestJWTService(t, testExpiry)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	token, err := service.GenerateToken(12, "john@example.com", "worker")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.Subject != "12" {
		t.Errorf("Claims.Subject = %q, want 12", claims.Subject)
	}
	if claims.IssuedAt == nil || !claims.IssuedAt.Time.Equal(fixed) {
		t.Errorf("Claims.IssuedAt = %v, want %v", claims.IssuedAt, fixed)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.Equal(fixed.Add(testExpiry)) {
		t.Errorf("Claims.ExpiresAt = %v, want %v", claims.ExpiresAt, fixed.Add(testExpiry))
	}
}

func TestGenerateToken_SigningMethod(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	validToken, err := service.GenerateToken(1, "john@example.com", "worker")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	token, err := jwt.ParseWithClaims(validToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			t.Errorf("Token uses %v, want HS256", token.Method.Alg())
		}
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("ParseWithClaims() error = %v", err)
	}
	if !token.Valid {
		t.Error("Token should be valid")
	}
}

// =============================================================================
// ValidateToken Tests
// =============================================================================

func TestValidateToken_ExpiredToken(t *testing.T) {
	service := newTestJWTService(t, time.Hour)
	issued := time.Now()
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken(1, "john@example.com", "worker")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	service.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := service.ValidateToken(token); err != nil {
		t.Errorf("ValidateToken() before expiry error = %v", err)
	}

	service.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = service.ValidateToken(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() after expiry error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_InvalidSignature(t *testing.T) {
	service1 := NewJWTService("secret1-at-least-32-chars-long-11111", testExpiry)
	service2 := NewJWTService("secret2-at-least-32-chars-long-22222", testExpiry)

	token, err := service1.GenerateToken(1, "john@example.com", "worker")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	_, err = service2.ValidateToken(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_MalformedToken(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "two segments", token: "header.payload"},
		{name: "four segments", token: "a.b.c.d"},
		{name: "invalid base64", token: "!!!.@@@.###"},
		{name: "bearer prefix left in", token: "Bearer abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken(%q) error = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestValidateToken_TamperedToken(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	token, err := service.GenerateToken(1, "john@example.com", "worker")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	for i := 0; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		if _, err := service.ValidateToken(tampered); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("ValidateToken() accepted token tampered at byte %d", i)
		}
	}
}

func TestValidateToken_WrongSigningMethod(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	claims := Claims{
		UserID: 1,
		Email:  "john@example.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := service.ValidateToken(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() accepted alg=none token, error = %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := service.ValidateToken(hs512); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() accepted HS512 token, error = %v", err)
	}
}

func TestValidateToken_MissingExpiry(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		Email:  "john@example.com",
		Role:   "worker",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := service.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() should reject a token without exp, error = %v", err)
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestConcurrentTokenGenerationAndValidation(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			token, err := service.GenerateToken(id, "worker@example.com", "worker")
			if err != nil {
				errs <- err
				return
			}
			claims, err := service.ValidateToken(token)
			if err != nil {
				errs <- err
				return
			}
			if claims.UserID != id {
				errs <- errors.New("claims user id mismatch")
			}
		}(int64(i))
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent token operation failed: %v", err)
	}
}
