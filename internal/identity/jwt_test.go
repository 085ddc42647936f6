package identity

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestIssueAndVerify(t *testing.T) {
	p, err := NewJWTProvider("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	token, err := p.Issue(User{ID: "u1", Name: "Ana"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	u, err := p.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "u1" || u.Name != "Ana" {
		t.Errorf("user = %+v", u)
	}
	if rec := u.Recorder(); rec.ID != "u1" || rec.Name != "Ana" {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestVerifyRejects(t *testing.T) {
	p, _ := NewJWTProvider("s3cret")
	other, _ := NewJWTProvider("other")

	wrongKey, _ := other.Issue(User{ID: "u1", Name: "Ana"}, time.Hour)
	expired, _ := p.Issue(User{ID: "u1", Name: "Ana"}, -time.Minute)
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Name: "Ana"}).SignedString([]byte("s3cret"))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString([]byte("s3cret"))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong key", wrongKey},
		{"expired", expired},
		{"no subject", noSubject},
		{"other algorithm", hs512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerifyFallsBackToSubjectForName(t *testing.T) {
	p, _ := NewJWTProvider("s3cret")
	token, _ := p.Issue(User{ID: "u9"}, time.Hour)
	u, err := p.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "u9" {
		t.Errorf("name = %q, want u9", u.Name)
	}
}

func TestFromRequest(t *testing.T) {
	p, _ := NewJWTProvider("s3cret")
	r := httptest.NewRequest("GET", "/", nil)
	if _, err := p.FromRequest(r); !errors.Is(err, ErrMissingToken) {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}

	token, _ := p.Issue(User{ID: "u1", Name: "Ana"}, time.Hour)
	r.Header.Set("Authorization", "Bearer "+token)
	u, err := p.FromRequest(r)
	if err != nil || u.ID != "u1" {
		t.Errorf("user = %+v, err = %v", u, err)
	}

	ctx := WithUser(r.Context(), u)
	if got, ok := FromContext(ctx); !ok || got != u {
		t.Errorf("FromContext = %+v, %v", got, ok)
	}
}

func TestNewJWTProviderRequiresSecret(t *testing.T) {
	if _, err := NewJWTProvider(""); err == nil {
		t.Error("expected error for empty secret")
	}
}
