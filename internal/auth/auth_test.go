package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestMintAndParse(t *testing.T) {
	pair, err := MintTokens("user-1", "owner@example.com", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}

	tests := []struct {
		name     string
		token    string
		secret   string
		wantType string
		wantErr  bool
	}{
		{"access token", pair.AccessToken, "secret", TokenAccess, false},
		{"refresh token", pair.RefreshToken, "secret", TokenRefresh, false},
		{"refresh used as access", pair.RefreshToken, "secret", TokenAccess, true},
		{"wrong secret", pair.AccessToken, "other", TokenAccess, true},
		{"garbage", "not-a-token", "secret", TokenAccess, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseClaims(tt.token, tt.secret, tt.wantType)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClaims() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && claims.UserID != "user-1" {
				t.Errorf("UserID = %v, want user-1", claims.UserID)
			}
		})
	}
}

func TestParseClaims_Expired(t *testing.T) {
	pair, err := MintTokens("user-1", "owner@example.com", "secret", -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}
	if _, err := ParseClaims(pair.AccessToken, "secret", TokenAccess); err == nil {
		t.Error("ParseClaims() accepted an expired token")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("CheckPassword() accepted the wrong password")
	}
}
