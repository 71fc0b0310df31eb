package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_Hash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "regular password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
			wantErr:  false,
		},
		{
			name:     "short password",
			password: "short",
			wantErr:  false,
		},
		{
			name:     "longer than bcrypt limit",
			password: string(make([]byte, 80)),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := h.Hash(tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("Hash() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && gotHash == "" {
				t.Error("Hash() returned empty hash")
			}

			if !tt.wantErr {
				err = CompareHash(gotHash, tt.password)
				if err != nil {
					t.Errorf("Generated hash doesn't work with original password: %v", err)
				}
			}
		})
	}
}

func TestCompareHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	correctHash, err := h.Hash("correct_password")
	if err != nil {
		t.Fatalf("Failed to create test hash: %v", err)
	}

	anotherHash, err := h.Hash("another_password")
	if err != nil {
		t.Fatalf("Failed to create test hash: %v", err)
	}

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{
			name:        "matching password",
			hash:        correctHash,
			password:    "correct_password",
			shouldMatch: true,
		},
		{
			name:        "wrong password",
			hash:        correctHash,
			password:    "wrong_password",
			shouldMatch: false,
		},
		{
			name:        "different hash same password",
			hash:        anotherHash,
			password:    "correct_password",
			shouldMatch: false,
		},
		{
			name:        "empty password",
			hash:        correctHash,
			password:    "",
			shouldMatch: false,
		},
		{
			name:        "garbage hash",
			hash:        "not-a-bcrypt-hash",
			password:    "correct_password",
			shouldMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.password)

			if tt.shouldMatch && err != nil {
				t.Errorf("CompareHash() should succeed, got error: %v", err)
			}

			if !tt.shouldMatch && err == nil {
				t.Error("CompareHash() should fail, but got no error")
			}
		})
	}
}

func TestHasher_SamePasswordDifferentSalt(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash1, err := h.Hash("secret1")
	require.NoError(t, err)
	hash2, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.True(t, h.Verify("secret1", hash1))
	assert.True(t, h.Verify("secret1", hash2))
}

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, p := range []string{"secret1", "secret2", "пароль-юникод", "123456"} {
		hash, err := h.Hash(p)
		require.NoError(t, err)
		assert.True(t, h.Verify(p, hash), p)
		assert.False(t, h.Verify(p+"x", hash), p)
	}
}

func TestNewHasher_InvalidCostFallsBackToDefault(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost).Cost())
}

func TestHasher_DummyHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	// готов сразу после NewHasher, без ленивого вычисления
	require.NotEmpty(t, h.dummyHash)
	assert.True(t, h.Verify(dummyPassword, h.dummyHash))

	first := h.DummyHash()
	require.NotEmpty(t, first)
	assert.Equal(t, first, h.DummyHash())

	cost, err := bcrypt.Cost([]byte(first))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.False(t, h.Verify("secret1", first))
}
