package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// cheap parameters keep the suite fast; production uses NewArgon2()
func testArgon2() *Argon2 {
	return &Argon2{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2_Hash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "success", password: "testPassword123"},
		{name: "empty password", password: ""},
		{name: "long password", password: strings.Repeat("a", 128)},
		{name: "unicode", password: "пароль🔐"},
		{name: "special chars", password: "p@ssw0rd!#$%"},
		{name: "null byte", password: "pass\x00word"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			a := testArgon2()

			// Act
			hash, err := a.Hash(test.password)

			// Assert
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, "$argon2id$"), "hash should start with $argon2id$")
			assert.Contains(t, hash, "$v=19$")
			assert.Len(t, strings.Split(hash, "$"), 6)
		})
	}
}

func TestArgon2_Hash_UniqueSalts(t *testing.T) {
	// Arrange
	a := testArgon2()

	// Act
	hash1, err1 := a.Hash("samePassword")
	hash2, err2 := a.Hash("samePassword")

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2, "unique salts should give different hashes")
}

func TestArgon2_Verify(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attempt  string
		wantOk   bool
	}{
		{name: "correct password", password: "correctPassword", attempt: "correctPassword", wantOk: true},
		{name: "wrong password", password: "correctPassword", attempt: "wrongPassword", wantOk: false},
		{name: "case sensitive", password: "correctPassword", attempt: "correctpassword", wantOk: false},
		{name: "extra character", password: "correctPassword", attempt: "correctPassword1", wantOk: false},
		{name: "empty attempt", password: "correctPassword", attempt: "", wantOk: false},
		{name: "single char difference", password: "thisIsAVeryLongPasswordToTestSingleCharDiff", attempt: "thisIsAVeryLongPasswordXoTestSingleCharDiff", wantOk: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			a := testArgon2()
			hash, err := a.Hash(test.password)
			require.NoError(t, err)

			// Act
			ok, err := a.Verify(test.attempt, hash)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, test.wantOk, ok)
		})
	}
}

func TestArgon2_Verify_InvalidHashes(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "invalid format", hash: "invalid-hash"},
		{name: "too few parts", hash: "$argon2id$v=19$m=65536,t=3,p=2$salt"},
		{name: "unsupported algorithm", hash: "$argon2i$v=19$m=65536,t=3,p=2$salt$hash"},
		{name: "wrong version", hash: "$argon2id$v=16$m=65536,t=3,p=2$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{name: "zero parallelism", hash: "$argon2id$v=19$m=65536,t=3,p=0$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{name: "bad salt encoding", hash: "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaGhhc2g"},
		{name: "empty key", hash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHQ$"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			ok, err := testArgon2().Verify("password", test.hash)

			// Assert
			assert.Error(t, err)
			assert.False(t, ok)
		})
	}
}

func TestArgon2_Verify_AcrossParameters(t *testing.T) {
	// Arrange
	weak := &Argon2{Memory: 4 * 1024, Iterations: 2, Parallelism: 1, SaltLength: 8, KeyLength: 16}
	hash, err := weak.Hash("test-password")
	require.NoError(t, err)

	// Act
	ok, err := testArgon2().Verify("test-password", hash)

	// Assert
	require.NoError(t, err)
	assert.True(t, ok, "parameters are read from the stored hash")
}

func TestArgon2_Parameters(t *testing.T) {
	// Arrange
	a := &Argon2{Memory: 16 * 1024, Iterations: 2, Parallelism: 4, SaltLength: 24, KeyLength: 48}
	hash, err := a.Hash("test")
	require.NoError(t, err)

	// Act
	params, salt, key, err := decodeArgon2Hash(hash)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint32(16*1024), params.Memory)
	assert.Equal(t, uint32(2), params.Iterations)
	assert.Equal(t, uint8(4), params.Parallelism)
	assert.Len(t, salt, 24)
	assert.Len(t, key, 48)
}

func TestArgon2_New_Defaults(t *testing.T) {
	a := NewArgon2()

	assert.Equal(t, uint32(64*1024), a.Memory)
	assert.Equal(t, uint32(3), a.Iterations)
	assert.Equal(t, uint8(2), a.Parallelism)
	assert.Equal(t, uint32(16), a.SaltLength)
	assert.Equal(t, uint32(32), a.KeyLength)
}

func TestBcrypt_Verify(t *testing.T) {
	// Arrange
	b := &Bcrypt{Cost: bcrypt.MinCost}
	hash, err := b.Hash("Secret123!")
	require.NoError(t, err)

	tests := []struct {
		name    string
		attempt string
		hash    string
		wantOk  bool
		wantErr bool
	}{
		{name: "match", attempt: "Secret123!", hash: hash, wantOk: true},
		{name: "mismatch", attempt: "WrongPass", hash: hash, wantOk: false},
		{name: "garbage hash", attempt: "Secret123!", hash: "$2a$garbage", wantErr: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			ok, err := b.Verify(test.attempt, test.hash)

			// Assert
			if test.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHash)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantOk, ok)
		})
	}
}

func TestChain(t *testing.T) {
	// Arrange
	primary := testArgon2()
	legacy := &Bcrypt{Cost: bcrypt.MinCost}
	chain := NewChain(primary, legacy)

	argonHash, err := chain.Hash("Secret123!")
	require.NoError(t, err)
	bcryptHash, err := legacy.Hash("Secret123!")
	require.NoError(t, err)

	tests := []struct {
		name       string
		attempt    string
		hash       string
		wantOk     bool
		wantErr    error
		wantRehash bool
	}{
		{name: "primary hash matches", attempt: "Secret123!", hash: argonHash, wantOk: true},
		{name: "primary hash mismatch", attempt: "nope", hash: argonHash, wantOk: false},
		{name: "legacy hash matches", attempt: "Secret123!", hash: bcryptHash, wantOk: true, wantRehash: true},
		{name: "legacy hash mismatch", attempt: "nope", hash: bcryptHash, wantOk: false, wantRehash: true},
		{name: "unknown scheme", attempt: "Secret123!", hash: "$md5$abc", wantErr: ErrUnsupportedHashAlgo, wantRehash: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			ok, err := chain.Verify(test.attempt, test.hash)

			// Assert
			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, test.wantOk, ok)
			assert.Equal(t, test.wantRehash, chain.NeedsRehash(test.hash))
		})
	}
}

func TestArgon2_Concurrent(t *testing.T) {
	// Arrange
	a := testArgon2()
	const goroutines = 10
	errs := make(chan error, goroutines)

	// Act
	for i := 0; i < goroutines; i++ {
		i := i
		go func() {
			password := strings.Repeat("a", i+1)
			hash, err := a.Hash(password)
			if err != nil {
				errs <- err
				return
			}
			ok, err := a.Verify(password, hash)
			if err == nil && !ok {
				err = ErrInvalidHash
			}
			errs <- err
		}()
	}

	// Assert
	for i := 0; i < goroutines; i++ {
		assert.NoError(t, <-errs)
	}
}

func FuzzArgon2_Verify(f *testing.F) {
	f.Add("")
	f.Add("test")
	f.Add("p@ssw0rd!#$%")
	f.Add("pass\x00word")

	a := testArgon2()

	f.Fuzz(func(t *testing.T, password string) {
		hash, err := a.Hash(password)
		if err != nil {
			t.Fatalf("Hash() error = %v", err)
		}

		ok, err := a.Verify(password, hash)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !ok {
			t.Fatal("Verify() should return true for correct password")
		}

		// the same hash never verifies a different password
		ok, _ = a.Verify(password+"x", hash)
		if ok {
			t.Fatal("Verify() accepted a different password")
		}
	})
}
