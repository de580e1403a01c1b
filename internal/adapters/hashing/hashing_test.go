package hashing

import (
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fastArgon2 keeps the test suite quick; production uses DefaultArgon2Params.
func fastArgon2() Argon2Params {
	return Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32}
}

func TestSHA256Hasher(t *testing.T) {
	h := NewSHA256Hasher()

	t.Run("matches the known digest of student123", func(t *testing.T) {
		digest, err := h.Hash("student123")
		require.NoError(t, err)
		assert.Equal(t, "703b0a3d6ad75b649a28adde7d83c6251da457549263bc7ff45ec709b0a8448b", digest)
	})

	t.Run("is deterministic and fixed length", func(t *testing.T) {
		for _, p := range []string{"", "a", "teacher123", "pässwörd", strings.Repeat("x", 4096)} {
			d1, _ := h.Hash(p)
			d2, _ := h.Hash(p)
			assert.Equal(t, d1, d2)
			assert.Len(t, d1, 64)
		}
	})

	t.Run("verify round trips", func(t *testing.T) {
		for _, p := range []string{"", "student123", "teacher123", "ünïcode"} {
			d, _ := h.Hash(p)
			assert.True(t, h.Verify(p, d), "password %q", p)
		}
	})

	t.Run("distinct plaintexts do not verify", func(t *testing.T) {
		plaintexts := []string{"student123", "Student123", "student1234", "teacher123", ""}
		for _, p := range plaintexts {
			for _, q := range plaintexts {
				d, _ := h.Hash(q)
				assert.Equal(t, p == q, h.Verify(p, d), "verify(%q, hash(%q))", p, q)
			}
		}
	})

	t.Run("malformed digest never matches", func(t *testing.T) {
		assert.False(t, h.Verify("student123", ""))
		assert.False(t, h.Verify("student123", "not-hex"))
		assert.False(t, h.Verify("student123", strings.ToUpper(Digest("student123"))))
	})
}

func TestArgon2idHasher(t *testing.T) {
	h := NewArgon2idHasher(fastArgon2())

	t.Run("produces PHC strings with random salt", func(t *testing.T) {
		d1, err := h.Hash("samepassword")
		require.NoError(t, err)
		d2, err := h.Hash("samepassword")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(d1, "$argon2id$v=19$m=8192,t=1,p=1$"))
		assert.NotEqual(t, d1, d2)
	})

	t.Run("verifies correct password only", func(t *testing.T) {
		d, err := h.Hash("teacher123")
		require.NoError(t, err)
		assert.True(t, h.Verify("teacher123", d))
		assert.False(t, h.Verify("teacher124", d))
	})

	t.Run("verifies digests made with other parameters", func(t *testing.T) {
		other := NewArgon2idHasher(Argon2Params{Time: 2, Memory: 16 * 1024, Threads: 2, SaltLen: 8, KeyLen: 16})
		d, err := other.Hash("teacher123")
		require.NoError(t, err)
		assert.True(t, h.Verify("teacher123", d))
	})

	t.Run("rejects malformed digests", func(t *testing.T) {
		for _, d := range []string{
			"",
			"$argon2id$",
			"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=8192,t=1,p=0$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
			"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$",
		} {
			assert.False(t, h.Verify("pw", d), "digest %q", d)
		}
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	d, err := h.Hash("student123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d, "$2a$"))
	assert.True(t, h.Verify("student123", d))
	assert.False(t, h.Verify("student12", d))
	assert.False(t, h.Verify("student123", "$2a$garbage"))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).cost)
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Scheme
		wantErr bool
	}{
		{in: "", want: SchemeSHA256},
		{in: "sha256", want: SchemeSHA256},
		{in: " ARGON2ID ", want: SchemeArgon2id},
		{in: "bcrypt", want: SchemeBcrypt},
		{in: "md5", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseScheme(tt.in)
		if tt.wantErr {
			require.Error(t, err)
			oopsErr, ok := oops.AsOops(err)
			require.True(t, ok)
			assert.Equal(t, "HASH_UNKNOWN_SCHEME", oopsErr.Code())
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDetectScheme(t *testing.T) {
	assert.Equal(t, SchemeSHA256, DetectScheme(Digest("x")))
	assert.Equal(t, SchemeArgon2id, DetectScheme("$argon2id$v=19$m=1,t=1,p=1$a$b"))
	assert.Equal(t, SchemeBcrypt, DetectScheme("$2b$10$abcdefghijklmnopqrstuv"))
	assert.Equal(t, SchemeBcrypt, DetectScheme("$2y$10$abcdefghijklmnopqrstuv"))
	assert.Equal(t, SchemeSHA256, DetectScheme(""))
}

func TestSchemeHasher(t *testing.T) {
	h, err := NewSchemeHasher(SchemeArgon2id)
	require.NoError(t, err)
	h.hashers[SchemeArgon2id] = NewArgon2idHasher(fastArgon2())
	h.hashers[SchemeBcrypt] = NewBcryptHasher(bcrypt.MinCost)

	t.Run("hashes with the primary scheme", func(t *testing.T) {
		d, err := h.Hash("teacher123")
		require.NoError(t, err)
		assert.Equal(t, SchemeArgon2id, DetectScheme(d))
		assert.True(t, h.Verify("teacher123", d))
		assert.False(t, h.NeedsUpgrade(d))
	})

	t.Run("still verifies legacy sha256 rows", func(t *testing.T) {
		legacy := Digest("student123")
		assert.True(t, h.Verify("student123", legacy))
		assert.False(t, h.Verify("student124", legacy))
		assert.True(t, h.NeedsUpgrade(legacy))
	})

	t.Run("verifies bcrypt rows", func(t *testing.T) {
		d, err := NewBcryptHasher(bcrypt.MinCost).Hash("pw")
		require.NoError(t, err)
		assert.True(t, h.Verify("pw", d))
	})
}

func TestNewSchemeHasher(t *testing.T) {
	h, err := NewSchemeHasher("")
	require.NoError(t, err)
	assert.Equal(t, SchemeSHA256, h.Primary())

	_, err = NewSchemeHasher("rot13")
	assert.Error(t, err)
}

func TestDummyDigest(t *testing.T) {
	tests := []struct {
		name   string
		hasher interface {
			Verify(password, digest string) bool
			DummyDigest() string
		}
		want Scheme
	}{
		{name: "sha256", hasher: NewSHA256Hasher(), want: SchemeSHA256},
		{name: "argon2id", hasher: NewArgon2idHasher(fastArgon2()), want: SchemeArgon2id},
		{name: "bcrypt", hasher: NewBcryptHasher(bcrypt.MinCost), want: SchemeBcrypt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := tt.hasher.DummyDigest()
			require.NotEmpty(t, dummy)
			assert.Equal(t, tt.want, DetectScheme(dummy))
			assert.Equal(t, dummy, tt.hasher.DummyDigest(), "dummy digest must be stable")

			for _, pw := range []string{"", "student123", "teacher123", "password"} {
				assert.False(t, tt.hasher.Verify(pw, dummy), "password %q", pw)
			}
		})
	}
}

func TestArgon2idHasher_DummyDigestCarriesParams(t *testing.T) {
	h := NewArgon2idHasher(fastArgon2())

	assert.Contains(t, h.DummyDigest(), "$m=8192,t=1,p=1$")
	assert.Len(t, strings.Split(h.DummyDigest(), "$"), 6)
}

func TestSchemeHasher_DummyDigestFollowsPrimary(t *testing.T) {
	for _, scheme := range []Scheme{SchemeSHA256, SchemeArgon2id, SchemeBcrypt} {
		h, err := NewSchemeHasher(scheme)
		require.NoError(t, err)
		assert.Equal(t, scheme, DetectScheme(h.DummyDigest()), "primary %s", scheme)
	}
}
