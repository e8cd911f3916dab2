package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	key, err := NewKey()
	require.NoError(t, err)
	c, err := New(key)
	require.NoError(t, err)
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)
	for _, msg := range []string{"", "hi", "I'm feeling a bit off today 😔", strings.Repeat("long ", 500)} {
		sealed := c.Encrypt(msg)
		assert.NotEqual(t, msg, sealed)
		assert.Equal(t, msg, c.Decrypt(sealed))

		opened, err := c.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, msg, opened)
	}
}

func TestCodec_FreshNoncePerMessage(t *testing.T) {
	c := newTestCodec(t)
	assert.NotEqual(t, c.Encrypt("same"), c.Encrypt("same"))
}

func TestCodec_DecryptGarbageIsFailSoft(t *testing.T) {
	c := newTestCodec(t)
	for _, garbage := range []string{"garbage", "", "Zm9v", "not base64 at all!!"} {
		assert.Equal(t, garbage, c.Decrypt(garbage))
		_, err := c.Open(garbage)
		assert.ErrorIs(t, err, ErrDecode)
	}
}

func TestCodec_WrongKeyLeavesCiphertext(t *testing.T) {
	a := newTestCodec(t)
	b := newTestCodec(t)
	sealed := a.Encrypt("secret")
	assert.Equal(t, sealed, b.Decrypt(sealed))
}

func TestCodec_NilCodecFailsSoft(t *testing.T) {
	var c *Codec
	out, ok := c.EncryptReport("plain")
	assert.False(t, ok)
	assert.Equal(t, "plain", out)
	assert.Equal(t, "plain", c.Encrypt("plain"))
	assert.Equal(t, "x", c.Decrypt("x"))
}

func TestParseKey_RestoresPadding(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	compact := EncodeKeyCompact(key)
	assert.False(t, strings.HasSuffix(compact, "="))

	parsed, err := ParseKey(compact)
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	parsed, err = ParseKey(compact + "=")
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
}

func TestParseKey_Invalid(t *testing.T) {
	_, err := ParseKey("short")
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = ParseKey("$$$$")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestFromConfig(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	configured, err := FromConfig(EncodeKeyCompact(key))
	require.NoError(t, err)
	direct, err := New(key)
	require.NoError(t, err)
	assert.Equal(t, "hello", direct.Decrypt(configured.Encrypt("hello")))

	generated, err := FromConfig("")
	require.NoError(t, err)
	assert.Equal(t, "hello", generated.Decrypt(generated.Encrypt("hello")))

	fallback, err := FromConfig("not-a-key")
	require.NoError(t, err)
	assert.NotNil(t, fallback)
}
