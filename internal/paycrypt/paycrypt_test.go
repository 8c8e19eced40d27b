package paycrypt

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := newKey(t)
	plaintext := []byte(`{"cardNumber":"4242424242424242","expiryDate":"12/30","cvv":"123"}`)

	envelope, err := Encrypt(plaintext, &key.PublicKey)
	require.NoError(t, err)
	assert.NotEqual(t, string(plaintext), envelope)

	decrypted, err := Decrypt(envelope, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecryptWrongKey(t *testing.T) {
	key := newKey(t)
	other := newKey(t)

	envelope, err := Encrypt([]byte("secret"), &key.PublicKey)
	require.NoError(t, err)

	_, err = Decrypt(envelope, other)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecryptMalformedBase64(t *testing.T) {
	key := newKey(t)

	_, err := Decrypt("not base64!!!", key)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestKeyPEMRoundTrip(t *testing.T) {
	key := newKey(t)

	pemStr, err := MarshalPublicKey(&key.PublicKey)
	require.NoError(t, err)
	assert.Contains(t, pemStr, "BEGIN PUBLIC KEY")

	pub, err := ParsePublicKey([]byte(pemStr))
	require.NoError(t, err)
	assert.True(t, pub.Equal(&key.PublicKey))
}

func TestParsePrivateKeyRejectsGarbage(t *testing.T) {
	_, err := ParsePrivateKey([]byte("not a pem"))
	assert.Error(t, err)
}

func TestCardDetailsValidate(t *testing.T) {
	valid := CardDetails{CardNumber: "4242424242424242", ExpiryDate: "12/30", CVV: "123"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		card CardDetails
	}{
		{"short card number", CardDetails{CardNumber: "4242", ExpiryDate: "12/30", CVV: "123"}},
		{"non-digit card number", CardDetails{CardNumber: "42424242424242ab", ExpiryDate: "12/30", CVV: "123"}},
		{"bad expiry month", CardDetails{CardNumber: "4242424242424242", ExpiryDate: "13/30", CVV: "123"}},
		{"expiry missing slash", CardDetails{CardNumber: "4242424242424242", ExpiryDate: "1230", CVV: "123"}},
		{"long cvv", CardDetails{CardNumber: "4242424242424242", ExpiryDate: "12/30", CVV: "1234"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCard)
		})
	}
}

func TestDecodeCard(t *testing.T) {
	card := CardDetails{CardNumber: "4242424242424242", ExpiryDate: "12/30", CVV: "123"}
	raw, err := json.Marshal(card)
	require.NoError(t, err)

	decoded, err := DecodeCard(raw)
	require.NoError(t, err)
	assert.Equal(t, card, decoded)
}

func TestDecodeCardDoubleEncoded(t *testing.T) {
	// Browser clients stringify twice: the document is serialised, then the
	// resulting string is serialised again before encryption.
	card := CardDetails{CardNumber: "4242424242424242", ExpiryDate: "12/30", CVV: "123"}
	inner, err := json.Marshal(card)
	require.NoError(t, err)
	outer, err := json.Marshal(string(inner))
	require.NoError(t, err)

	decoded, err := DecodeCard(outer)
	require.NoError(t, err)
	assert.Equal(t, card, decoded)
}

func TestDecodeCardRejectsInvalidSchema(t *testing.T) {
	_, err := DecodeCard([]byte(`{"cardNumber":"42","expiryDate":"12/30","cvv":"123"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCard)

	_, err = DecodeCard([]byte(`not json at all`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestLastFour(t *testing.T) {
	card := CardDetails{CardNumber: "4242424242424242"}
	assert.Equal(t, "4242", card.LastFour())
}
