package paycrypt

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidCard is returned when the decrypted payment document does not
// match the expected schema.
var ErrInvalidCard = errors.New("invalid payment document")

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3}$`)
)

// CardDetails is the plaintext payment document carried inside the
// ciphertext envelope.
type CardDetails struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// Validate checks the card document schema: 16-digit card number, MM/YY
// expiry, 3-digit CVV.
func (c CardDetails) Validate() error {
	switch {
	case !cardNumberRe.MatchString(c.CardNumber):
		return fmt.Errorf("%w: cardNumber must be 16 digits", ErrInvalidCard)
	case !expiryRe.MatchString(c.ExpiryDate):
		return fmt.Errorf("%w: expiryDate must be MM/YY", ErrInvalidCard)
	case !cvvRe.MatchString(c.CVV):
		return fmt.Errorf("%w: cvv must be 3 digits", ErrInvalidCard)
	}
	return nil
}

// LastFour returns the trailing four digits of the card number.
func (c CardDetails) LastFour() string {
	if len(c.CardNumber) < 4 {
		return c.CardNumber
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}

// DecodeCard parses and validates a decrypted payment document. Browser
// clients JSON-stringify the document before encrypting the already-string
// payload, so the plaintext may arrive as a JSON string wrapping the real
// object; one level of unwrapping is tolerated.
func DecodeCard(plaintext []byte) (CardDetails, error) {
	raw := plaintext
	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		raw = []byte(nested)
	}

	var card CardDetails
	if err := json.Unmarshal(raw, &card); err != nil {
		return CardDetails{}, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	if err := card.Validate(); err != nil {
		return CardDetails{}, err
	}
	return card, nil
}
