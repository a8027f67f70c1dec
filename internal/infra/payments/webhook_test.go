package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func TestVerifySignature_RoundTrip(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	header := Sign(payload, testSecret, now)

	assert.NoError(t, VerifySignature(payload, header, testSecret, now, 5*time.Minute))
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	header := Sign([]byte(`{"amount":100}`), testSecret, now)

	err := VerifySignature([]byte(`{"amount":999}`), header, testSecret, now, 5*time.Minute)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	header := Sign(payload, "whsec_other", now)

	err := VerifySignature(payload, header, testSecret, now, 5*time.Minute)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	signedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	header := Sign(payload, testSecret, signedAt)

	err := VerifySignature(payload, header, testSecret, signedAt.Add(10*time.Minute), 5*time.Minute)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	for _, header := range []string{"", "v1=abc", "t=123", "nonsense"} {
		err := VerifySignature([]byte(`{}`), header, testSecret, time.Now(), 0)
		assert.ErrorIs(t, err, ErrMalformedSignature, "header %q", header)
	}
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_123", "metadata": {"booking_id": "bk_456"}}}
	}`)
	event, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_123", event.SessionID)
	assert.Equal(t, "bk_456", event.BookingID)
}

func TestParseEvent_MissingSession(t *testing.T) {
	_, err := ParseEvent([]byte(`{"type":"checkout.session.completed","data":{"object":{}}}`))
	assert.Error(t, err)
}
