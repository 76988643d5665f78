package events

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestVerifySharedSecret(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
		ok   bool
	}{
		{"Match", "s3cret", "s3cret", true},
		{"Mismatch", "wrong", "s3cret", false},
		{"EmptyHeader", "", "s3cret", false},
		{"UnconfiguredSecretRejectsEverything", "", "", false},
		{"UnconfiguredSecretRejectsNonEmpty", "anything", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySharedSecret(tt.got, tt.want); got != tt.ok {
				t.Errorf("VerifySharedSecret(%q, %q) = %v, want %v", tt.got, tt.want, got, tt.ok)
			}
		})
	}
}

func signPayment(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	tolerance := 5 * time.Minute

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{
			name:    "Valid",
			header:  signPayment(payload, secret, now),
			wantErr: nil,
		},
		{
			name:    "ValidWithinTolerance",
			header:  signPayment(payload, secret, now.Add(-4*time.Minute)),
			wantErr: nil,
		},
		{
			name:    "Stale",
			header:  signPayment(payload, secret, now.Add(-10*time.Minute)),
			wantErr: ErrStaleSignature,
		},
		{
			name:    "FutureBeyondTolerance",
			header:  signPayment(payload, secret, now.Add(10*time.Minute)),
			wantErr: ErrStaleSignature,
		},
		{
			name:    "WrongSecret",
			header:  signPayment(payload, "whsec_other", now),
			wantErr: ErrBadSignature,
		},
		{
			name:    "TamperedPayloadDetected",
			header:  signPayment([]byte(`{"id":"evt_2"}`), secret, now),
			wantErr: ErrBadSignature,
		},
		{
			name:    "MissingHeader",
			header:  "",
			wantErr: ErrMissingSignature,
		},
		{
			name:    "MalformedHeader",
			header:  "v1=deadbeef",
			wantErr: ErrMissingSignature,
		},
		{
			name:    "NonNumericTimestamp",
			header:  "t=yesterday,v1=deadbeef",
			wantErr: ErrMissingSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPaymentSignature(payload, tt.header, secret, tolerance, now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyPaymentSignature() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
