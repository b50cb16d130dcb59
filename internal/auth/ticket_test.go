package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestIssueAndValidateTicket(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()

	ticket, err := IssueSessionTicket(testSecret, sessionID, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, ticket)

	got, err := ValidateTicket(testSecret, ticket)
	require.NoError(t, err)
	assert.Equal(t, sessionID, got)
}

func TestValidateTicketRejections(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()

	tests := []struct {
		name   string
		ticket func(t *testing.T) string
	}{
		{
			name: "garbage token",
			ticket: func(t *testing.T) string {
				return "not.a.jwt"
			},
		},
		{
			name: "wrong secret",
			ticket: func(t *testing.T) string {
				ticket, err := IssueSessionTicket("other-secret", sessionID, time.Hour)
				require.NoError(t, err)
				return ticket
			},
		},
		{
			name: "expired",
			ticket: func(t *testing.T) string {
				ticket, err := IssueSessionTicket(testSecret, sessionID, -time.Minute)
				require.NoError(t, err)
				return ticket
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateTicket(testSecret, tt.ticket(t))
			assert.ErrorIs(t, err, ErrInvalidTicket)
		})
	}
}
