package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	balance int
	err     error
	reads   int
}

func (l *fakeLedger) GetBalance(ctx context.Context, userID string) (int, error) {
	l.reads++
	return l.balance, l.err
}

func TestAuthorizeInsufficient(t *testing.T) {
	ledger := &fakeLedger{balance: 3}
	a := NewCreditAuthorizer(ledger, 1)

	_, err := a.Authorize(context.Background(), "user-1", 6)

	var insufficient InsufficientCreditsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 6, insufficient.Required)
	assert.Equal(t, 3, insufficient.Current)
	assert.Equal(t, "user-1", insufficient.UserID)
	assert.Equal(t, 1, ledger.reads)
}

func TestAuthorizeSufficient(t *testing.T) {
	a := NewCreditAuthorizer(&fakeLedger{balance: 18}, 2)

	auth, err := a.Authorize(context.Background(), "user-1", 9)
	require.NoError(t, err)
	assert.Equal(t, 18, auth.Required)
	assert.Equal(t, 18, auth.Current)
}

func TestAuthorizeLedgerFailure(t *testing.T) {
	a := NewCreditAuthorizer(&fakeLedger{err: errors.New("db down")}, 1)

	_, err := a.Authorize(context.Background(), "user-1", 6)
	require.Error(t, err)
	var insufficient InsufficientCreditsError
	assert.False(t, errors.As(err, &insufficient))
}

func TestDefaultPerImageCost(t *testing.T) {
	a := NewCreditAuthorizer(&fakeLedger{}, 0)
	assert.Equal(t, 6, a.Required(6))
}
