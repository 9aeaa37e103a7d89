package hasher

import (
	"testing"

	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashCompare(t *testing.T) {
	b := NewBcrypt(bcrypt.MinCost)

	h, err := b.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", h)

	assert.NoError(t, b.Compare(h, "s3cret"))
	assert.ErrorIs(t, b.Compare(h, "wrong"), errs.ErrInvalidCredentials)
}

func TestNewBcrypt_OutOfRangeCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(100).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
}
