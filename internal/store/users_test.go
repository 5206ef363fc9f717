package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitude/internal/models"
)

func TestOptedInRejectsUnknownKind(t *testing.T) {
	s := NewUsers(nil)

	users, err := s.OptedIn(context.Background(), models.NotificationKind(42))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown notification kind")
	assert.Nil(t, users)
}
