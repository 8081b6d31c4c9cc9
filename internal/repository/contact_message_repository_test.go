package repository

import (
	"testing"
	"time"

	"github.com/elwarcha/gallery/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactMessageInbox(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactMessageRepository(db)
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	for i, subject := range []string{"Premier", "Deuxième", "Troisième"} {
		message := &models.ContactMessage{
			Name: "Youssef", Email: "youssef@example.com", Subject: subject, Message: "Bonjour la galerie",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Create(message))
	}

	messages, total, err := repo.List(ContactMessageListFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, messages, 2)
	assert.Equal(t, "Troisième", messages[0].Subject)

	found, err := repo.MarkRead(messages[0].ID, base)
	require.NoError(t, err)
	assert.True(t, found)
	_, unread, err := repo.List(ContactMessageListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	found, err = repo.MarkRead(999, base)
	require.NoError(t, err)
	assert.False(t, found)

	deleted, err := repo.Delete(messages[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	gone, err := repo.GetByID(messages[0].ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCountPaintingsUsingRejectsUnknownColumn(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaxonomyRepository(db)

	_, err := repo.CountPaintingsUsing("title", 1)
	assert.Error(t, err)
	n, err := repo.CountPaintingsUsing("style_id", 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}
