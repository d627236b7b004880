package events

import (
	"context"
	"encoding/json"
	"learnhub/database"
	"learnhub/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxPublisher_StoresEvent(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	pub := NewOutboxPublisher(db)
	pub.Publish(context.Background(), Event{
		Type:         EnrollmentApproved,
		UserID:       4,
		CourseID:     9,
		EnrollmentID: 12,
	})

	var rows []models.LifecycleEvent
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, string(EnrollmentApproved), rows[0].EventType)
	assert.Equal(t, uint(4), rows[0].UserID)
	assert.False(t, rows[0].Delivered)
	assert.False(t, rows[0].OccurredAt.IsZero())

	var decoded Event
	require.NoError(t, json.Unmarshal(rows[0].Payload, &decoded))
	assert.Equal(t, uint(12), decoded.EnrollmentID)
	assert.Equal(t, uint(9), decoded.CourseID)
}
