package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/pkg/client"
)

func TestBanner(t *testing.T) {
	assert.Empty(t, banner(nil))
	assert.Empty(t, banner(&pronotev1.Urgency{Level: "none"}))
	assert.Contains(t, banner(&pronotev1.Urgency{Level: "critical", Message: "Hurry up", Color: "red"}), "Hurry up")
	assert.Contains(t, banner(&pronotev1.Urgency{Level: "warning", Message: "Soon", Color: "orange"}), "Soon")
}

func TestRenderHistory(t *testing.T) {
	late := &pronotev1.TaskView{
		Task:          &pronotev1.Task{ID: "t1", Name: "Write report", Status: 1, Deadline: "2024-03-08T12:00:00Z"},
		DeadlineValid: true,
		DaysRemaining: -2,
		Overdue:       true,
		Urgency:       &pronotev1.Urgency{Level: "none"},
	}
	soon := &pronotev1.TaskView{
		Task: &pronotev1.Task{
			ID: "t2", Name: "Review", Deadline: "2024-03-11T12:00:00Z",
			SubTasks: []*pronotev1.SubTask{{ID: "s1", Name: "read draft", Done: 1}},
		},
		DeadlineValid: true,
		DaysRemaining: 1,
		Urgency:       &pronotev1.Urgency{Level: "critical", Message: "Due very soon", Color: "red"},
	}

	var buf bytes.Buffer
	renderHistory(&buf, &pronotev1.HistoryResponse{
		NotDone:    []*pronotev1.TaskView{soon},
		InProgress: []*pronotev1.TaskView{late},
		FailedToDo: []*pronotev1.TaskView{late},
	})
	out := buf.String()

	assert.Contains(t, out, "Not done (1)")
	assert.Contains(t, out, "Completed (0)")
	assert.Contains(t, out, "Failed to do (1)")
	assert.Contains(t, out, "overdue by 2 day(s)")
	assert.Contains(t, out, "Due very soon")
	assert.Contains(t, out, "read draft")
	assert.Contains(t, out, "in_progress")
}

func TestRenderConversation(t *testing.T) {
	var buf bytes.Buffer
	renderConversation(&buf, []*pronotev1.Message{
		{SenderID: "me", Content: "hello", SentAt: "t1"},
		{SenderID: "other", Content: "hi", SentAt: "t2"},
	}, "me")

	assert.Contains(t, buf.String(), "you: hello")
	assert.Contains(t, buf.String(), "them: hi")
}

func TestParseStatusArg(t *testing.T) {
	tests := []struct {
		in      string
		want    int32
		wantErr bool
	}{
		{"to_do", 0, false},
		{"In_Progress", 1, false},
		{"completed", 2, false},
		{"2", 2, false},
		{"3", 0, true},
		{"done", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseStatusArg(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := loadSession(path)
	require.NoError(t, err)
	assert.Nil(t, s)

	saved := &client.Session{
		User:         &pronotev1.User{ID: "u1", Email: "a@example.com"},
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, saveSession(path, saved))

	s, err = loadSession(path)
	require.NoError(t, err)
	assert.Equal(t, saved, s)

	require.NoError(t, saveSession(path, nil))
	s, err = loadSession(path)
	require.NoError(t, err)
	assert.Nil(t, s)

	// removing twice is fine
	assert.NoError(t, saveSession(path, nil))
}
