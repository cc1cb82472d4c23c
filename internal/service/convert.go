package service

import (
	"time"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/internal/models"
	"github.com/gurkanbulca/pronote/internal/taskstate"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func convertUserToProto(u *models.User) *pronotev1.User {
	return &pronotev1.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Job:       u.Job,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func convertTaskToProto(t *models.Task) *pronotev1.Task {
	subTasks := make([]*pronotev1.SubTask, len(t.SubTasks))
	for i, st := range t.SubTasks {
		subTasks[i] = &pronotev1.SubTask{ID: st.ID, Name: st.Name, Done: boolToFlag(st.Done)}
	}

	return &pronotev1.Task{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		AssignedTo:   t.AssignedTo,
		CreatedBy:    t.CreatedBy,
		Deadline:     t.Deadline.String(),
		Status:       int32(t.Status),
		StatusManual: t.StatusManual,
		SubTasks:     subTasks,
		CreatedAt:    formatTime(t.CreatedAt),
		UpdatedAt:    formatTime(t.UpdatedAt),
	}
}

func convertTasksToProto(tasks []*models.Task) []*pronotev1.Task {
	out := make([]*pronotev1.Task, len(tasks))
	for i, t := range tasks {
		out[i] = convertTaskToProto(t)
	}
	return out
}

func convertViewToProto(v taskstate.TaskView) *pronotev1.TaskView {
	return &pronotev1.TaskView{
		Task:          convertTaskToProto(v.Task),
		DeadlineValid: v.DeadlineValid,
		DaysRemaining: int32(v.DaysRemaining),
		Overdue:       v.Overdue,
		Urgency: &pronotev1.Urgency{
			Level:   v.Urgency.Level.String(),
			Message: v.Urgency.Message,
			Color:   string(v.Urgency.Color),
		},
	}
}

func convertMessageToProto(m *models.Message) *pronotev1.Message {
	return &pronotev1.Message{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		SentAt:      formatTime(m.SentAt),
	}
}

func boolToFlag(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
