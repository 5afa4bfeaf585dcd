package sendnotification

import (
	"context"
	"encoding/json"
	"testing"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/models"
	"placement-workers/internal/notify"
	"placement-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	args := m.Called(ctx, to, subject, body)
	return args.String(0), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "notification-process",
		ElementId:          "Activity_SendNotification",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func TestHandler_Process(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	email := new(MockEmail)
	email.On("SendEmail", mock.Anything, "placements@vit.example", "Drive reminder", mock.Anything).
		Return("msg-1", nil)

	dispatcher := notify.NewDispatcher(mem, notify.Options{
		Email:     email,
		Addresses: map[string]string{"vit_admin": "placements@vit.example"},
		Logger:    logger.NewTestLogger(t),
	})
	h, err := NewHandler(HandlerOptions{Service: dispatcher, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	out, err := h.runner.Process(ctx, createMockJob(1, map[string]interface{}{
		"toRole": "vit_admin",
		"title":  "Drive reminder",
		"body":   "Campus drive on Friday",
	}), h.run)
	require.NoError(t, err)

	res := out.(*Output)
	assert.Equal(t, "VIT_ADMIN", res.ToRole)
	assert.NotEmpty(t, res.NotificationID)
	assert.Equal(t, models.DeliverySent, res.Deliveries[notify.ChannelEmail])
	assert.Equal(t, models.DeliveryDisabled, res.Deliveries[notify.ChannelSMS])

	stored, err := mem.ListNotifications(ctx, models.RoleAdmin, true)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	email.AssertExpectations(t)
}

func TestHandler_Execute_UnknownRole(t *testing.T) {
	h, err := NewHandler(HandlerOptions{Service: notify.NewDispatcher(store.NewMemory(), notify.Options{})})
	require.NoError(t, err)

	_, err = h.Execute(context.Background(), &Input{ToRole: "STUDENT", Title: "hi"})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)
}
