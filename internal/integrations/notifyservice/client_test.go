package notifyservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

func TestClient_SendReminder(t *testing.T) {
	var got Reminder
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/notifications/reminders", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.NewNop())
	err := c.SendReminder(context.Background(), Reminder{
		AppointmentID: 5,
		ClientName:    "Анна",
		Date:          "2030-06-03",
		StartTime:     "10:00",
		Services:      []string{"Стрижка"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), got.AppointmentID)
	assert.Equal(t, []string{"Стрижка"}, got.Services)
}

func TestClient_SendReminder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, "", ErrRecipientNotFound},
		{"bad request", http.StatusBadRequest, `{"code":400,"message":"no contact"}`, ErrInvalidResponse},
		{"server error", http.StatusInternalServerError, "oops", ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second, logger.NewNop())
			err := c.SendReminder(context.Background(), Reminder{AppointmentID: 1})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_SendReminder_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, logger.NewNop())
	err := c.SendReminder(context.Background(), Reminder{AppointmentID: 1})
	assert.ErrorIs(t, err, ErrInternal)
}
