package list_appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	got *models.ListAppointmentsRequest
	err error
}

func (f *fakeService) List(_ context.Context, _ domain.Actor, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}, nil
}

func TestToServiceRequest(t *testing.T) {
	query, err := url.ParseQuery("date=2026-10-19&specialistId=2&status=confirmed&includeCancelled=true&limit=10&offset=20")
	require.NoError(t, err)

	req, err := ToServiceRequest(query)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), *req.Date)
	assert.Equal(t, int64(2), *req.SpecialistID)
	assert.Equal(t, "confirmed", *req.Status)
	assert.True(t, req.IncludeCancelled)
	assert.Equal(t, 10, req.Limit)
	assert.Equal(t, 20, req.Offset)
	assert.Nil(t, req.ClientID)
}

func TestToServiceRequest_Defaults(t *testing.T) {
	req, err := ToServiceRequest(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, defaultLimit, req.Limit)
	assert.False(t, req.IncludeCancelled)
	assert.Nil(t, req.Date)
}

func TestToServiceRequest_Invalid(t *testing.T) {
	for _, raw := range []string{
		"date=2026/10/19",
		"dateFrom=x",
		"specialistId=abc",
		"clientId=0",
		"includeCancelled=maybe",
		"limit=ten",
	} {
		query, err := url.ParseQuery(raw)
		require.NoError(t, err)
		_, err = ToServiceRequest(query)
		assert.Error(t, err, raw)
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "ok", target: "/appointments?date=2026-10-19", wantStatus: http.StatusOK},
		{name: "bad query", target: "/appointments?limit=x", wantStatus: http.StatusBadRequest},
		{name: "rejected filter", target: "/appointments", err: appointments.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", target: "/appointments", err: appointments.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 4, Role: domain.RoleClient}))
			rec := httptest.NewRecorder()

			NewHandler(&fakeService{err: tt.err}, logger.NewNop()).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
