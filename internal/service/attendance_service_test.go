package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"bms/internal/model"
	"bms/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAttendanceFixture(now time.Time) (*attendanceService, *mockAttendanceRepository, *mockPublisher, *model.Employee) {
	repo := &mockAttendanceRepository{}
	employees := &mockEmployeeRepository{}
	events := &mockPublisher{}
	employee := &model.Employee{ID: uuid.New(), Name: "Linh", Status: model.StatusActive}
	employees.On("FindByID", mock.Anything, employee.ID).Return(employee, nil)

	svc := NewAttendanceService(repo, employees, acceptingAudit(), &fakeTx{}, events).(*attendanceService)
	svc.now = func() time.Time { return now }
	return svc, repo, events, employee
}

func TestClockIn(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc, repo, events, employee := newAttendanceFixture(now)
	repo.On("FindOpenForUpdate", mock.Anything, employee.ID).Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Attendance")).Return(nil)
	events.On("Publish", EventAttendanceChanged, mock.Anything).Return()

	rec, err := svc.ClockIn(context.Background(), "", ClockRequest{EmployeeID: employee.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, now, rec.ClockInAt)
	assert.True(t, rec.Open())
	assert.Equal(t, employee, rec.Employee)
	events.AssertExpectations(t)
}

func TestClockIn_AlreadyOpen(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc, repo, events, employee := newAttendanceFixture(now)
	repo.On("FindOpenForUpdate", mock.Anything, employee.ID).Return(&model.Attendance{ClockInAt: now.Add(-time.Hour)}, nil)

	_, err := svc.ClockIn(context.Background(), "", ClockRequest{EmployeeID: employee.ID.String()})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestClockIn_InactiveEmployee(t *testing.T) {
	svc, _, _, employee := newAttendanceFixture(time.Now())
	employee.Status = model.StatusInactive

	_, err := svc.ClockIn(context.Background(), "", ClockRequest{EmployeeID: employee.ID.String()})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestClockOut_ComputesDuration(t *testing.T) {
	in := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute + 500*time.Millisecond)
	svc, repo, events, employee := newAttendanceFixture(out)
	open := &model.Attendance{ID: uuid.New(), EmployeeID: employee.ID, ClockInAt: in}
	repo.On("FindOpenForUpdate", mock.Anything, employee.ID).Return(open, nil)
	repo.On("Update", mock.Anything, open).Return(nil)
	events.On("Publish", EventAttendanceChanged, mock.Anything).Return()

	rec, err := svc.ClockOut(context.Background(), "", ClockRequest{EmployeeID: employee.ID.String()})
	require.NoError(t, err)
	require.NotNil(t, rec.ClockOutAt)
	assert.Equal(t, out, *rec.ClockOutAt)
	assert.Equal(t, int64(8*3600+30*60), rec.DurationSeconds)
	assert.False(t, rec.Open())
}

func TestClockOut_ClockSkewNeverNegative(t *testing.T) {
	in := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc, repo, events, employee := newAttendanceFixture(in.Add(-time.Minute))
	open := &model.Attendance{ID: uuid.New(), EmployeeID: employee.ID, ClockInAt: in}
	repo.On("FindOpenForUpdate", mock.Anything, employee.ID).Return(open, nil)
	repo.On("Update", mock.Anything, open).Return(nil)
	events.On("Publish", mock.Anything, mock.Anything).Return()

	rec, err := svc.ClockOut(context.Background(), "", ClockRequest{EmployeeID: employee.ID.String()})
	require.NoError(t, err)
	assert.Zero(t, rec.DurationSeconds)
}

func TestClockOut_NotClockedIn(t *testing.T) {
	svc, repo, _, employee := newAttendanceFixture(time.Now())
	repo.On("FindOpenForUpdate", mock.Anything, employee.ID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ClockOut(context.Background(), "", ClockRequest{EmployeeID: employee.ID.String()})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestClockIn_UnknownEmployee(t *testing.T) {
	svc, _, _, _ := newAttendanceFixture(time.Now())
	_, err := svc.ClockIn(context.Background(), "", ClockRequest{EmployeeID: "bogus"})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestClockIn_ConcurrentOpenShiftIsConflict(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc, repo, events, employee := newAttendanceFixture(now)
	repo.On("FindOpenForUpdate", mock.Anything, employee.ID).Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Attendance")).Return(gorm.ErrDuplicatedKey)

	_, err := svc.ClockIn(context.Background(), "", ClockRequest{EmployeeID: employee.ID.String()})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, http.StatusConflict, apperror.HTTPStatus(err))
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
