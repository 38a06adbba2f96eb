package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/attendly/attendance-service/internal/attendance/domain"
)

func TestAttendance_IsOpen(t *testing.T) {
	open := &domain.Attendance{CheckInAt: time.Now()}
	assert.True(t, open.IsOpen())

	checkedOut := time.Now()
	closed := &domain.Attendance{CheckInAt: time.Now(), CheckOutAt: &checkedOut}
	assert.False(t, closed.IsOpen())
}
