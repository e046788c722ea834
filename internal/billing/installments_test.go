package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
)

func TestBuildSchedule_EvenWeeklySplit(t *testing.T) {
	// $145 balance over 2 weekly installments starting 2024-01-10.
	schedule, err := BuildSchedule(ScheduleRequest{
		BalanceCents:  14500,
		Count:         2,
		FirstDueDate:  date("2024-01-10"),
		FrequencyDays: 7,
	})
	require.NoError(t, err)
	require.Len(t, schedule, 2)

	assert.Equal(t, 1, schedule[0].Number)
	assert.Equal(t, money.Cents(7250), schedule[0].AmountCents)
	assert.Equal(t, date("2024-01-10"), schedule[0].DueDate)

	assert.Equal(t, 2, schedule[1].Number)
	assert.Equal(t, money.Cents(7250), schedule[1].AmountCents)
	assert.Equal(t, date("2024-01-17"), schedule[1].DueDate)

	for _, inst := range schedule {
		assert.Equal(t, domain.InstallmentStatusPending, inst.Status)
	}
}

func TestBuildSchedule_FinalInstallmentAbsorbsRounding(t *testing.T) {
	tests := []struct {
		name    string
		balance money.Cents
		count   int
	}{
		{"100.00 over 3", 10000, 3},
		{"0.01 over 1", 1, 1},
		{"0.05 over 2", 5, 2},
		{"999.99 over 7", 99999, 7},
		{"145.00 over 4", 14500, 4},
		{"1000.01 over 12", 100001, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := BuildSchedule(ScheduleRequest{
				BalanceCents:  tt.balance,
				Count:         tt.count,
				FirstDueDate:  date("2024-03-01"),
				FrequencyDays: 14,
			})
			require.NoError(t, err)
			require.Len(t, schedule, tt.count)

			var sum money.Cents
			for _, inst := range schedule {
				sum += inst.AmountCents
			}
			assert.Equal(t, tt.balance, sum, "schedule must sum to the balance exactly")

			// All but the last share the rounded base amount.
			for i := 0; i < tt.count-1; i++ {
				assert.Equal(t, schedule[0].AmountCents, schedule[i].AmountCents)
			}
		})
	}
}

func TestBuildSchedule_CalendarDayDueDates(t *testing.T) {
	// Across a DST transition the due dates stay aligned to calendar days.
	loc, err := time.LoadLocation("America/Halifax")
	require.NoError(t, err)
	first := time.Date(2024, 3, 8, 0, 0, 0, 0, loc) // DST starts Mar 10

	schedule, err := BuildSchedule(ScheduleRequest{
		BalanceCents:  30000,
		Count:         3,
		FirstDueDate:  first,
		FrequencyDays: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, schedule[0].DueDate.Day())
	assert.Equal(t, 15, schedule[1].DueDate.Day())
	assert.Equal(t, 22, schedule[2].DueDate.Day())
	for _, inst := range schedule {
		assert.Equal(t, 0, inst.DueDate.Hour())
	}
}

func TestBuildSchedule_Validation(t *testing.T) {
	valid := ScheduleRequest{
		BalanceCents:  10000,
		Count:         2,
		FirstDueDate:  date("2024-01-10"),
		FrequencyDays: 7,
	}

	t.Run("zero balance", func(t *testing.T) {
		req := valid
		req.BalanceCents = 0
		_, err := BuildSchedule(req)
		assert.ErrorIs(t, err, domain.ErrInvalidInstallmentRequest)
	})

	t.Run("negative balance", func(t *testing.T) {
		req := valid
		req.BalanceCents = -500
		_, err := BuildSchedule(req)
		assert.ErrorIs(t, err, domain.ErrInvalidInstallmentRequest)
	})

	t.Run("zero count", func(t *testing.T) {
		req := valid
		req.Count = 0
		_, err := BuildSchedule(req)
		assert.ErrorIs(t, err, domain.ErrInvalidInstallmentRequest)
	})

	t.Run("zero frequency", func(t *testing.T) {
		req := valid
		req.FrequencyDays = 0
		_, err := BuildSchedule(req)
		assert.ErrorIs(t, err, domain.ErrInvalidInstallmentRequest)
	})

	t.Run("missing first due date", func(t *testing.T) {
		req := valid
		req.FirstDueDate = time.Time{}
		_, err := BuildSchedule(req)
		assert.ErrorIs(t, err, domain.ErrInvalidInstallmentRequest)
	})
}

func TestInstallmentOverdueIsDerived(t *testing.T) {
	now := date("2024-02-01")
	inst := domain.Installment{
		Status:  domain.InstallmentStatusPending,
		DueDate: date("2024-01-15"),
	}

	assert.True(t, inst.IsOverdue(now))
	assert.Equal(t, domain.InstallmentStatusOverdue, inst.EffectiveStatus(now))
	// The stored status is untouched.
	assert.Equal(t, domain.InstallmentStatusPending, inst.Status)

	inst.Status = domain.InstallmentStatusPaid
	assert.False(t, inst.IsOverdue(now))
	assert.Equal(t, domain.InstallmentStatusPaid, inst.EffectiveStatus(now))
}
