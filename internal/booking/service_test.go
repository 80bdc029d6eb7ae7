package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/appointment-booking-backend/internal/catalog"
)

func testCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	src := catalog.StaticSource{
		Services: []catalog.Service{
			{ID: "haircut", Name: "Haircut", Duration: 30 * time.Minute, Price: 30},
			{ID: "coloring", Name: "Hair Coloring", Duration: 120 * time.Minute, Price: 120},
		},
		Staff: []catalog.Staff{
			{ID: "s1", Name: "John", ServiceIDs: []string{"haircut", "coloring"}},
			{
				ID:         "s2",
				Name:       "Jane",
				ServiceIDs: []string{"haircut"},
				Availability: map[string][]string{
					"Monday": {"09:00", "10:00", "11:00", "14:00", "15:00"},
				},
			},
		},
	}
	c, err := catalog.New(context.Background(), src, time.UTC)
	require.NoError(t, err)
	return c
}

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewMemoryRepository()
	return NewService(repo, testCatalog(t), zap.NewNop()), repo
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 3, hour, minute, 0, 0, time.UTC)
}

func availableStarts(slots []TimeSlot) map[time.Time]bool {
	out := make(map[time.Time]bool, len(slots))
	for _, s := range slots {
		out[s.StartTime] = s.Available
	}
	return out
}

func TestBookingEndToEnd(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	before, err := svc.GetAvailability(ctx, "s1", "haircut", "2024-06-03")
	require.NoError(t, err)
	require.Len(t, before, 16)
	for _, s := range before {
		assert.True(t, s.Available, "slot %s should be free", s.StartTime)
		assert.Equal(t, 30*time.Minute, s.EndTime.Sub(s.StartTime))
		assert.Equal(t, "s1", s.StaffID)
		assert.Equal(t, "haircut", s.ServiceID)
	}

	start, err := time.Parse(time.RFC3339, "2024-06-03T09:00:00Z")
	require.NoError(t, err)

	appt, err := svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: start, CustomerID: "c1"})
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, StatusConfirmed, appt.Status)
	assert.Equal(t, "c1", appt.CustomerID)
	assert.Equal(t, "2024-06-03T09:30:00Z", appt.EndTime.Format(time.RFC3339))

	after, err := svc.GetAvailability(ctx, "s1", "haircut", "2024-06-03")
	require.NoError(t, err)
	require.Len(t, after, 16)
	assert.False(t, after[0].Available, "09:00 must now be taken")
	for i := 1; i < len(after); i++ {
		assert.Equal(t, before[i], after[i], "slot %d must be unchanged", i)
	}

	stored, err := svc.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.StartTime, stored.StartTime)
}

func TestGetAvailability_OverlapIsHalfOpen(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, BookRequest{ServiceID: "coloring", StaffID: "s1", StartTime: at(10, 0), CustomerID: "c1"})
	require.NoError(t, err)

	slots, err := svc.GetAvailability(ctx, "s1", "haircut", "2024-06-03")
	require.NoError(t, err)
	free := availableStarts(slots)

	assert.True(t, free[at(9, 0)])
	assert.True(t, free[at(9, 30)], "09:30-10:00 touches 10:00 and does not overlap")
	assert.False(t, free[at(10, 0)])
	assert.False(t, free[at(10, 30)])
	assert.False(t, free[at(11, 0)])
	assert.False(t, free[at(11, 30)])
	assert.True(t, free[at(12, 0)], "12:00 starts exactly when the coloring ends")

	// A 120 minute service at 09:00 or 09:30 would run into the 10:00 coloring.
	coloring, err := svc.GetAvailability(ctx, "s1", "coloring", "2024-06-03")
	require.NoError(t, err)
	free = availableStarts(coloring)
	assert.False(t, free[at(9, 0)])
	assert.False(t, free[at(9, 30)])
	assert.True(t, free[at(12, 0)])
}

func TestGetAvailability_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(13, 0), CustomerID: "c1"})
	require.NoError(t, err)

	first, err := svc.GetAvailability(ctx, "s1", "haircut", "2024-06-03")
	require.NoError(t, err)
	second, err := svc.GetAvailability(ctx, "s1", "haircut", "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetAvailability_Template(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	monday, err := svc.GetAvailability(ctx, "s2", "haircut", "2024-06-03")
	require.NoError(t, err)
	require.Len(t, monday, 5)
	assert.Equal(t, at(9, 0), monday[0].StartTime)
	assert.Equal(t, at(15, 0), monday[4].StartTime)

	tuesday, err := svc.GetAvailability(ctx, "s2", "haircut", "2024-06-04")
	require.NoError(t, err)
	assert.NotNil(t, tuesday)
	assert.Empty(t, tuesday)
}

func TestGetAvailability_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		staffID   string
		serviceID string
		date      string
		wantErr   []error
	}{
		{"unknown staff", "unknown-staff", "haircut", "2024-06-03", []error{ErrInvalidReference, catalog.ErrStaffNotFound}},
		{"unknown service", "s1", "massage", "2024-06-03", []error{ErrInvalidReference, catalog.ErrServiceNotFound}},
		{"not qualified", "s2", "coloring", "2024-06-03", []error{ErrInvalidReference, ErrNotQualified}},
		{"bad date", "s1", "haircut", "June 3rd", []error{ErrInvalidDate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := svc.GetAvailability(ctx, tt.staffID, tt.serviceID, tt.date)
			assert.Nil(t, slots)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestBook_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     BookRequest
		wantErr error
	}{
		{"missing customer", BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(9, 0)}, ErrInvalidInput},
		{"missing start", BookRequest{ServiceID: "haircut", StaffID: "s1", CustomerID: "c1"}, ErrInvalidInput},
		{"unknown staff", BookRequest{ServiceID: "haircut", StaffID: "ghost", StartTime: at(9, 0), CustomerID: "c1"}, ErrInvalidReference},
		{"unknown service", BookRequest{ServiceID: "massage", StaffID: "s1", StartTime: at(9, 0), CustomerID: "c1"}, ErrInvalidReference},
		{"off grid", BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(9, 15), CustomerID: "c1"}, ErrSlotUnavailable},
		{"before opening", BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(8, 30), CustomerID: "c1"}, ErrSlotUnavailable},
		{"closing time", BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(17, 0), CustomerID: "c1"}, ErrSlotUnavailable},
		{"template day off", BookRequest{ServiceID: "haircut", StaffID: "s2", StartTime: at(9, 0).AddDate(0, 0, 1), CustomerID: "c1"}, ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt, err := svc.Book(ctx, tt.req)
			assert.Nil(t, appt)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBook_SameInstantInAnotherZone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// 11:00+02:00 is 09:00Z, which is on s1's UTC grid.
	start := time.Date(2024, 6, 3, 11, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	appt, err := svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: start, CustomerID: "c1"})
	require.NoError(t, err)
	assert.True(t, appt.StartTime.Equal(at(9, 0)))
}

func TestBook_RejectsOverlappingSecondBooking(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, BookRequest{ServiceID: "coloring", StaffID: "s1", StartTime: at(10, 0), CustomerID: "c1"})
	require.NoError(t, err)

	_, err = svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(11, 30), CustomerID: "c2"})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Another staff member is unaffected.
	_, err = svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s2", StartTime: at(10, 0), CustomerID: "c2"})
	assert.NoError(t, err)
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(9, 0), CustomerID: "c"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrConcurrentConflict):
				failures++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, failures)

	confirmed, err := repo.ListConfirmedOverlapping(ctx, "s1", at(9, 0), at(9, 30))
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)
}

func TestBook_ConcurrentOverlappingServices(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	// A 120 minute coloring at 10:00 and haircuts inside its interval race each other.
	reqs := []BookRequest{
		{ServiceID: "coloring", StaffID: "s1", StartTime: at(10, 0), CustomerID: "c1"},
		{ServiceID: "haircut", StaffID: "s1", StartTime: at(10, 30), CustomerID: "c2"},
		{ServiceID: "haircut", StaffID: "s1", StartTime: at(11, 30), CustomerID: "c3"},
		{ServiceID: "coloring", StaffID: "s1", StartTime: at(11, 0), CustomerID: "c4"},
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for _, req := range reqs {
		wg.Add(1)
		go func(req BookRequest) {
			defer wg.Done()
			<-start
			_, err := svc.Book(ctx, req)
			if err != nil && !errors.Is(err, ErrSlotUnavailable) && !errors.Is(err, ErrConcurrentConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}(req)
	}
	close(start)
	wg.Wait()

	confirmed, err := repo.ListConfirmedOverlapping(ctx, "s1", at(0, 0), at(23, 0))
	require.NoError(t, err)
	require.NotEmpty(t, confirmed)
	for i := range confirmed {
		for j := i + 1; j < len(confirmed); j++ {
			assert.False(t, confirmed[i].Overlaps(confirmed[j].StartTime, confirmed[j].EndTime),
				"confirmed appointments %s and %s overlap", confirmed[i].ID, confirmed[j].ID)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	appt, err := svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(9, 0), CustomerID: "c1"})
	require.NoError(t, err)

	t.Run("Invalid status", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, appt.ID, Status("pending"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("Unknown appointment", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, "does-not-exist", StatusCancelled)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Confirmed to confirmed is rejected", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, appt.ID, StatusConfirmed)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Cancel frees the slot", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx, appt.ID, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, updated.Status)

		slots, err := svc.GetAvailability(ctx, "s1", "haircut", "2024-06-03")
		require.NoError(t, err)
		assert.True(t, slots[0].Available)

		rebooked, err := svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(9, 0), CustomerID: "c2"})
		require.NoError(t, err)
		assert.NotEqual(t, appt.ID, rebooked.ID)
	})

	t.Run("Cancelled is terminal", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, appt.ID, StatusCompleted)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, h := range []int{15, 9, 12} {
		_, err := svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s1", StartTime: at(h, 0), CustomerID: "c1"})
		require.NoError(t, err)
	}
	_, err := svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "s2", StartTime: at(10, 0), CustomerID: "c2"})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, Filter{StaffID: "s1", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, at(9, 0), items[0].StartTime, "sorted by start time")
	assert.Equal(t, at(12, 0), items[1].StartTime)

	items, total, err = svc.List(ctx, Filter{CustomerID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "s2", items[0].StaffID)

	items, total, err = svc.List(ctx, Filter{StaffID: "s1", Page: 5, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, items)

	_, _, err = svc.List(ctx, Filter{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStaffTimezone(t *testing.T) {
	src := catalog.StaticSource{
		Services: []catalog.Service{{ID: "haircut", Name: "Haircut", Duration: 30 * time.Minute, Price: 30}},
		Staff: []catalog.Staff{
			{ID: "ny", Name: "Nina", ServiceIDs: []string{"haircut"}, Timezone: "America/New_York"},
		},
	}
	cat, err := catalog.New(context.Background(), src, time.UTC)
	require.NoError(t, err)
	svc := NewService(NewMemoryRepository(), cat, zap.NewNop())
	ctx := context.Background()

	slots, err := svc.GetAvailability(ctx, "ny", "haircut", "2024-06-03")
	require.NoError(t, err)
	require.Len(t, slots, 16)
	assert.Equal(t, "2024-06-03T09:00:00-04:00", slots[0].StartTime.Format(time.RFC3339))
	assert.Equal(t, "2024-06-03T16:30:00-04:00", slots[15].StartTime.Format(time.RFC3339))

	tests := []struct {
		name    string
		start   time.Time
		wantErr error
	}{
		{"09:00 local given in UTC", time.Date(2024, 6, 3, 13, 0, 0, 0, time.UTC), nil},
		{"same slot again", time.Date(2024, 6, 3, 9, 0, 0, 0, time.FixedZone("EDT", -4*3600)), ErrSlotUnavailable},
		{"20:30 local is after closing", time.Date(2024, 6, 4, 0, 30, 0, 0, time.UTC), ErrSlotUnavailable},
		{"09:00 UTC is 05:00 local", time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt, err := svc.Book(ctx, BookRequest{ServiceID: "haircut", StaffID: "ny", StartTime: tt.start, CustomerID: "c1"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, appt.StartTime.Equal(tt.start))
		})
	}

	slots, err = svc.GetAvailability(ctx, "ny", "haircut", "2024-06-03")
	require.NoError(t, err)
	assert.False(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}
