package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/appointment-booking-backend/internal/catalog"
)

func TestNewStaffResponse_NormalizedTemplate(t *testing.T) {
	src := catalog.StaticSource{
		Services: []catalog.Service{{ID: "haircut", Name: "Haircut", Duration: 30 * time.Minute}},
		Staff: []catalog.Staff{
			{ID: "s1", Name: "John", ServiceIDs: []string{"haircut"}},
			{
				ID:         "s2",
				Name:       "Jane",
				ServiceIDs: []string{"haircut"},
				Availability: map[string][]string{
					"tuesday": {"14:00", "09:00", "09:00"},
					"MONDAY":  {"10:00:00"},
				},
			},
		},
	}
	c, err := catalog.New(context.Background(), src, time.UTC)
	require.NoError(t, err)

	fixed, err := c.GetStaff(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, NewStaffResponse(fixed).Availability)

	templated, err := c.GetStaff(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"Monday":  {"10:00"},
		"Tuesday": {"09:00", "14:00"},
	}, NewStaffResponse(templated).Availability)
}
