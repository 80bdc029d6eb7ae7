package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source provides the raw catalog. It is read once when the catalog service is built.
type Source interface {
	Load(ctx context.Context) ([]Service, []Staff, error)
}

// StaticSource serves an in-process catalog.
type StaticSource struct {
	Services []Service
	Staff    []Staff
}

func (s StaticSource) Load(ctx context.Context) ([]Service, []Staff, error) {
	return s.Services, s.Staff, nil
}

// DefaultSource is the salon catalog used when no other source is configured.
func DefaultSource() StaticSource {
	return StaticSource{
		Services: []Service{
			{
				ID:          "haircut",
				Name:        "Haircut",
				Description: "Standard haircut service",
				Duration:    30 * time.Minute,
				Price:       30,
			},
			{
				ID:          "coloring",
				Name:        "Hair Coloring",
				Description: "Professional hair coloring service",
				Duration:    120 * time.Minute,
				Price:       120,
			},
		},
		Staff: []Staff{
			{
				ID:         "staff1",
				Name:       "John Doe",
				Title:      "Senior Stylist",
				ServiceIDs: []string{"haircut", "coloring"},
			},
			{
				ID:         "staff2",
				Name:       "Jane Smith",
				Title:      "Master Stylist",
				ServiceIDs: []string{"haircut", "coloring"},
				Availability: map[string][]string{
					"Monday":    {"09:00", "10:00", "11:00", "14:00", "15:00"},
					"Wednesday": {"09:00", "10:00", "11:00", "14:00", "15:00"},
				},
			},
		},
	}
}

// FileSource reads the catalog from a YAML file.
type FileSource struct {
	Path string
}

type fileCatalog struct {
	Services []struct {
		ID              string  `yaml:"id"`
		Name            string  `yaml:"name"`
		Description     string  `yaml:"description"`
		DurationMinutes int     `yaml:"duration"`
		Price           float64 `yaml:"price"`
	} `yaml:"services"`
	Staff []struct {
		ID           string              `yaml:"id"`
		Name         string              `yaml:"name"`
		Title        string              `yaml:"title"`
		ServiceIDs   []string            `yaml:"serviceIds"`
		Timezone     string              `yaml:"timezone"`
		Availability map[string][]string `yaml:"availability"`
	} `yaml:"staff"`
}

func (s FileSource) Load(ctx context.Context) ([]Service, []Staff, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog file: %w", err)
	}

	var fc fileCatalog
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, nil, fmt.Errorf("parse catalog file %s: %w", s.Path, err)
	}

	services := make([]Service, 0, len(fc.Services))
	for _, sv := range fc.Services {
		services = append(services, Service{
			ID:          sv.ID,
			Name:        sv.Name,
			Description: sv.Description,
			Duration:    time.Duration(sv.DurationMinutes) * time.Minute,
			Price:       sv.Price,
		})
	}

	staff := make([]Staff, 0, len(fc.Staff))
	for _, st := range fc.Staff {
		staff = append(staff, Staff{
			ID:           st.ID,
			Name:         st.Name,
			Title:        st.Title,
			ServiceIDs:   st.ServiceIDs,
			Timezone:     st.Timezone,
			Availability: st.Availability,
		})
	}
	return services, staff, nil
}
