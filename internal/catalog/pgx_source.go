package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSource loads the catalog from Postgres. The tables are read-only reference data;
// nothing in this service writes to them.
type PgxSource struct {
	pool *pgxpool.Pool
}

func NewPgxSource(pool *pgxpool.Pool) *PgxSource {
	return &PgxSource{pool: pool}
}

func (s *PgxSource) Load(ctx context.Context) ([]Service, []Staff, error) {
	services, err := s.loadServices(ctx)
	if err != nil {
		return nil, nil, wrapSchemaErr(err)
	}

	staff, err := s.loadStaff(ctx)
	if err != nil {
		return nil, nil, wrapSchemaErr(err)
	}

	return services, staff, nil
}

func (s *PgxSource) loadServices(ctx context.Context) ([]Service, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "description", "duration_minutes", "price").
		From("public.services").
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list services query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services failed: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var sv Service
		var minutes int
		if err := rows.Scan(&sv.ID, &sv.Name, &sv.Description, &minutes, &sv.Price); err != nil {
			return nil, fmt.Errorf("scan service failed: %w", err)
		}
		sv.Duration = time.Duration(minutes) * time.Minute
		services = append(services, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services failed: %w", err)
	}
	return services, nil
}

func (s *PgxSource) loadStaff(ctx context.Context) ([]Staff, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "title", "COALESCE(timezone, '')").
		From("public.staff").
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list staff query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff failed: %w", err)
	}
	defer rows.Close()

	var staff []Staff
	index := make(map[string]int)
	for rows.Next() {
		var st Staff
		if err := rows.Scan(&st.ID, &st.Name, &st.Title, &st.Timezone); err != nil {
			return nil, fmt.Errorf("scan staff failed: %w", err)
		}
		index[st.ID] = len(staff)
		staff = append(staff, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff failed: %w", err)
	}

	if err := s.loadQualifications(ctx, staff, index); err != nil {
		return nil, err
	}
	if err := s.loadAvailability(ctx, staff, index); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *PgxSource) loadQualifications(ctx context.Context, staff []Staff, index map[string]int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("staff_id", "service_id").
		From("public.staff_services").
		OrderBy("staff_id", "service_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build list staff services query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list staff services failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID, serviceID string
		if err := rows.Scan(&staffID, &serviceID); err != nil {
			return fmt.Errorf("scan staff service failed: %w", err)
		}
		if i, ok := index[staffID]; ok {
			staff[i].ServiceIDs = append(staff[i].ServiceIDs, serviceID)
		}
	}
	return rows.Err()
}

func (s *PgxSource) loadAvailability(ctx context.Context, staff []Staff, index map[string]int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("staff_id", "weekday", "to_char(start_time, 'HH24:MI:SS')").
		From("public.staff_availability").
		OrderBy("staff_id", "weekday", "start_time").
		ToSql()
	if err != nil {
		return fmt.Errorf("build list staff availability query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list staff availability failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID, weekday, start string
		if err := rows.Scan(&staffID, &weekday, &start); err != nil {
			return fmt.Errorf("scan staff availability failed: %w", err)
		}
		i, ok := index[staffID]
		if !ok {
			continue
		}
		if staff[i].Availability == nil {
			staff[i].Availability = make(map[string][]string)
		}
		staff[i].Availability[weekday] = append(staff[i].Availability[weekday], start)
	}
	return rows.Err()
}

func wrapSchemaErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %w", ErrSchemaNotPresent, err)
	}
	return err
}
