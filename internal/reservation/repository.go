package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studioops/reservation-backend/internal/resource"
)

type Repository interface {
	// CreateChecked appends the reservation after re-verifying, inside one
	// transaction holding a per-resource lock, that the overlap sum plus the
	// requested quantity fits within capacity. Returns *CapacityError when it
	// does not, ErrBookingConflict when a concurrent transaction won the race.
	CreateChecked(ctx context.Context, rsv *Reservation, capacity int) error

	// UpdateChecked rewrites the reservation's fields with the same capacity
	// guarantee, excluding the reservation's own allocation from the sum.
	UpdateChecked(ctx context.Context, rsv *Reservation, capacity int) error

	// Update rewrites informational fields (title, project, task, notes)
	// without touching interval or quantity.
	Update(ctx context.Context, rsv *Reservation) error

	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// ListOverlapping returns the active reservations on a resource whose
	// interval overlaps [start, end), the snapshot the availability
	// calculator runs over.
	ListOverlapping(ctx context.Context, kind resource.Kind, resourceID string, start, end time.Time) ([]*Reservation, error)

	// Cancel transitions an active reservation to cancelled. Returns
	// ErrAlreadyCancelled if it was not active, ErrNotFound if absent.
	Cancel(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// classifyTxError maps commit-time database failures that indicate a lost
// race (serialization failure, deadlock, constraint enforcement) onto
// ErrBookingConflict so callers know a retry against fresh availability is
// worthwhile.
func classifyTxError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure,
			pgerrcode.DeadlockDetected,
			pgerrcode.ExclusionViolation,
			pgerrcode.UniqueViolation:
			return ErrBookingConflict
		}
	}
	return err
}

// lockResource takes a transaction-scoped advisory lock keyed on the
// resource. Between this lock and commit, no other booking on the same
// resource can be between its availability check and its insert.
func lockResource(ctx context.Context, tx pgx.Tx, kind resource.Kind, resourceID string) error {
	_, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		string(kind)+":"+resourceID,
	)
	if err != nil {
		return fmt.Errorf("acquire resource lock failed: %w", err)
	}
	return nil
}

// overlapSum recomputes the committed overlap sum for the candidate window
// inside the transaction. excludeID skips the reservation being edited.
func overlapSum(ctx context.Context, tx pgx.Tx, kind resource.Kind, resourceID string, start, end time.Time, excludeID string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("COALESCE(SUM(quantity), 0)").
		From("public.reservations").
		Where(squirrel.Eq{"resource_type": kind}).
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": StatusActive}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build overlap sum query failed: %w", err)
	}

	var sum int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("overlap sum failed: %w", err)
	}
	return sum, nil
}

func (r *pgxRepository) CreateChecked(ctx context.Context, rsv *Reservation, capacity int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create reservation failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockResource(ctx, tx, rsv.ResourceType, rsv.ResourceID); err != nil {
		return err
	}

	booked, err := overlapSum(ctx, tx, rsv.ResourceType, rsv.ResourceID, rsv.StartTime, rsv.EndTime, "")
	if err != nil {
		return err
	}

	available := capacity - booked
	if available < 0 {
		available = 0
	}
	if rsv.Quantity > available {
		return &CapacityError{Requested: rsv.Quantity, Available: available}
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns(
			"resource_type", "resource_id", "reserver_id", "project_id", "task_id",
			"title", "start_time", "end_time", "quantity", "status", "notes",
		).
		Values(
			rsv.ResourceType, rsv.ResourceID, rsv.ReserverID, rsv.ProjectID, rsv.TaskID,
			rsv.Title, rsv.StartTime, rsv.EndTime, rsv.Quantity, rsv.Status, rsv.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&rsv.ID, &rsv.CreatedAt, &rsv.UpdatedAt); err != nil {
		return classifyTxError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyTxError(err)
	}
	return nil
}

func (r *pgxRepository) UpdateChecked(ctx context.Context, rsv *Reservation, capacity int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update reservation failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockResource(ctx, tx, rsv.ResourceType, rsv.ResourceID); err != nil {
		return err
	}

	// Self-exclusion: the reservation's own prior allocation must not count
	// against its new interval.
	booked, err := overlapSum(ctx, tx, rsv.ResourceType, rsv.ResourceID, rsv.StartTime, rsv.EndTime, rsv.ID)
	if err != nil {
		return err
	}

	available := capacity - booked
	if available < 0 {
		available = 0
	}
	if rsv.Quantity > available {
		return &CapacityError{Requested: rsv.Quantity, Available: available}
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("project_id", rsv.ProjectID).
		Set("task_id", rsv.TaskID).
		Set("title", rsv.Title).
		Set("start_time", rsv.StartTime).
		Set("end_time", rsv.EndTime).
		Set("quantity", rsv.Quantity).
		Set("notes", rsv.Notes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rsv.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation query failed: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return classifyTxError(err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyTxError(err)
	}
	return nil
}

func (r *pgxRepository) Update(ctx context.Context, rsv *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("project_id", rsv.ProjectID).
		Set("task_id", rsv.TaskID).
		Set("title", rsv.Title).
		Set("notes", rsv.Notes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rsv.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update reservation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const reservationSelectColumns = `
	rv.id, rv.resource_type, rv.resource_id, rs.name,
	rv.reserver_id, u.name,
	rv.project_id, rv.task_id, rv.title,
	rv.start_time, rv.end_time, rv.quantity, rv.status, rv.notes,
	rv.created_at, rv.updated_at`

func scanReservation(row pgx.Row) (*Reservation, error) {
	var rsv Reservation
	dest := []any{
		&rsv.ID, &rsv.ResourceType, &rsv.ResourceID, &rsv.ResourceName,
		&rsv.ReserverID, &rsv.ReserverName,
		&rsv.ProjectID, &rsv.TaskID, &rsv.Title,
		&rsv.StartTime, &rsv.EndTime, &rsv.Quantity, &rsv.Status, &rsv.Notes,
		&rsv.CreatedAt, &rsv.UpdatedAt,
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan reservation failed: %w", err)
	}
	return &rsv, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query := `
		SELECT ` + reservationSelectColumns + `
		FROM public.reservations rv
		JOIN public.resources rs ON rv.resource_id = rs.id
		JOIN public.users u ON rv.reserver_id = u.id
		WHERE rv.id = $1
	`
	return scanReservation(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"rv.id", "rv.resource_type", "rv.resource_id", "rs.name",
		"rv.reserver_id", "u.name",
		"rv.project_id", "rv.task_id", "rv.title",
		"rv.start_time", "rv.end_time", "rv.quantity", "rv.status", "rv.notes",
		"rv.created_at", "rv.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.reservations rv").
		Join("public.resources rs ON rv.resource_id = rs.id").
		Join("public.users u ON rv.reserver_id = u.id")

	if filter.ResourceType != "" {
		query = query.Where(squirrel.Eq{"rv.resource_type": filter.ResourceType})
	}
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"rv.resource_id": filter.ResourceID})
	}
	if filter.ReserverID != "" {
		query = query.Where(squirrel.Eq{"rv.reserver_id": filter.ReserverID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"rv.status": filter.Status})
	}
	// Window filtering uses the interval overlap rule, so bookings that
	// merely poke into the window are returned.
	if filter.StartDate != nil {
		query = query.Where(squirrel.Gt{"rv.end_time": filter.StartDate})
	}
	if filter.EndDate != nil {
		query = query.Where(squirrel.Lt{"rv.start_time": filter.EndDate})
	}

	orderBy := "rv.start_time"
	switch filter.SortBy {
	case "start_time", "end_time", "created_at", "status":
		orderBy = "rv." + filter.SortBy
	}
	orderDir := "ASC"
	if filter.SortOrder == "desc" || filter.SortOrder == "DESC" {
		orderDir = "DESC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int

	for rows.Next() {
		var rsv Reservation
		if err := rows.Scan(
			&rsv.ID, &rsv.ResourceType, &rsv.ResourceID, &rsv.ResourceName,
			&rsv.ReserverID, &rsv.ReserverName,
			&rsv.ProjectID, &rsv.TaskID, &rsv.Title,
			&rsv.StartTime, &rsv.EndTime, &rsv.Quantity, &rsv.Status, &rsv.Notes,
			&rsv.CreatedAt, &rsv.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, &rsv)
	}

	return reservations, total, nil
}

func (r *pgxRepository) ListOverlapping(ctx context.Context, kind resource.Kind, resourceID string, start, end time.Time) ([]*Reservation, error) {
	query := `
		SELECT ` + reservationSelectColumns + `
		FROM public.reservations rv
		JOIN public.resources rs ON rv.resource_id = rs.id
		JOIN public.users u ON rv.reserver_id = u.id
		WHERE rv.resource_type = $1
		  AND rv.resource_id = $2
		  AND rv.status = 'active'
		  AND rv.start_time < $3
		  AND rv.end_time > $4
		ORDER BY rv.start_time ASC
	`
	rows, err := r.pool.Query(ctx, query, kind, resourceID, end, start)
	if err != nil {
		return nil, fmt.Errorf("list overlapping reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	for rows.Next() {
		var rsv Reservation
		if err := rows.Scan(
			&rsv.ID, &rsv.ResourceType, &rsv.ResourceID, &rsv.ResourceName,
			&rsv.ReserverID, &rsv.ReserverName,
			&rsv.ProjectID, &rsv.TaskID, &rsv.Title,
			&rsv.StartTime, &rsv.EndTime, &rsv.Quantity, &rsv.Status, &rsv.Notes,
			&rsv.CreatedAt, &rsv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, &rsv)
	}

	return reservations, nil
}

func (r *pgxRepository) Cancel(ctx context.Context, id string) error {
	const query = `
		UPDATE public.reservations
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status = 'active'
	`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("cancel reservation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Distinguish a missing row from one that lost the race to another
		// cancel; both are terminal but report differently.
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM public.reservations WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check reservation existence failed: %w", err)
		}
		if exists {
			return ErrAlreadyCancelled
		}
		return ErrNotFound
	}
	return nil
}
