package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	"github.com/m04kA/GameClub-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/GameClub-ReservationService/pkg/psqlbuilder"
)

// Столбцы таблицы reservations в порядке сканирования
var reservationColumns = []string{
	"id",
	"user_id",
	"club_id",
	"resource_type",
	"resource_subtype",
	"unit_number",
	"reservation_date",
	"start_time",
	"end_time",
	"start_minutes",
	"end_minutes",
	"status",
	"payment_status",
	"hourly_rate",
	"total_amount",
	"group_id",
	"group_index",
	"cancellation_reason",
	"cancelled_at",
	"refund_amount",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateGroup вставляет все бронирования группы
// Вызывается только внутри сериализуемой транзакции координатора:
// либо записываются все участники группы, либо ни один
func (r *Repository) CreateGroup(ctx context.Context, reservations []*domain.Reservation) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, res := range reservations {
		query, args, err := psqlbuilder.Insert("reservations").
			Columns(
				"user_id",
				"club_id",
				"resource_type",
				"resource_subtype",
				"unit_number",
				"reservation_date",
				"start_time",
				"end_time",
				"start_minutes",
				"end_minutes",
				"status",
				"payment_status",
				"hourly_rate",
				"total_amount",
				"group_id",
				"group_index",
			).
			Values(
				res.UserID,
				res.ClubID,
				res.ResourceType,
				res.ResourceSubtype,
				res.UnitNumber,
				res.ReservationDate,
				res.StartTime,
				res.EndTime,
				res.StartMinutes,
				res.EndMinutes,
				res.Status,
				res.PaymentStatus,
				res.HourlyRate,
				res.TotalAmount,
				res.GroupID,
				res.GroupIndex,
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: CreateGroup - build insert query: %v", ErrBuildQuery, err)
		}

		var createdAt, updatedAt sql.NullTime
		err = executor.QueryRowContext(ctx, query, args...).Scan(
			&res.ID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: CreateGroup - execute insert: %v", ErrExecQuery, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time
	}

	return reservations, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetActiveByPartition получает все активные (pending/confirmed) бронирования
// партиции (клуб, тип ресурса, подтип, дата).
// Внутри транзакции добавляет FOR UPDATE: чтение и последующая запись
// сериализуются со всеми конкурентными транзакциями на этой же партиции.
// Разные клубы, типы ресурсов и даты блокируются независимо.
func (r *Repository) GetActiveByPartition(ctx context.Context, filter domain.PartitionFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{
			"club_id":          filter.ClubID,
			"resource_type":    filter.ResourceType,
			"reservation_date": filter.Date,
			"status":           activeStatuses,
		}).
		OrderBy("unit_number ASC, start_minutes ASC")

	if filter.ResourceSubtype != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_subtype": *filter.ResourceSubtype})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_subtype": nil})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPartition - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPartition - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetByUserID получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reservation_date DESC, start_minutes DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetConfirmedDue получает подтвержденные бронирования с датой не позже date
// Используется фоновой задачей завершения: точная проверка истечения окна
// (включая брони через полночь) выполняется на стороне сервиса
func (r *Repository) GetConfirmedDue(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.LtOrEq{"reservation_date": date}).
		OrderBy("reservation_date ASC, end_minutes ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedDue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedDue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// SetPayment переводит бронирование в новый статус вместе со статусом оплаты
// Используется колбэком платежного сервиса: pending -> confirmed/paid
// или pending -> cancelled/failed
func (r *Repository) SetPayment(ctx context.Context, id int64, status domain.ReservationStatus, paymentStatus domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("payment_status", paymentStatus).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "SetPayment")
}

// Cancel мягко отменяет бронирование, фиксируя причину и сумму возврата
// Физического удаления нет - только переход статуса
func (r *Repository) Cancel(ctx context.Context, id int64, reason string, refundAmount float64, paymentStatus domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("payment_status", paymentStatus).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("refund_amount", refundAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// UpdateStatusBatch переводит набор бронирований в указанный статус
func (r *Repository) UpdateStatusBatch(ctx context.Context, ids []int64, status domain.ReservationStatus) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatusBatch - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateStatusBatch - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.ClubID,
		&res.ResourceType,
		&res.ResourceSubtype,
		&res.UnitNumber,
		&res.ReservationDate,
		&res.StartTime,
		&res.EndTime,
		&res.StartMinutes,
		&res.EndMinutes,
		&res.Status,
		&res.PaymentStatus,
		&res.HourlyRate,
		&res.TotalAmount,
		&res.GroupID,
		&res.GroupIndex,
		&res.CancellationReason,
		&res.CancelledAt,
		&res.RefundAmount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
