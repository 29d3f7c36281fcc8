package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/LogixPH/logix_ops_app/internal/apperrors"
	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	portsrepo "github.com/LogixPH/logix_ops_app/internal/core/ports/repositories"
	"github.com/LogixPH/logix_ops_app/internal/models"
	"github.com/LogixPH/logix_ops_app/internal/utils/mapping"
	"github.com/LogixPH/logix_ops_app/internal/utils/pagination"
)

const voucherColumns = `voucher_id, voucher_number, transaction_type, expense_subtype, category, sub_category,
	total_amount, counterparty, project_ref, source_account_id, status, requestor_name, posted_by_name, posted_at,
	invoice_number, statement_ref, due_date, amount_paid, billing_status,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxVoucherRepository struct {
	BaseRepository
}

// newPgxVoucherRepository creates a new repository for voucher data.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryWithTx {
	return &PgxVoucherRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepositoryWithTx = (*PgxVoucherRepository)(nil)

func scanVoucherRow(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID,
		&m.VoucherNumber,
		&m.TransactionType,
		&m.ExpenseSubtype,
		&m.Category,
		&m.SubCategory,
		&m.TotalAmount,
		&m.Counterparty,
		&m.ProjectRef,
		&m.SourceAccountID,
		&m.Status,
		&m.RequestorName,
		&m.PostedByName,
		&m.PostedAt,
		&m.InvoiceNumber,
		&m.StatementRef,
		&m.DueDate,
		&m.AmountPaid,
		&m.BillingStatus,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	return m, err
}

// insertVoucherTx inserts the voucher row and its child rows inside tx.
// A voucher_number collision surfaces as apperrors.ErrDuplicate.
func (r *PgxVoucherRepository) insertVoucherTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	m := mapping.ToModelVoucher(voucher)

	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := tx.Exec(ctx, query,
		m.VoucherID, m.VoucherNumber, m.TransactionType, m.ExpenseSubtype, m.Category, m.SubCategory,
		m.TotalAmount, m.Counterparty, m.ProjectRef, m.SourceAccountID, m.Status, m.RequestorName, m.PostedByName, m.PostedAt,
		m.InvoiceNumber, m.StatementRef, m.DueDate, m.AmountPaid, m.BillingStatus,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: voucher number %s already exists", apperrors.ErrDuplicate, m.VoucherNumber)
		}
		return fmt.Errorf("failed to insert voucher %s: %w", m.VoucherID, err)
	}

	if err := r.insertLineItemsTx(ctx, tx, voucher.VoucherID, voucher.LineItems); err != nil {
		return err
	}
	return r.insertLinkedBillingsTx(ctx, tx, voucher.VoucherID, voucher.LinkedBillings)
}

func (r *PgxVoucherRepository) insertLineItemsTx(ctx context.Context, tx pgx.Tx, voucherID string, items []domain.LineItem) error {
	query := `
		INSERT INTO voucher_line_items (line_item_id, voucher_id, position, particular, description, amount)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, li := range mapping.ToModelLineItems(voucherID, items) {
		if _, err := tx.Exec(ctx, query, li.LineItemID, li.VoucherID, li.Position, li.Particular, li.Description, li.Amount); err != nil {
			return fmt.Errorf("failed to insert line item for voucher %s: %w", voucherID, err)
		}
	}
	return nil
}

func (r *PgxVoucherRepository) insertLinkedBillingsTx(ctx context.Context, tx pgx.Tx, collectionID string, links []domain.LinkedBilling) error {
	query := `
		INSERT INTO voucher_linked_billings (collection_voucher_id, billing_voucher_id, position, amount)
		VALUES ($1, $2, $3, $4);
	`
	for _, lb := range mapping.ToModelLinkedBillings(collectionID, links) {
		if _, err := tx.Exec(ctx, query, lb.CollectionVoucherID, lb.BillingVoucherID, lb.Position, lb.Amount); err != nil {
			return fmt.Errorf("failed to insert linked billing for voucher %s: %w", collectionID, err)
		}
	}
	return nil
}

// SaveVoucher inserts a new voucher with its children in one transaction.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertVoucherTx(ctx, tx, voucher); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxVoucherRepository) loadLineItems(ctx context.Context, q querier, voucherIDs []string) (map[string][]domain.LineItem, error) {
	query := `
		SELECT line_item_id, voucher_id, position, particular, description, amount
		FROM voucher_line_items
		WHERE voucher_id = ANY($1)
		ORDER BY voucher_id, position;
	`
	rows, err := q.Query(ctx, query, voucherIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	byVoucher := make(map[string][]models.VoucherLineItem)
	for rows.Next() {
		var li models.VoucherLineItem
		if err := rows.Scan(&li.LineItemID, &li.VoucherID, &li.Position, &li.Particular, &li.Description, &li.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		byVoucher[li.VoucherID] = append(byVoucher[li.VoucherID], li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line items: %w", err)
	}

	out := make(map[string][]domain.LineItem, len(byVoucher))
	for id, ms := range byVoucher {
		out[id] = mapping.ToDomainLineItems(ms)
	}
	return out, nil
}

func (r *PgxVoucherRepository) loadLinkedBillings(ctx context.Context, q querier, voucherIDs []string) (map[string][]domain.LinkedBilling, error) {
	query := `
		SELECT collection_voucher_id, billing_voucher_id, position, amount
		FROM voucher_linked_billings
		WHERE collection_voucher_id = ANY($1)
		ORDER BY collection_voucher_id, position;
	`
	rows, err := q.Query(ctx, query, voucherIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked billings: %w", err)
	}
	defer rows.Close()

	byVoucher := make(map[string][]models.VoucherLinkedBilling)
	for rows.Next() {
		var lb models.VoucherLinkedBilling
		if err := rows.Scan(&lb.CollectionVoucherID, &lb.BillingVoucherID, &lb.Position, &lb.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan linked billing: %w", err)
		}
		byVoucher[lb.CollectionVoucherID] = append(byVoucher[lb.CollectionVoucherID], lb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating linked billings: %w", err)
	}

	out := make(map[string][]domain.LinkedBilling, len(byVoucher))
	for id, ms := range byVoucher {
		out[id] = mapping.ToDomainLinkedBillings(ms)
	}
	return out, nil
}

func (r *PgxVoucherRepository) findVoucherByIDIn(ctx context.Context, q querier, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`
	m, err := scanVoucherRow(q.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}

	v := mapping.ToDomainVoucher(m)
	lineItems, err := r.loadLineItems(ctx, q, []string{voucherID})
	if err != nil {
		return nil, err
	}
	v.LineItems = lineItems[voucherID]

	links, err := r.loadLinkedBillings(ctx, q, []string{voucherID})
	if err != nil {
		return nil, err
	}
	v.LinkedBillings = links[voucherID]
	return &v, nil
}

// FindVoucherByID retrieves a voucher with its line items and billing links.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return r.findVoucherByIDIn(ctx, r.Pool, voucherID)
}

// ListVouchers pages through vouchers newest-first using a created_at cursor.
// A non-positive Limit returns everything matching the filter.
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, filter portsrepo.ListVouchersFilter) ([]domain.Voucher, *string, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE 1=1`
	args := []any{}

	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}
	if filter.TransactionType != "" {
		addArg(" AND transaction_type = $%d", string(filter.TransactionType))
	}
	if filter.Status != "" {
		addArg(" AND status = $%d", string(filter.Status))
	}
	if filter.ProjectRef != "" {
		addArg(" AND project_ref = $%d", filter.ProjectRef)
	}
	if filter.StatementRef != "" {
		addArg(" AND statement_ref = $%d", filter.StatementRef)
	}
	if filter.NextToken != nil {
		cursor, err := pagination.DecodeDateBasedToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		addArg(" AND created_at < $%d", cursor)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		// One extra row tells us whether another page exists.
		addArg(" LIMIT $%d", filter.Limit+1)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	defer rows.Close()

	var modelVouchers []models.Voucher
	for rows.Next() {
		m, err := scanVoucherRow(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan voucher: %w", err)
		}
		modelVouchers = append(modelVouchers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating vouchers: %w", err)
	}

	var nextToken *string
	if filter.Limit > 0 && len(modelVouchers) > filter.Limit {
		modelVouchers = modelVouchers[:filter.Limit]
		token := pagination.EncodeDateBasedToken(modelVouchers[len(modelVouchers)-1].CreatedAt)
		nextToken = &token
	}
	if len(modelVouchers) == 0 {
		return []domain.Voucher{}, nil, nil
	}

	ids := make([]string, len(modelVouchers))
	vouchers := make([]domain.Voucher, len(modelVouchers))
	for i, m := range modelVouchers {
		ids[i] = m.VoucherID
		vouchers[i] = mapping.ToDomainVoucher(m)
	}

	lineItems, err := r.loadLineItems(ctx, r.Pool, ids)
	if err != nil {
		return nil, nil, err
	}
	links, err := r.loadLinkedBillings(ctx, r.Pool, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range vouchers {
		vouchers[i].LineItems = lineItems[vouchers[i].VoucherID]
		vouchers[i].LinkedBillings = links[vouchers[i].VoucherID]
	}
	return vouchers, nextToken, nil
}

// UpdateDraftVoucher replaces the mutable fields and line items of a voucher
// that is still in DRAFT. A voucher that left DRAFT concurrently surfaces as
// apperrors.ErrConflict.
func (r *PgxVoucherRepository) UpdateDraftVoucher(ctx context.Context, voucher domain.Voucher) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelVoucher(voucher)
	query := `
		UPDATE vouchers
		SET category = $2, sub_category = $3, total_amount = $4, counterparty = $5, project_ref = $6,
			source_account_id = $7, invoice_number = $8, statement_ref = $9, due_date = $10,
			last_updated_at = $11, last_updated_by = $12, version = version + 1
		WHERE voucher_id = $1 AND status = $13;
	`
	tag, err := tx.Exec(ctx, query,
		m.VoucherID, m.Category, m.SubCategory, m.TotalAmount, m.Counterparty, m.ProjectRef,
		m.SourceAccountID, m.InvoiceNumber, m.StatementRef, m.DueDate,
		m.LastUpdatedAt, m.LastUpdatedBy, string(domain.StatusDraft),
	)
	if err != nil {
		return fmt.Errorf("failed to update draft voucher %s: %w", m.VoucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s is no longer in draft", apperrors.ErrConflict, m.VoucherID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM voucher_line_items WHERE voucher_id = $1;`, m.VoucherID); err != nil {
		return fmt.Errorf("failed to clear line items for voucher %s: %w", m.VoucherID, err)
	}
	if err := r.insertLineItemsTx(ctx, tx, voucher.VoucherID, voucher.LineItems); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// TransitionStatus applies a guarded status change. The UPDATE only matches
// when the stored status still equals change.Expected; zero affected rows
// means another writer got there first and surfaces as apperrors.ErrConflict.
func (r *PgxVoucherRepository) TransitionStatus(ctx context.Context, voucherID string, change portsrepo.StatusChange) (*domain.Voucher, error) {
	now := time.Now().UTC()
	query := `
		UPDATE vouchers
		SET status = $3,
			posted_by_name = COALESCE(NULLIF($4, ''), posted_by_name),
			posted_at = COALESCE($5, posted_at),
			billing_status = COALESCE(NULLIF($6, ''), billing_status),
			last_updated_at = $7, last_updated_by = $8, version = version + 1
		WHERE voucher_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		voucherID, string(change.Expected), string(change.To),
		change.PostedByName, change.PostedAt, string(change.BillingStatus),
		now, change.UpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to transition voucher %s: %w", voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: voucher %s is not in status %s", apperrors.ErrConflict, voucherID, change.Expected)
	}
	return r.FindVoucherByID(ctx, voucherID)
}

// DeleteVoucher removes a voucher and its child rows. Links where this voucher
// is the settled billing are removed too, otherwise the row would be orphaned.
func (r *PgxVoucherRepository) DeleteVoucher(ctx context.Context, voucherID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM voucher_linked_billings WHERE collection_voucher_id = $1 OR billing_voucher_id = $1;`, voucherID); err != nil {
		return fmt.Errorf("failed to delete billing links for voucher %s: %w", voucherID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM voucher_line_items WHERE voucher_id = $1;`, voucherID); err != nil {
		return fmt.Errorf("failed to delete line items for voucher %s: %w", voucherID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM vouchers WHERE voucher_id = $1;`, voucherID)
	if err != nil {
		return fmt.Errorf("failed to delete voucher %s: %w", voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
	}
	return r.Commit(ctx, tx)
}

// lockBillingForUpdate loads a billing voucher's balance under FOR UPDATE so
// the amount due cannot move until the transaction ends.
func lockBillingForUpdate(ctx context.Context, tx pgx.Tx, billingVoucherID string) (totalAmount, amountPaid decimal.Decimal, err error) {
	query := `
		SELECT total_amount, amount_paid
		FROM vouchers
		WHERE voucher_id = $1 AND transaction_type = $2 AND billing_status = $3
		FOR UPDATE;
	`
	err = tx.QueryRow(ctx, query, billingVoucherID, string(domain.TransactionBilling), string(domain.BillingBilled)).
		Scan(&totalAmount, &amountPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("%w: billing voucher %s", apperrors.ErrNotFound, billingVoucherID)
			return
		}
		err = fmt.Errorf("failed to lock billing voucher %s: %w", billingVoucherID, err)
	}
	return
}

func applyPaymentTx(ctx context.Context, tx pgx.Tx, billingVoucherID string, amount decimal.Decimal, updatedBy string, now time.Time) error {
	totalAmount, amountPaid, err := lockBillingForUpdate(ctx, tx, billingVoucherID)
	if err != nil {
		return err
	}

	// Re-check against the locked balance. The caller validated against a
	// snapshot; a concurrent payment may have changed the amount due since.
	due := totalAmount.Sub(amountPaid)
	if amount.GreaterThan(due.Add(domain.AmountTolerance)) {
		return fmt.Errorf("%w: payment %s exceeds amount due %s on billing voucher %s",
			apperrors.ErrConflict, amount, due, billingVoucherID)
	}

	query := `
		UPDATE vouchers
		SET amount_paid = amount_paid + $2, last_updated_at = $3, last_updated_by = $4, version = version + 1
		WHERE voucher_id = $1;
	`
	if _, err := tx.Exec(ctx, query, billingVoucherID, amount, now, updatedBy); err != nil {
		return fmt.Errorf("failed to apply payment to billing voucher %s: %w", billingVoucherID, err)
	}
	return nil
}

// SaveCollectionWithLinks inserts a collection voucher and applies each linked
// amount to its billing in one transaction. Billings are locked in a stable
// order and each amount due is re-checked at write time; any stale
// precondition rolls everything back.
func (r *PgxVoucherRepository) SaveCollectionWithLinks(ctx context.Context, collection domain.Voucher) error {
	links := make([]domain.LinkedBilling, len(collection.LinkedBillings))
	copy(links, collection.LinkedBillings)
	sort.Slice(links, func(i, j int) bool { return links[i].BillingVoucherID < links[j].BillingVoucherID })

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := collection.LastUpdatedAt
	for _, lb := range links {
		if err := applyPaymentTx(ctx, tx, lb.BillingVoucherID, lb.Amount, collection.CreatedBy, now); err != nil {
			return err
		}
	}
	if err := r.insertVoucherTx(ctx, tx, collection); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ApplyPaymentToBilling records a payment against one billing voucher under
// the same lock-and-recheck discipline.
func (r *PgxVoucherRepository) ApplyPaymentToBilling(ctx context.Context, billingVoucherID string, amount decimal.Decimal, updatedBy string) (*domain.Voucher, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := applyPaymentTx(ctx, tx, billingVoucherID, amount, updatedBy, time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := r.findVoucherByIDIn(ctx, tx, billingVoucherID)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return updated, nil
}
