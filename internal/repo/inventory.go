package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crucial707/ems-inventory/internal/apperrors"
	"github.com/crucial707/ems-inventory/internal/models"
)

const itemColumns = `item_id, item_name, category, description, quantity, expiration_date, min_threshold, last_updated`

// InventoryRepo persists inventory items. All SQL against the inventory table
// goes through this type.
type InventoryRepo struct {
	DB *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{DB: db}
}

func scanItem(row interface{ Scan(...any) error }) (models.InventoryItem, error) {
	var (
		item models.InventoryItem
		exp  sql.NullTime
	)
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Description,
		&item.Quantity,
		&exp,
		&item.MinThreshold,
		&item.LastUpdated,
	)
	if err != nil {
		return models.InventoryItem{}, err
	}
	if exp.Valid {
		t := exp.Time
		item.ExpirationDate = &t
	}
	return item, nil
}

// Create inserts a new item and returns the stored row.
func (r *InventoryRepo) Create(ctx context.Context, name, category, description string, quantity int, expiration *time.Time, minThreshold int) (models.InventoryItem, error) {
	var exp sql.NullTime
	if expiration != nil {
		exp = sql.NullTime{Time: *expiration, Valid: true}
	}
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO inventory (item_name, category, description, quantity, expiration_date, min_threshold)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+itemColumns,
		name, category, description, quantity, exp, minThreshold,
	)
	return scanItem(row)
}

// GetByName returns the item with the given name.
func (r *InventoryRepo) GetByName(ctx context.Context, name string) (models.InventoryItem, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory WHERE item_name = $1`,
		name,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.InventoryItem{}, apperrors.ErrNotFound
	}
	return item, err
}

// List returns all items ordered by name.
func (r *InventoryRepo) List(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM inventory ORDER BY item_name, category`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ExistsByNameCategory reports whether an item with the name+category pair exists.
func (r *InventoryRepo) ExistsByNameCategory(ctx context.Context, name, category string) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory WHERE item_name = $1 AND category = $2`,
		name, category,
	).Scan(&count)
	return count > 0, err
}

// AdjustQuantity applies a relative quantity change. The WHERE guard makes the
// update a compare-and-set: a decrease that would cross zero matches no rows,
// so two concurrent decreases cannot drive the quantity negative. Returns the
// number of rows updated.
func (r *InventoryRepo) AdjustQuantity(ctx context.Context, name string, delta int) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE inventory
		 SET quantity = quantity + $1, last_updated = now()
		 WHERE item_name = $2 AND quantity + $1 >= 0`,
		delta, name,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetQuantity sets the quantity to an exact value.
func (r *InventoryRepo) SetQuantity(ctx context.Context, name string, quantity int) error {
	return r.exec(ctx,
		`UPDATE inventory SET quantity = $1, last_updated = now() WHERE item_name = $2`,
		quantity, name)
}

// SetExpiration sets a new expiration date.
func (r *InventoryRepo) SetExpiration(ctx context.Context, name string, expiration time.Time) error {
	return r.exec(ctx,
		`UPDATE inventory SET expiration_date = $1, last_updated = now() WHERE item_name = $2`,
		expiration, name)
}

// SetDescription replaces the free-text description.
func (r *InventoryRepo) SetDescription(ctx context.Context, name, description string) error {
	return r.exec(ctx,
		`UPDATE inventory SET description = $1, last_updated = now() WHERE item_name = $2`,
		description, name)
}

// SetThreshold sets the minimum low-stock threshold.
func (r *InventoryRepo) SetThreshold(ctx context.Context, name string, threshold int) error {
	return r.exec(ctx,
		`UPDATE inventory SET min_threshold = $1, last_updated = now() WHERE item_name = $2`,
		threshold, name)
}

// SetCategory moves the item to a different category.
func (r *InventoryRepo) SetCategory(ctx context.Context, name, category string) error {
	return r.exec(ctx,
		`UPDATE inventory SET category = $1, last_updated = now() WHERE item_name = $2`,
		category, name)
}

// Delete removes the item.
func (r *InventoryRepo) Delete(ctx context.Context, name string) error {
	return r.exec(ctx, `DELETE FROM inventory WHERE item_name = $1`, name)
}

// exec runs a single-row mutation and maps zero affected rows to ErrNotFound.
func (r *InventoryRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Expired returns items whose expiration date has passed, oldest first.
func (r *InventoryRepo) Expired(ctx context.Context) ([]models.ExpiredItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT item_name, quantity, expiration_date
		 FROM inventory
		 WHERE expiration_date IS NOT NULL AND expiration_date < CURRENT_DATE
		 ORDER BY expiration_date ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ExpiredItem
	for rows.Next() {
		var e models.ExpiredItem
		if err := rows.Scan(&e.Name, &e.Quantity, &e.ExpirationDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LowStock returns items whose quantity is below their minimum threshold,
// lowest quantity first.
func (r *InventoryRepo) LowStock(ctx context.Context) ([]models.LowStockItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT item_name, quantity, min_threshold
		 FROM inventory
		 WHERE min_threshold > 0 AND quantity < min_threshold
		 ORDER BY quantity ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LowStockItem
	for rows.Next() {
		var l models.LowStockItem
		if err := rows.Scan(&l.Name, &l.Quantity, &l.MinThreshold); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
