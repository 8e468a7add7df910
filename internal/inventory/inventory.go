// Package inventory tracks stocked equipment and consumables (blades, bits,
// tools) with assignment counts and reorder levels.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no item matches.
var ErrNotFound = errors.New("inventory item not found")

// Item is a stocked equipment/consumable type.
type Item struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Manufacturer     string    `json:"manufacturer,omitempty"`
	Model            string    `json:"model,omitempty"`
	Size             string    `json:"size,omitempty"`
	QuantityInStock  int       `json:"quantity_in_stock"`
	QuantityAssigned int       `json:"quantity_assigned"`
	ReorderLevel     int       `json:"reorder_level"`
	UnitPrice        float64   `json:"unit_price"`
	QRPayload        string    `json:"qr_payload,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Available is the stock not currently assigned. Expected non-negative but
// not transactionally enforced; assignment clamps instead.
func (i Item) Available() int {
	return i.QuantityInStock - i.QuantityAssigned
}

// LowStock reports whether the available quantity has reached the reorder level.
func (i Item) LowStock() bool {
	return i.Available() <= i.ReorderLevel
}

// Store persists inventory items.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const itemColumns = `
	id, name, category, manufacturer, model, size,
	quantity_in_stock, quantity_assigned, reorder_level, unit_price, qr_payload,
	created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var manufacturer, model, size, qr *string
	err := row.Scan(
		&it.ID, &it.Name, &it.Category, &manufacturer, &model, &size,
		&it.QuantityInStock, &it.QuantityAssigned, &it.ReorderLevel, &it.UnitPrice, &qr,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return Item{}, err
	}
	if manufacturer != nil {
		it.Manufacturer = *manufacturer
	}
	if model != nil {
		it.Model = *model
	}
	if size != nil {
		it.Size = *size
	}
	if qr != nil {
		it.QRPayload = *qr
	}
	return it, nil
}

// CreateInput is the form for a new item. QRPayload defaults to the item ID.
type CreateInput struct {
	Name         string
	Category     string
	Manufacturer string
	Model        string
	Size         string
	Quantity     int
	ReorderLevel int
	UnitPrice    float64
}

// Create inserts a new item.
func (s *Store) Create(ctx context.Context, in CreateInput) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	id := uuid.New()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (id, name, category, manufacturer, model, size, quantity_in_stock, reorder_level, unit_price, qr_payload)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10)
		RETURNING `+itemColumns+`
	`, id, in.Name, in.Category, in.Manufacturer, in.Model, in.Size, in.Quantity, in.ReorderLevel, in.UnitPrice, "fieldops:item:"+id.String())
	it, err := scanItem(row)
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// Get returns one item by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// List returns items, optionally filtered by category.
func (s *Store) List(ctx context.Context, category string, lowStockOnly bool) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	q := `SELECT ` + itemColumns + ` FROM inventory_items`
	var where []string
	var args []any
	if category != "" {
		args = append(args, category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if lowStockOnly {
		where = append(where, "quantity_in_stock - quantity_assigned <= reorder_level")
	}
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	list := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// UpdateInput carries optional fields for a partial update.
type UpdateInput struct {
	Name         *string
	Category     *string
	Manufacturer *string
	Model        *string
	Size         *string
	Quantity     *int
	ReorderLevel *int
	UnitPrice    *float64
}

// Update applies non-nil fields.
func (s *Store) Update(ctx context.Context, id uuid.UUID, in UpdateInput) error {
	var set []string
	var args []any
	n := 1
	add := func(col string, v any) {
		set = append(set, col+" = $"+strconv.Itoa(n))
		args = append(args, v)
		n++
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.Manufacturer != nil {
		add("manufacturer", *in.Manufacturer)
	}
	if in.Model != nil {
		add("model", *in.Model)
	}
	if in.Size != nil {
		add("size", *in.Size)
	}
	if in.Quantity != nil {
		add("quantity_in_stock", *in.Quantity)
	}
	if in.ReorderLevel != nil {
		add("reorder_level", *in.ReorderLevel)
	}
	if in.UnitPrice != nil {
		add("unit_price", *in.UnitPrice)
	}
	if len(set) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	args = append(args, id)
	cmd, err := s.pool.Exec(ctx, `UPDATE inventory_items SET `+strings.Join(set, ", ")+`, updated_at = now() WHERE id = $`+strconv.Itoa(n), args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Assign moves qty units to assigned, clamped to what is in stock.
func (s *Store) Assign(ctx context.Context, id uuid.UUID, qty int) (Item, error) {
	return s.adjustAssigned(ctx, id, qty)
}

// Return moves qty units back to stock, clamped at zero assigned.
func (s *Store) Return(ctx context.Context, id uuid.UUID, qty int) (Item, error) {
	return s.adjustAssigned(ctx, id, -qty)
}

func (s *Store) adjustAssigned(ctx context.Context, id uuid.UUID, delta int) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	row := s.pool.QueryRow(ctx, `
		UPDATE inventory_items
		SET quantity_assigned = GREATEST(0, LEAST(quantity_in_stock, quantity_assigned + $2)),
			updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns+`
	`, id, delta)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("adjust assigned: %w", err)
	}
	return it, nil
}

// Delete removes an item.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd, err := s.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
