package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rk-textiles/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// recentOrdersLimit bounds the orders returned with a phone lookup.
const recentOrdersLimit = 5

// CustomerService manages customer master data.
type CustomerService interface {
	RegisterCustomer(ctx context.Context, in CustomerInput) (*Customer, error)
	ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error)
	GetCustomer(ctx context.Context, id int) (*Customer, error)
	UpdateCustomer(ctx context.Context, id int, upd CustomerUpdate) (*Customer, error)
	// DeleteCustomer refuses with *ConflictError while orders or bills reference the customer.
	DeleteCustomer(ctx context.Context, id int) error
	// LookupByPhone never returns *NotFoundError: an unknown phone yields Found=false.
	LookupByPhone(ctx context.Context, phone string) (*CustomerLookup, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

func (s *customerService) RegisterCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return nil, invalid("name", "is required")
	}
	if in.Phone == "" {
		return nil, invalid("phone", "is required")
	}

	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, business_type, address)
		VALUES ($1, $2, $3, $4)
		RETURNING `+customerColumns,
		in.Name, in.Phone, in.BusinessType, in.Address))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, conflict("customer with phone %s already exists", in.Phone)
		}
		return nil, fmt.Errorf("create customer %q: %w", in.Name, err)
	}
	return c, nil
}

func (s *customerService) ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error) {
	var conds conditions
	if filter.Search != "" {
		conds.add("(name ILIKE $%[1]d OR phone ILIKE $%[1]d)", "%"+escapeLike(filter.Search)+"%")
	}
	if filter.BusinessType != "" {
		conds.add("business_type = $%d", filter.BusinessType)
	}

	rows, err := s.pool.Query(ctx,
		"SELECT "+customerColumns+" FROM customers"+conds.where()+" ORDER BY created_at DESC, id DESC",
		conds.args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (s *customerService) GetCustomer(ctx context.Context, id int) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("customer", id)
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id int, upd CustomerUpdate) (*Customer, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, invalid("name", "cannot be empty")
	}
	if upd.Phone != nil && strings.TrimSpace(*upd.Phone) == "" {
		return nil, invalid("phone", "cannot be empty")
	}

	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		UPDATE customers
		SET name          = COALESCE($1, name),
		    phone         = COALESCE($2, phone),
		    business_type = COALESCE($3, business_type),
		    address       = COALESCE($4, address)
		WHERE id = $5
		RETURNING `+customerColumns,
		upd.Name, upd.Phone, upd.BusinessType, upd.Address, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("customer", id)
		}
		if db.IsUniqueViolation(err) {
			return nil, conflict("customer with phone %s already exists", *upd.Phone)
		}
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return conflict("customer %d has orders or bills and cannot be deleted", id)
		}
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("customer", id)
	}
	return nil
}

func (s *customerService) LookupByPhone(ctx context.Context, phone string) (*CustomerLookup, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, invalid("phone", "is required")
	}

	c, err := scanCustomer(s.pool.QueryRow(ctx, "SELECT "+customerColumns+" FROM customers WHERE phone = $1", phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &CustomerLookup{Found: false}, nil
		}
		return nil, fmt.Errorf("lookup customer by phone: %w", err)
	}

	orders, err := queryOrders(ctx, s.pool,
		orderSelect+" WHERE o.customer_id = $1 ORDER BY o.order_date DESC, o.id DESC LIMIT $2",
		c.ID, recentOrdersLimit)
	if err != nil {
		return nil, err
	}
	return &CustomerLookup{Found: true, Customer: c, RecentOrders: orders}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
