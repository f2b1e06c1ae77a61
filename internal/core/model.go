package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Order statuses. Cancellation deletes the order row, so there is no Cancelled status.
const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
)

// Bill payment statuses.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
)

// Raw-material shipment statuses.
const (
	ShipmentStatusInProduction = "In Production"
	ShipmentStatusCompleted    = "Completed"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared query helpers.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Customer is a buyer registered by phone number.
type Customer struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	BusinessType string    `json:"business_type"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerInput holds the fields accepted when registering a customer.
type CustomerInput struct {
	Name         string
	Phone        string
	BusinessType string
	Address      string
}

// CustomerUpdate is a partial update; nil fields are left unchanged.
type CustomerUpdate struct {
	Name         *string
	Phone        *string
	BusinessType *string
	Address      *string
}

// CustomerFilter narrows ListCustomers. Search matches name or phone, case-insensitively.
type CustomerFilter struct {
	Search       string
	BusinessType string
}

// CustomerLookup is the phone-lookup view: the customer plus their latest orders.
type CustomerLookup struct {
	Found        bool      `json:"found"`
	Customer     *Customer `json:"customer,omitempty"`
	RecentOrders []Order   `json:"recent_orders,omitempty"`
}

// Mill is an external supplier that turns raw material into fabric.
type Mill struct {
	ID            int       `json:"id"`
	MillName      string    `json:"mill_name"`
	Location      string    `json:"location"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
}

// MillInput holds the fields required to create a new mill.
type MillInput struct {
	MillName      string
	Location      string
	ContactPerson string
	Phone         string
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.BusinessType, &c.Address, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

const customerColumns = "id, name, phone, business_type, address, created_at"

func scanMill(row pgx.Row) (*Mill, error) {
	var m Mill
	if err := row.Scan(&m.ID, &m.MillName, &m.Location, &m.ContactPerson, &m.Phone, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

const millColumns = "id, mill_name, location, contact_person, phone, created_at"

// conditions accumulates WHERE clauses with positional arguments.
// Each clause is a format string whose %d (or %[1]d) verbs receive the argument's position.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}
