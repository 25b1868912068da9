package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanProduct scans a single row into a model.Product.
// The row must contain columns in the order defined by productColumns.
func scanProduct(row scannable) (*model.Product, error) {
	p, _, err := scanProductInto(row, false)
	return p, err
}

// scanProductWithTotal scans a row that has a leading total_count column
// followed by the standard product columns. Used by queryListProducts with
// COUNT(*) OVER().
func scanProductWithTotal(row scannable) (*model.Product, int, error) {
	return scanProductInto(row, true)
}

func scanProductInto(row scannable, withTotal bool) (*model.Product, int, error) {
	var p model.Product
	var total int
	var (
		modelType     sql.NullString
		companyID     sql.NullString
		notes         sql.NullString
		warrantyStart sql.NullTime
		warrantyEnd   sql.NullTime
	)

	dest := []any{
		&p.ID,
		&p.Serial,
		&p.ModelName,
		&modelType,
		&companyID,
		&p.Status,
		&warrantyStart,
		&warrantyEnd,
		&notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if withTotal {
		dest = append([]any{&total}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, 0, err
	}

	p.ModelType = modelType.String
	p.CompanyID = companyID.String
	p.Notes = notes.String
	if warrantyStart.Valid {
		t := warrantyStart.Time
		p.WarrantyStart = &t
	}
	if warrantyEnd.Valid {
		t := warrantyEnd.Time
		p.WarrantyEnd = &t
	}

	return &p, total, nil
}

// scanIssue scans a single row into a model.Issue in issueColumns order.
func scanIssue(row scannable) (*model.Issue, error) {
	i, _, err := scanIssueInto(row, false)
	return i, err
}

func scanIssueWithTotal(row scannable) (*model.Issue, int, error) {
	return scanIssueInto(row, true)
}

func scanIssueInto(row scannable, withTotal bool) (*model.Issue, int, error) {
	var i model.Issue
	var total int
	var (
		companyID   sql.NullString
		description sql.NullString
		category    sql.NullString
		assignee    sql.NullString
		resolvedAt  sql.NullTime
	)

	dest := []any{
		&i.ID,
		&i.ProductID,
		&companyID,
		&i.Title,
		&description,
		&i.Status,
		&i.Priority,
		&category,
		&assignee,
		&i.ReportedAt,
		&resolvedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
	if withTotal {
		dest = append([]any{&total}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, 0, err
	}

	i.CompanyID = companyID.String
	i.Description = description.String
	i.Category = category.String
	i.Assignee = assignee.String
	if resolvedAt.Valid {
		t := resolvedAt.Time
		i.ResolvedAt = &t
	}

	return &i, total, nil
}

// scanShipment scans a single row into a model.Shipment in shipmentColumns order.
func scanShipment(row scannable) (*model.Shipment, error) {
	s, _, err := scanShipmentInto(row, false)
	return s, err
}

func scanShipmentWithTotal(row scannable) (*model.Shipment, int, error) {
	return scanShipmentInto(row, true)
}

func scanShipmentInto(row scannable, withTotal bool) (*model.Shipment, int, error) {
	var s model.Shipment
	var total int
	var (
		carrier     sql.NullString
		tracking    sql.NullString
		shippedAt   sql.NullTime
		deliveredAt sql.NullTime
	)

	dest := []any{
		&s.ID,
		&s.IssueID,
		&s.Direction,
		&carrier,
		&tracking,
		&s.Status,
		&shippedAt,
		&deliveredAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
	if withTotal {
		dest = append([]any{&total}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, 0, err
	}

	s.Carrier = carrier.String
	s.Tracking = tracking.String
	if shippedAt.Valid {
		t := shippedAt.Time
		s.ShippedAt = &t
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		s.DeliveredAt = &t
	}

	return &s, total, nil
}

// scanShipments scans multiple rows into a slice of model.Shipment pointers.
func scanShipments(rows *sql.Rows) ([]*model.Shipment, error) {
	var shipments []*model.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shipments, nil
}

// scanCompany scans a single row into a model.Company in companyColumns order.
func scanCompany(row scannable) (*model.Company, error) {
	c, _, err := scanCompanyInto(row, false)
	return c, err
}

func scanCompanyWithTotal(row scannable) (*model.Company, int, error) {
	return scanCompanyInto(row, true)
}

func scanCompanyInto(row scannable, withTotal bool) (*model.Company, int, error) {
	var c model.Company
	var total int
	var (
		email   sql.NullString
		phone   sql.NullString
		address sql.NullString
	)

	dest := []any{
		&c.ID,
		&c.Name,
		&c.Kind,
		&email,
		&phone,
		&address,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
	if withTotal {
		dest = append([]any{&total}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, 0, err
	}

	c.Email = email.String
	c.Phone = phone.String
	c.Address = address.String

	return &c, total, nil
}

// scanNotification scans a single row into a model.Notification.
func scanNotification(row scannable) (*model.Notification, error) {
	var n model.Notification
	var (
		message  sql.NullString
		entityID sql.NullString
	)
	err := row.Scan(
		&n.ID,
		&n.Type,
		&n.Title,
		&message,
		&n.Priority,
		&entityID,
		&n.Read,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Message = message.String
	n.EntityID = entityID.String
	return &n, nil
}

// scanNotifications scans multiple rows into a slice of model.Notification pointers.
func scanNotifications(rows *sql.Rows) ([]*model.Notification, error) {
	var notifications []*model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// scanEvent scans a single row into a model.Event.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		actor   sql.NullString
		payload []byte
	)
	err := row.Scan(&e.ID, &e.Topic, &e.EntityID, &actor, &payload, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Actor = actor.String
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

// scanEvents scans multiple rows into a slice of model.Event pointers.
func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// nullTimePtr converts a *time.Time to a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
