package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

// Column lists used for SELECT statements, one per table.
const (
	productColumns = `id, serial, model_name, model_type, company_id, status,
		warranty_start, warranty_end, notes, created_at, updated_at`
	issueColumns = `id, product_id, company_id, title, description, status,
		priority, category, assignee, reported_at, resolved_at, created_at, updated_at`
	shipmentColumns = `id, issue_id, direction, carrier, tracking, status,
		shipped_at, delivered_at, created_at, updated_at`
	companyColumns      = `id, name, kind, email, phone, address, created_at, updated_at`
	notificationColumns = `id, type, title, message, priority, entity_id, read, created_at`
)

// Per-table allowlists mapping wire field ids to SQL columns. Filters and
// sorts referencing fields outside these maps are rejected before any SQL
// is built.
var (
	productFilterColumns = query.Columns{
		"serial": "serial", "model_name": "model_name", "model_type": "model_type",
		"company_id": "company_id", "status": "status",
		"warranty_start": "warranty_start", "warranty_end": "warranty_end",
	}
	issueFilterColumns = query.Columns{
		"product_id": "product_id", "company_id": "company_id", "title": "title",
		"status": "status", "priority": "priority", "category": "category",
		"assignee": "assignee", "reported_at": "reported_at", "resolved_at": "resolved_at",
	}
	shipmentFilterColumns = query.Columns{
		"issue_id": "issue_id", "direction": "direction", "carrier": "carrier",
		"tracking": "tracking", "status": "status",
		"shipped_at": "shipped_at", "delivered_at": "delivered_at",
	}
	companyFilterColumns = query.Columns{
		"name": "name", "kind": "kind", "email": "email", "phone": "phone",
	}
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// buildListSQL assembles the data query for a paginated list: filter clauses
// from the allowlist, an optional ILIKE search over searchCols, ORDER BY
// from the (allowlisted) sort, and LIMIT/OFFSET. The query selects
// COUNT(*) OVER() as a leading total_count column so rows and total arrive
// atomically.
func buildListSQL(table, columns string, filterCols query.Columns, searchCols []string, opts query.Options) (string, []any, error) {
	var (
		args   []any
		argIdx int
	)
	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	clauses, err := query.WhereClauses(opts.Filter, filterCols, nextArg, &args)
	if err != nil {
		return "", nil, err
	}

	if opts.Search != "" && len(searchCols) > 0 {
		p := nextArg()
		parts := make([]string, len(searchCols))
		for i, col := range searchCols {
			parts[i] = col + " ILIKE '%' || " + p + " || '%'"
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
		args = append(args, opts.Search)
	}

	whereSQL := ""
	if len(clauses) > 0 {
		whereSQL = " WHERE " + strings.Join(clauses, " AND ")
	}

	q := "SELECT COUNT(*) OVER() AS total_count, " + columns + " FROM " + table +
		whereSQL + " ORDER BY " + sortClause(opts.Sort, filterCols)

	q += " LIMIT " + nextArg()
	args = append(args, opts.PageSize)
	if off := opts.Offset(); off > 0 {
		q += " OFFSET " + nextArg()
		args = append(args, off)
	}

	return q, args, nil
}

// sortClause renders the ORDER BY expression. Sortable columns are the
// filterable ones plus the timestamps every table carries; anything else
// falls back to newest-first.
func sortClause(s *query.SortSpec, cols query.Columns) string {
	if s == nil {
		return "created_at DESC"
	}
	col, ok := cols[s.Field]
	if !ok {
		switch s.Field {
		case "created_at", "updated_at":
			col = s.Field
		default:
			return "created_at DESC"
		}
	}
	if s.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}

// queryDeleteRow deletes one row by id, reporting sql.ErrNoRows when the
// id does not exist. The table name is always a compile-time constant.
func queryDeleteRow(ctx context.Context, db executor, table, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Products

func queryCreateProduct(ctx context.Context, db executor, p *model.Product) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO products (
			id, serial, model_name, model_type, company_id, status,
			warranty_start, warranty_end, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID,
		p.Serial,
		p.ModelName,
		p.ModelType,
		nullString(p.CompanyID),
		string(p.Status),
		nullTimePtr(p.WarrantyStart),
		nullTimePtr(p.WarrantyEnd),
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func queryGetProduct(ctx context.Context, db executor, id string) (*model.Product, error) {
	row := db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func queryListProducts(ctx context.Context, db executor, opts query.Options) ([]*model.Product, query.PageMeta, error) {
	q, args, err := buildListSQL("products", productColumns, productFilterColumns,
		[]string{"serial", "model_name", "notes"}, opts)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, query.PageMeta{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	var total int
	for rows.Next() {
		p, t, err := scanProductWithTotal(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("scan products: %w", err)
		}
		total = t
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, fmt.Errorf("scan products: %w", err)
	}

	return products, query.NewPageMeta(opts.Page, opts.PageSize, total), nil
}

func queryUpdateProduct(ctx context.Context, db executor, p *model.Product) error {
	return db.QueryRowContext(ctx, `
		UPDATE products SET
			serial = $2,
			model_name = $3,
			model_type = $4,
			company_id = $5,
			status = $6,
			warranty_start = $7,
			warranty_end = $8,
			notes = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID,
		p.Serial,
		p.ModelName,
		p.ModelType,
		nullString(p.CompanyID),
		string(p.Status),
		nullTimePtr(p.WarrantyStart),
		nullTimePtr(p.WarrantyEnd),
		p.Notes,
	).Scan(&p.UpdatedAt)
}

// Issues

func queryCreateIssue(ctx context.Context, db executor, i *model.Issue) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO issues (
			id, product_id, company_id, title, description, status,
			priority, category, assignee, reported_at, resolved_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		i.ID,
		i.ProductID,
		nullString(i.CompanyID),
		i.Title,
		i.Description,
		string(i.Status),
		i.Priority,
		i.Category,
		i.Assignee,
		i.ReportedAt,
		nullTimePtr(i.ResolvedAt),
		i.CreatedAt,
		i.UpdatedAt,
	)
	return err
}

func queryGetIssue(ctx context.Context, db executor, id string) (*model.Issue, error) {
	row := db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = $1`, id)
	i, err := scanIssue(row)
	if err != nil {
		return nil, err
	}

	// Fetch shipments tied to the issue.
	shipments, err := queryShipmentsForIssue(ctx, db, id)
	if err != nil {
		return nil, err
	}
	i.Shipments = shipments

	return i, nil
}

func queryListIssues(ctx context.Context, db executor, opts query.Options) ([]*model.Issue, query.PageMeta, error) {
	q, args, err := buildListSQL("issues", issueColumns, issueFilterColumns,
		[]string{"title", "description"}, opts)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, query.PageMeta{}, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	var issues []*model.Issue
	var total int
	for rows.Next() {
		i, t, err := scanIssueWithTotal(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("scan issues: %w", err)
		}
		total = t
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, fmt.Errorf("scan issues: %w", err)
	}

	return issues, query.NewPageMeta(opts.Page, opts.PageSize, total), nil
}

func queryUpdateIssue(ctx context.Context, db executor, i *model.Issue) error {
	return db.QueryRowContext(ctx, `
		UPDATE issues SET
			product_id = $2,
			company_id = $3,
			title = $4,
			description = $5,
			status = $6,
			priority = $7,
			category = $8,
			assignee = $9,
			resolved_at = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		i.ID,
		i.ProductID,
		nullString(i.CompanyID),
		i.Title,
		i.Description,
		string(i.Status),
		i.Priority,
		i.Category,
		i.Assignee,
		nullTimePtr(i.ResolvedAt),
	).Scan(&i.UpdatedAt)
}

func queryResolveIssue(ctx context.Context, db executor, id, resolvedBy string) (*model.Issue, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE issues
		SET status = 'resolved', resolved_at = NOW(), assignee = COALESCE(NULLIF($2, ''), assignee), updated_at = NOW()
		WHERE id = $1
		RETURNING `+issueColumns,
		id, resolvedBy,
	)
	i, err := scanIssue(row)
	if err != nil {
		return nil, err
	}

	shipments, err := queryShipmentsForIssue(ctx, db, id)
	if err != nil {
		return nil, err
	}
	i.Shipments = shipments

	return i, nil
}

// Shipments

func queryCreateShipment(ctx context.Context, db executor, s *model.Shipment) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO shipments (
			id, issue_id, direction, carrier, tracking, status,
			shipped_at, delivered_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID,
		s.IssueID,
		string(s.Direction),
		s.Carrier,
		s.Tracking,
		string(s.Status),
		nullTimePtr(s.ShippedAt),
		nullTimePtr(s.DeliveredAt),
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func queryGetShipment(ctx context.Context, db executor, id string) (*model.Shipment, error) {
	row := db.QueryRowContext(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
	return scanShipment(row)
}

func queryShipmentsForIssue(ctx context.Context, db executor, issueID string) ([]*model.Shipment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+shipmentColumns+` FROM shipments
		WHERE issue_id = $1
		ORDER BY created_at ASC`,
		issueID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShipments(rows)
}

func queryListShipments(ctx context.Context, db executor, opts query.Options) ([]*model.Shipment, query.PageMeta, error) {
	q, args, err := buildListSQL("shipments", shipmentColumns, shipmentFilterColumns,
		[]string{"carrier", "tracking"}, opts)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, query.PageMeta{}, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var shipments []*model.Shipment
	var total int
	for rows.Next() {
		s, t, err := scanShipmentWithTotal(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("scan shipments: %w", err)
		}
		total = t
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, fmt.Errorf("scan shipments: %w", err)
	}

	return shipments, query.NewPageMeta(opts.Page, opts.PageSize, total), nil
}

func queryUpdateShipment(ctx context.Context, db executor, s *model.Shipment) error {
	return db.QueryRowContext(ctx, `
		UPDATE shipments SET
			issue_id = $2,
			direction = $3,
			carrier = $4,
			tracking = $5,
			status = $6,
			shipped_at = $7,
			delivered_at = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		s.ID,
		s.IssueID,
		string(s.Direction),
		s.Carrier,
		s.Tracking,
		string(s.Status),
		nullTimePtr(s.ShippedAt),
		nullTimePtr(s.DeliveredAt),
	).Scan(&s.UpdatedAt)
}

// Companies

func queryCreateCompany(ctx context.Context, db executor, c *model.Company) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO companies (id, name, kind, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID,
		c.Name,
		string(c.Kind),
		c.Email,
		c.Phone,
		c.Address,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func queryGetCompany(ctx context.Context, db executor, id string) (*model.Company, error) {
	row := db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

func queryListCompanies(ctx context.Context, db executor, opts query.Options) ([]*model.Company, query.PageMeta, error) {
	q, args, err := buildListSQL("companies", companyColumns, companyFilterColumns,
		[]string{"name", "email"}, opts)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, query.PageMeta{}, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []*model.Company
	var total int
	for rows.Next() {
		c, t, err := scanCompanyWithTotal(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("scan companies: %w", err)
		}
		total = t
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, fmt.Errorf("scan companies: %w", err)
	}

	return companies, query.NewPageMeta(opts.Page, opts.PageSize, total), nil
}

func queryUpdateCompany(ctx context.Context, db executor, c *model.Company) error {
	return db.QueryRowContext(ctx, `
		UPDATE companies SET
			name = $2,
			kind = $3,
			email = $4,
			phone = $5,
			address = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID,
		c.Name,
		string(c.Kind),
		c.Email,
		c.Phone,
		c.Address,
	).Scan(&c.UpdatedAt)
}

// Notifications

func queryCreateNotification(ctx context.Context, db executor, n *model.Notification) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO notifications (id, type, title, message, priority, entity_id, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		n.ID,
		string(n.Type),
		n.Title,
		n.Message,
		n.Priority,
		nullString(n.EntityID),
		n.Read,
	).Scan(&n.CreatedAt)
}

func queryListNotifications(ctx context.Context, db executor, unreadOnly bool, limit int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + notificationColumns + ` FROM notifications`
	if unreadOnly {
		q += ` WHERE NOT read`
	}
	q += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func queryMarkNotificationRead(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryMarkAllNotificationsRead(ctx context.Context, db executor) error {
	_, err := db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE NOT read`)
	return err
}

// Events

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, entity_id, actor, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.Topic, e.EntityID, e.Actor, []byte(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryGetEvents(ctx context.Context, db executor, entityID string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, entity_id, actor, payload, created_at
		FROM events
		WHERE entity_id = $1
		ORDER BY created_at ASC`,
		entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Stats

func queryGetStats(ctx context.Context, db executor) (*model.Stats, error) {
	stats := &model.Stats{}
	err := db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_repair' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'waiting_parts' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'resolved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'closed' THEN 1 ELSE 0 END), 0),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM notifications WHERE NOT read)
		FROM issues`).Scan(
		&stats.OpenIssues,
		&stats.InRepair,
		&stats.WaitingParts,
		&stats.ResolvedIssues,
		&stats.ClosedIssues,
		&stats.TotalProducts,
		&stats.UnreadNotifications,
	)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}
