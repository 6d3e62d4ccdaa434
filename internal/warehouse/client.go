// Package warehouse reads the synced work-tracker and CRM tables that the
// pipeline cross-references: corporation tasks, the company directory,
// and contact records.
package warehouse

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dataiq/outreach-cli/internal/clickup"
	"github.com/dataiq/outreach-cli/internal/model"
)

// Config configures the warehouse client.
type Config struct {
	URL              string `mapstructure:"database_url"`
	ListID           string `mapstructure:"list_id"`
	ContactBatchSize int    `mapstructure:"contact_batch_size"`
}

// Querier abstracts the warehouse reads for testing.
type Querier interface {
	Tasks(ctx context.Context, companies map[string]string) ([]*model.TaskRecord, error)
	Companies(ctx context.Context) (map[string]string, error)
	ContactsByEmail(ctx context.Context, emails []string) (map[string]model.Contact, error)
	Close()
}

// pool defines the minimal database pool interface used by Client.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Client queries the sync warehouse.
type Client struct {
	pool pool
	cfg  Config
}

// Ensure Client implements Querier.
var _ Querier = (*Client)(nil)

// New creates a warehouse client connected to the sync database.
func New(ctx context.Context, cfg Config) (*Client, error) {
	p, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: connect")
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, eris.Wrap(err, "warehouse: ping")
	}
	return &Client{pool: p, cfg: cfg}, nil
}

// newWithPool wires an explicit pool; used by tests with pgxmock.
func newWithPool(p pool, cfg Config) *Client {
	return &Client{pool: p, cfg: cfg}
}

// Close releases the connection pool.
func (c *Client) Close() { c.pool.Close() }

const tasksSQL = `
SELECT id, name, status::text, custom_fields::text
FROM clickup.task
WHERE list ->> 'id' = $1`

// Tasks performs the full scan of the corporations list and parses each
// row into an immutable TaskRecord. companies maps CRM record id to name
// for deriving the task's company name, and may be nil.
func (c *Client) Tasks(ctx context.Context, companies map[string]string) ([]*model.TaskRecord, error) {
	rows, err := c.pool.Query(ctx, tasksSQL, c.cfg.ListID)
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: query tasks")
	}
	defer rows.Close()

	var tasks []*model.TaskRecord
	for rows.Next() {
		var id, name string
		var status, customFields []byte
		if err := rows.Scan(&id, &name, &status, &customFields); err != nil {
			return nil, eris.Wrap(err, "warehouse: scan task row")
		}
		tasks = append(tasks, clickup.ParseTask(id, name, status, customFields, companies))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "warehouse: tasks iteration")
	}

	zap.L().Info("warehouse: fetched tasks",
		zap.String("list_id", c.cfg.ListID),
		zap.Int("count", len(tasks)),
	)
	return tasks, nil
}

const companiesSQL = `
SELECT id::text, properties_name
FROM hubspot.companies
WHERE properties_name IS NOT NULL`

// Companies returns the CRM company directory as record id -> name.
func (c *Client) Companies(ctx context.Context) (map[string]string, error) {
	rows, err := c.pool.Query(ctx, companiesSQL)
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: query companies")
	}
	defer rows.Close()

	directory := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, eris.Wrap(err, "warehouse: scan company row")
		}
		directory[id] = strings.TrimSpace(name)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "warehouse: companies iteration")
	}

	zap.L().Info("warehouse: fetched companies", zap.Int("count", len(directory)))
	return directory, nil
}

const contactsSQL = `
SELECT LOWER(properties_email), id::text,
       COALESCE(properties_firstname, ''), COALESCE(properties_lastname, '')
FROM hubspot.contacts
WHERE LOWER(properties_email) = ANY($1)`

// ContactsByEmail looks CRM contacts up in batches to keep query size
// bounded. A failed batch is logged and skipped; the remaining batches
// still run.
func (c *Client) ContactsByEmail(ctx context.Context, emails []string) (map[string]model.Contact, error) {
	contacts := make(map[string]model.Contact)
	if len(emails) == 0 {
		return contacts, nil
	}

	batchSize := c.cfg.ContactBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	lowered := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			lowered = append(lowered, e)
		}
	}

	for start := 0; start < len(lowered); start += batchSize {
		end := start + batchSize
		if end > len(lowered) {
			end = len(lowered)
		}
		if err := c.contactBatch(ctx, lowered[start:end], contacts); err != nil {
			zap.L().Warn("warehouse: contact batch failed",
				zap.Int("batch_start", start),
				zap.Error(err),
			)
		}
	}

	zap.L().Info("warehouse: fetched contacts",
		zap.Int("requested", len(lowered)),
		zap.Int("matched", len(contacts)),
	)
	return contacts, nil
}

func (c *Client) contactBatch(ctx context.Context, batch []string, out map[string]model.Contact) error {
	rows, err := c.pool.Query(ctx, contactsSQL, batch)
	if err != nil {
		return eris.Wrap(err, "warehouse: query contacts")
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		var contact model.Contact
		if err := rows.Scan(&email, &contact.ID, &contact.FirstName, &contact.LastName); err != nil {
			return eris.Wrap(err, "warehouse: scan contact row")
		}
		if email != "" {
			out[email] = contact
		}
	}
	if err := rows.Err(); err != nil {
		return eris.Wrap(err, "warehouse: contacts iteration")
	}
	return nil
}
