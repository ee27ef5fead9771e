package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nvcfund/finmsg/internal/bic"
	"github.com/nvcfund/finmsg/internal/database"
	models "github.com/nvcfund/finmsg/internal/models"
)

// SQLBICRegistry implements BICRegistry on Trino via database/sql.
// Writes are serialized through mu; reads are lock-free.
type SQLBICRegistry struct {
	db    *sql.DB
	table string
	mu    sync.Mutex
}

// NewSQLBICRegistry creates a registry backed by the given database.
func NewSQLBICRegistry(db *database.Database, cfg database.Config) *SQLBICRegistry {
	return &SQLBICRegistry{
		db:    db.DB,
		table: fmt.Sprintf("%s.%s.%s", cfg.Catalog, cfg.Schema, cfg.TableName),
	}
}

const registryColumns = "bic_code, institution_name, institution_code, country_code, location_code, branch_code, bic_type, status, registration_date, last_updated, services, connectivity_status"

// EnsureSchema creates the registry table when it does not exist yet.
// Trino does not support multi-statement execution, so this is a single
// statement.
func (r *SQLBICRegistry) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		bic_code VARCHAR,
		institution_name VARCHAR,
		institution_code VARCHAR,
		country_code VARCHAR,
		location_code VARCHAR,
		branch_code VARCHAR,
		bic_type VARCHAR,
		status VARCHAR,
		registration_date VARCHAR,
		last_updated VARCHAR,
		services VARCHAR,
		connectivity_status VARCHAR
	)`, r.table)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: create table failed: %v", ErrStorage, err)
	}
	return nil
}

// Register revalidates the code and upserts the record. The component
// fields are always re-derived from the code, so the registry can never
// hold them inconsistently with the key.
func (r *SQLBICRegistry) Register(ctx context.Context, record *models.BICRecord) error {
	if record == nil {
		return bic.ErrEmpty
	}

	components, err := bic.Parse(record.BICCode)
	if err != nil {
		return err
	}

	record.BICCode = bic.Canonical(record.BICCode)
	record.InstitutionCode = components.InstitutionCode
	record.CountryCode = components.CountryCode
	record.LocationCode = components.LocationCode
	record.BranchCode = components.BranchCode

	now := time.Now().UTC()
	if record.RegistrationDate.IsZero() {
		record.RegistrationDate = now
	}
	record.LastUpdated = now

	services, err := json.Marshal(record.Services)
	if err != nil {
		return fmt.Errorf("%w: encode services: %v", ErrStorage, err)
	}

	// Trino has no ON CONFLICT clause and enforces no unique key;
	// upsert is delete-then-insert under the same key, and the pair
	// must not interleave with another writer or the table ends up
	// with two rows for one code.
	r.mu.Lock()
	defer r.mu.Unlock()

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE bic_code = ?", r.table)
	if _, err := r.db.ExecContext(ctx, deleteQuery, record.BICCode); err != nil {
		return fmt.Errorf("%w: upsert delete failed: %v", ErrStorage, err)
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", r.table, registryColumns)
	_, err = r.db.ExecContext(ctx, insertQuery,
		record.BICCode,
		record.InstitutionName,
		record.InstitutionCode,
		record.CountryCode,
		record.LocationCode,
		record.BranchCode,
		string(record.BICType),
		string(record.Status),
		record.RegistrationDate.Format(time.RFC3339),
		record.LastUpdated.Format(time.RFC3339),
		string(services),
		record.ConnectivityStatus,
	)
	if err != nil {
		return fmt.Errorf("%w: insert failed: %v", ErrStorage, err)
	}

	return nil
}

// Lookup retrieves a record by its canonical code. Absence is reported
// as ErrNotFound, never as a storage failure.
func (r *SQLBICRegistry) Lookup(ctx context.Context, code string) (*models.BICRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE bic_code = ?", registryColumns, r.table)
	row := r.db.QueryRowContext(ctx, query, bic.Canonical(code))

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: lookup failed: %v", ErrStorage, err)
	}
	return record, nil
}

// SearchByCountry returns the active records for a country, ordered by
// institution name.
func (r *SQLBICRegistry) SearchByCountry(ctx context.Context, countryCode string) ([]models.BICRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE country_code = ? AND status = 'A' ORDER BY institution_name ASC", registryColumns, r.table)
	rows, err := r.db.QueryContext(ctx, query, bic.Canonical(countryCode))
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %v", ErrStorage, err)
	}
	defer rows.Close()

	var records []models.BICRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan failed: %v", ErrStorage, err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows failed: %v", ErrStorage, err)
	}

	return records, nil
}

func scanRecord(scanner interface {
	Scan(dest ...any) error
}) (*models.BICRecord, error) {
	var (
		record       models.BICRecord
		bicType      string
		status       string
		registered   string
		updated      string
		services     sql.NullString
		branch       sql.NullString
		connectivity sql.NullString
	)

	err := scanner.Scan(
		&record.BICCode,
		&record.InstitutionName,
		&record.InstitutionCode,
		&record.CountryCode,
		&record.LocationCode,
		&branch,
		&bicType,
		&status,
		&registered,
		&updated,
		&services,
		&connectivity,
	)
	if err != nil {
		return nil, err
	}

	record.BranchCode = branch.String
	record.BICType = models.BICType(bicType)
	record.Status = models.BICStatus(status)
	record.ConnectivityStatus = connectivity.String

	if record.RegistrationDate, err = time.Parse(time.RFC3339, registered); err != nil {
		return nil, fmt.Errorf("parse registration_date: %w", err)
	}
	if record.LastUpdated, err = time.Parse(time.RFC3339, updated); err != nil {
		return nil, fmt.Errorf("parse last_updated: %w", err)
	}

	if services.Valid && services.String != "" {
		if err := json.Unmarshal([]byte(services.String), &record.Services); err != nil {
			return nil, fmt.Errorf("decode services: %w", err)
		}
	}

	return &record, nil
}
