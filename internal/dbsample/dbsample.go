// Package dbsample pulls sample values from a live database so generated
// payload builders can start from data the target system already accepts.
package dbsample

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // for sqlserver
	_ "github.com/go-sql-driver/mysql"   // for mysql
	_ "github.com/lib/pq"                // for postgres

	"github.com/google/uuid"

	"api-scaffolder/internal/classifier"
	"api-scaffolder/internal/logger"
	"api-scaffolder/internal/types"
)

// DBConfig holds database connection configuration
type DBConfig struct {
	Type     string
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// Sampler reads column samples from the target database
type Sampler struct {
	config DBConfig
	db     *sql.DB
	logger *logger.Logger
}

// NewSampler creates a new sampler. Connect must be called before sampling.
func NewSampler(config DBConfig, logger *logger.Logger) *Sampler {
	return &Sampler{config: config, logger: logger}
}

// Connect establishes the database connection
func (s *Sampler) Connect() error {
	var dsn string
	switch s.config.Type {
	case "postgres":
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			s.config.Host, s.config.Port, s.config.User, s.config.Password, s.config.Database)
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			s.config.User, s.config.Password, s.config.Host, s.config.Port, s.config.Database)
	case "sqlserver":
		dsn = fmt.Sprintf("server=%s;port=%d;user id=%s;password=%s;database=%s",
			s.config.Host, s.config.Port, s.config.User, s.config.Password, s.config.Database)
	default:
		return fmt.Errorf("unsupported database type: %s", s.config.Type)
	}

	db, err := sql.Open(s.config.Type, dsn)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}
	s.db = db
	return nil
}

// Close closes the database connection
func (s *Sampler) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CollectSeeds samples one row per service whose name matches a table and
// maps its columns onto the request body fields of the service's endpoints.
// Identifier fields with no matching column get a random fallback; other
// unmatched fields keep their faker expressions.
func (s *Sampler) CollectSeeds(services []*classifier.Service) map[string]map[string]interface{} {
	seeds := make(map[string]map[string]interface{})
	for _, svc := range services {
		row, err := s.sampleRow(svc.Name)
		if err != nil {
			s.logger.Printf("no database sample for service %s: %v", svc.Name, err)
			continue
		}
		for _, ep := range svc.Endpoints {
			if ep.RequestBody == nil || ep.RequestBody.Schema == nil {
				continue
			}
			values := seedValues(row, ep.RequestBody.Schema)
			if len(values) > 0 {
				seeds[ep.Key] = values
			}
		}
	}
	return seeds
}

// seedValues maps sampled row columns onto request body properties
func seedValues(row map[string]interface{}, schema *types.SchemaNode) map[string]interface{} {
	values := map[string]interface{}{}
	for _, prop := range schema.Properties {
		if v, ok := lookupColumn(row, prop.Name); ok && v != nil {
			values[prop.Name] = normalizeValue(v)
		} else if prop.Schema != nil && prop.Schema.Format == "uuid" {
			values[prop.Name] = RandomID(prop.Schema.Format)
		}
	}
	return values
}

// sampleRow reads a single row from the table named after the service
func (s *Sampler) sampleRow(table string) (map[string]interface{}, error) {
	if !s.tableExists(table) {
		return nil, fmt.Errorf("table %s does not exist", table)
	}

	rows, err := s.db.Query(fmt.Sprintf("SELECT * FROM %s LIMIT 1", table))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %v", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if !rows.Next() {
		return nil, fmt.Errorf("table %s is empty", table)
	}

	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]interface{}, len(cols))
	for i, col := range cols {
		row[col] = values[i]
	}
	return row, nil
}

func (s *Sampler) tableExists(table string) bool {
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE LOWER(table_name) = LOWER($1)
		)
	`
	if s.config.Type != "postgres" {
		query = "SELECT COUNT(*) > 0 FROM information_schema.tables WHERE LOWER(table_name) = LOWER(?)"
	}
	var exists bool
	if err := s.db.QueryRow(query, table).Scan(&exists); err != nil {
		return false
	}
	return exists
}

// lookupColumn matches a schema property name against row columns, trying
// the exact name first and then its snake_case form
func lookupColumn(row map[string]interface{}, field string) (interface{}, bool) {
	if v, ok := row[field]; ok {
		return v, true
	}
	if v, ok := row[camelToSnake(field)]; ok {
		return v, true
	}
	for col, v := range row {
		if strings.EqualFold(col, field) {
			return v, true
		}
	}
	return nil, false
}

// normalizeValue converts driver-specific scan types into JSON-friendly values
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return v
	}
}

// RandomID produces a fallback identifier when no sampled value is available
func RandomID(format string) interface{} {
	if format == "uuid" {
		return uuid.New().String()
	}
	return rand.Intn(1000) + 1
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
