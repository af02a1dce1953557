package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/haguru/tracker/config"
	"github.com/haguru/tracker/internal/interfaces"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/lib/pq" // PostgreSQL driver for database/sql
	"github.com/pressly/goose/v3"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections to the database.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 30 * time.Second

	driverName        = "postgres"
	uniqueViolation   = "23505"
	IDCOLUMN          = "id"
	migrationsBaseDir = "."
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

type txKey struct{}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// PostgresDatabaseClient implements the DBClient interface for PostgreSQL databases.
type PostgresDatabaseClient struct {
	db              *sql.DB
	MaxOpenConns    int           // MaxOpenConns is the maximum number of open connections to the database
	MaxIdleConns    int           // MaxIdleConns is the maximum number of idle connections to the database
	ConnMaxLifetime time.Duration // ConnMaxLifetime is the maximum amount of time a connection may be reused
	logger          interfaces.Logger
}

func NewPostgresDatabaseClient(cfg *config.PostgresConfig, logger interfaces.Logger) interfaces.DBClient {
	client := &PostgresDatabaseClient{
		MaxOpenConns:    DefaultMaxOpenConns,
		MaxIdleConns:    DefaultMaxIdleConns,
		ConnMaxLifetime: DefaultConnMaxLifetime,
		logger:          logger,
	}
	if cfg != nil {
		if cfg.Options.MaxOpenConns > 0 {
			client.MaxOpenConns = cfg.Options.MaxOpenConns
		}
		if cfg.Options.MaxIdleConns > 0 {
			client.MaxIdleConns = cfg.Options.MaxIdleConns
		}
		if cfg.Options.ConnMaxLifetime > 0 {
			client.ConnMaxLifetime = cfg.Options.ConnMaxLifetime
		}
	}
	return client
}

// Connect establishes a connection to a PostgreSQL database.
func (p *PostgresDatabaseClient) Connect(ctx context.Context, dsn string) error {
	var err error
	p.db, err = sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	p.db.SetMaxOpenConns(p.MaxOpenConns)
	p.db.SetMaxIdleConns(p.MaxIdleConns)
	p.db.SetConnMaxLifetime(p.ConnMaxLifetime)

	p.logger.Info("PostgresDatabaseClient: Connecting")
	return p.Ping(ctx)
}

// Disconnect closes the PostgreSQL database connection.
func (p *PostgresDatabaseClient) Disconnect(ctx context.Context) error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// InsertOne inserts a single document into a PostgreSQL table.
// 'document' is expected to be a map[string]interface{}.
// It dynamically builds the INSERT query and generates a UUID id when absent.
func (p *PostgresDatabaseClient) InsertOne(ctx context.Context, tableName string, document interfaces.Document) (interface{}, error) {
	conn, err := p.conn(ctx)
	if err != nil {
		return nil, err
	}

	docMap, ok := document.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("PostgreSQL InsertOne expects document to be map[string]interface{}")
	}

	// Generate UUID for 'id' if not present in the document
	if _, exists := docMap[IDCOLUMN]; !exists {
		docMap[IDCOLUMN] = uuid.New().String()
	}

	columns, values, err := sortedColumns(docMap)
	if err != nil {
		return nil, err
	}
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	// table and column names are checked against identifierPattern
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	) // #nosec G201

	var insertedID string
	err = conn.QueryRowContext(ctx, query, values...).Scan(&insertedID)
	if err != nil {
		return nil, translateError(tableName, err)
	}
	return insertedID, nil
}

// FindOne retrieves a single row from a PostgreSQL table.
// 'filter' is expected to be a map[string]interface{} for WHERE clause.
// 'result' is a pointer to a struct; its `db` tagged fields select the columns.
func (p *PostgresDatabaseClient) FindOne(ctx context.Context, tableName string, filter interfaces.Document, result interfaces.Document) error {
	conn, err := p.conn(ctx)
	if err != nil {
		return err
	}

	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return fmt.Errorf("PostgreSQL FindOne expects filter to be map[string]interface{}")
	}
	if len(filterMap) == 0 {
		return fmt.Errorf("PostgreSQL FindOne requires a non-empty filter")
	}

	whereString, whereValues, err := buildWhere(filterMap, 1)
	if err != nil {
		return err
	}

	columns, fieldPointers, err := structColumns(result)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		strings.Join(columns, ", "),
		tableName,
		whereString,
	) // #nosec G201

	err = conn.QueryRowContext(ctx, query, whereValues...).Scan(fieldPointers...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("PostgreSQL: %w in %s", interfaces.ErrNoDocuments, tableName)
	}
	return err
}

// FindMany retrieves multiple rows from a PostgreSQL table and decodes them
// into results (a pointer to a slice) with mapstructure.
// An empty filter selects every row.
func (p *PostgresDatabaseClient) FindMany(ctx context.Context, tableName string, filter interfaces.Document, results interfaces.Document) error {
	conn, err := p.conn(ctx)
	if err != nil {
		return err
	}

	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return fmt.Errorf("PostgreSQL FindMany expects filter to be map[string]interface{}")
	}

	whereString := ""
	var whereValues []interface{}
	if len(filterMap) > 0 {
		var clause string
		clause, whereValues, err = buildWhere(filterMap, 1)
		if err != nil {
			return err
		}
		whereString = " WHERE " + clause
	}

	query := fmt.Sprintf("SELECT * FROM %s%s", tableName, whereString) // #nosec G201

	rows, err := conn.QueryContext(ctx, query, whereValues...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			p.logger.Warn("failed to close rows", "error", cerr)
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	rowMaps := make([]map[string]interface{}, 0)
	for rows.Next() {
		columnPointers := make([]interface{}, len(columns))
		columnValues := make([]interface{}, len(columns))
		for i := range columns {
			columnPointers[i] = &columnValues[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return err
		}

		rowMap := make(map[string]interface{}, len(columns))
		for i, colName := range columns {
			val := columnValues[i]
			if b, ok := val.([]byte); ok { // Handle byte slices for string-like types
				rowMap[colName] = string(b)
			} else {
				rowMap[colName] = val
			}
		}
		rowMaps = append(rowMaps, rowMap)
	}

	if err = rows.Err(); err != nil {
		return err
	}

	return decodeRows(rowMaps, results)
}

// UpdateOne updates rows in a PostgreSQL table.
// 'filter' and 'update' are expected to be map[string]interface{}.
// Returns the number of matched rows.
func (p *PostgresDatabaseClient) UpdateOne(ctx context.Context, tableName string, filter interfaces.Document, update interfaces.Document) (int64, error) {
	conn, err := p.conn(ctx)
	if err != nil {
		return 0, err
	}

	query, values, err := buildUpdate(tableName, filter, update, "")
	if err != nil {
		return 0, err
	}

	res, err := conn.ExecContext(ctx, query, values...)
	if err != nil {
		return 0, translateError(tableName, err)
	}
	return res.RowsAffected()
}

// FindOneAndUpdate updates the matching row and scans the updated row into result.
func (p *PostgresDatabaseClient) FindOneAndUpdate(ctx context.Context, tableName string, filter interfaces.Document, update interfaces.Document, result interfaces.Document) error {
	conn, err := p.conn(ctx)
	if err != nil {
		return err
	}

	columns, fieldPointers, err := structColumns(result)
	if err != nil {
		return err
	}

	query, values, err := buildUpdate(tableName, filter, update, strings.Join(columns, ", "))
	if err != nil {
		return err
	}

	err = conn.QueryRowContext(ctx, query, values...).Scan(fieldPointers...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("PostgreSQL: %w in %s", interfaces.ErrNoDocuments, tableName)
	}
	if err != nil {
		return translateError(tableName, err)
	}
	return nil
}

// DeleteOne deletes the rows matching filter from a PostgreSQL table.
// 'filter' is expected to be a non-empty map[string]interface{}.
func (p *PostgresDatabaseClient) DeleteOne(ctx context.Context, tableName string, filter interfaces.Document) (int64, error) {
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("PostgreSQL DeleteOne expects filter to be map[string]interface{}")
	}
	if len(filterMap) == 0 {
		return 0, fmt.Errorf("PostgreSQL DeleteOne requires a non-empty filter")
	}
	return p.DeleteMany(ctx, tableName, filterMap)
}

// DeleteMany deletes multiple rows from a PostgreSQL table.
// 'filter' is expected to be a map[string]interface{}.
func (p *PostgresDatabaseClient) DeleteMany(ctx context.Context, tableName string, filter interfaces.Document) (int64, error) {
	conn, err := p.conn(ctx)
	if err != nil {
		return 0, err
	}

	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("PostgreSQL DeleteMany expects filter to be map[string]interface{}")
	}

	whereString := ""
	var whereValues []interface{}
	if len(filterMap) > 0 {
		var clause string
		clause, whereValues, err = buildWhere(filterMap, 1)
		if err != nil {
			return 0, err
		}
		whereString = " WHERE " + clause
	}

	query := fmt.Sprintf("DELETE FROM %s%s", tableName, whereString) // #nosec G201

	res, err := conn.ExecContext(ctx, query, whereValues...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// WithTransaction runs fn inside a database transaction carried by the context.
func (p *PostgresDatabaseClient) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			p.logger.Error("failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	return tx.Commit()
}

// Ping checks the health of the PostgreSQL connection.
func (p *PostgresDatabaseClient) Ping(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	return p.db.PingContext(ctx)
}

// EnsureSchema applies schema to the database. schema is either a DDL
// statement string or an fs.FS of goose migrations.
func (p *PostgresDatabaseClient) EnsureSchema(ctx context.Context, tableName string, schema interfaces.Document) error {
	// check if p.db is nil
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}

	switch s := schema.(type) {
	case string:
		_, err := p.db.ExecContext(ctx, s)
		return err
	case fs.FS:
		goose.SetBaseFS(s)
		if err := goose.SetDialect(driverName); err != nil {
			return fmt.Errorf("failed to set migration dialect: %w", err)
		}
		p.logger.Info("PostgresDatabaseClient: Running migrations", "table", tableName)
		return gooseUpContext(ctx, p.db, migrationsBaseDir)
	default:
		return fmt.Errorf("EnsureSchema expects a CREATE statement string or migrations fs.FS, got %T", schema)
	}
}

// conn returns the transaction stored in ctx, or the pool.
func (p *PostgresDatabaseClient) conn(ctx context.Context) (dbtx, error) {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx, nil
	}
	if p.db == nil {
		return nil, fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	return p.db, nil
}

// buildUpdate builds an UPDATE statement; a non-empty returning list adds a RETURNING clause.
func buildUpdate(tableName string, filter, update interfaces.Document, returning string) (string, []interface{}, error) {
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return "", nil, fmt.Errorf("PostgreSQL update expects filter to be map[string]interface{}")
	}
	updateMap, ok := update.(map[string]interface{})
	if !ok {
		return "", nil, fmt.Errorf("PostgreSQL update expects update to be map[string]interface{}")
	}
	if len(filterMap) == 0 || len(updateMap) == 0 {
		return "", nil, fmt.Errorf("PostgreSQL update requires a non-empty filter and update")
	}

	columns, values, err := sortedColumns(updateMap)
	if err != nil {
		return "", nil, err
	}
	setClauses := make([]string, len(columns))
	for i, col := range columns {
		setClauses[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}

	whereString, whereValues, err := buildWhere(filterMap, len(values)+1)
	if err != nil {
		return "", nil, err
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		tableName,
		strings.Join(setClauses, ", "),
		whereString,
	) // #nosec G201
	if returning != "" {
		query += " RETURNING " + returning
	}

	return query, append(values, whereValues...), nil
}

// buildWhere joins equality conditions with AND, numbering placeholders from start.
func buildWhere(filter map[string]interface{}, start int) (string, []interface{}, error) {
	columns, values, err := sortedColumns(filter)
	if err != nil {
		return "", nil, err
	}

	clauses := make([]string, len(columns))
	for i, col := range columns {
		clauses[i] = fmt.Sprintf("%s = $%d", col, start+i)
	}
	return strings.Join(clauses, " AND "), values, nil
}

// sortedColumns returns the map keys in a stable order with their values.
func sortedColumns(doc map[string]interface{}) ([]string, []interface{}, error) {
	columns := make([]string, 0, len(doc))
	for col := range doc {
		if !identifierPattern.MatchString(col) {
			return nil, nil, fmt.Errorf("invalid column name: %q", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	values := make([]interface{}, len(columns))
	for i, col := range columns {
		values[i] = doc[col]
	}
	return columns, values, nil
}

// structColumns returns the `db` tagged columns of the struct result points to
// and pointers to the matching fields for Scan.
func structColumns(result interfaces.Document) ([]string, []interface{}, error) {
	resultValue := reflect.ValueOf(result)
	if resultValue.Kind() != reflect.Ptr || resultValue.Elem().Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("result must be a pointer to a struct")
	}
	elem := resultValue.Elem()
	elemType := elem.Type()

	columns := make([]string, 0, elemType.NumField())
	fieldPointers := make([]interface{}, 0, elemType.NumField())
	for i := 0; i < elemType.NumField(); i++ {
		field := elemType.Field(i)
		column := field.Tag.Get("db")
		if !field.IsExported() || column == "" || column == "-" {
			continue
		}
		columns = append(columns, column)
		fieldPointers = append(fieldPointers, elem.Field(i).Addr().Interface())
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("result %s has no db tagged fields", elemType.Name())
	}
	return columns, fieldPointers, nil
}

func decodeRows(rows []map[string]interface{}, results interfaces.Document) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           results,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create row decoder: %w", err)
	}
	if err := decoder.Decode(rows); err != nil {
		return fmt.Errorf("failed to decode rows: %w", err)
	}
	return nil
}

func translateError(tableName string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("PostgreSQL: %w in %s: %v", interfaces.ErrDuplicateKey, tableName, err)
	}
	return err
}
