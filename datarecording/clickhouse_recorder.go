package datarecording

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/tebeka/atexit"
)

type clickHouseTableType int

const (
	tableTypeAccess clickHouseTableType = iota
	tableTypeSummary
	tableTypeExecInfo
)

// ClickHouseRecorder records data in a ClickHouse database. It batches the
// entries in type-specific slices, avoiding reflection on the insert path.
//
// The connection parameters come from the environment. CACHESIM_DB_USERNAME
// must be set. CACHESIM_DB_PASSWORD, CACHESIM_DB_IP, CACHESIM_DB_PORT, and
// CACHESIM_DB_NAME are optional.
type ClickHouseRecorder struct {
	conn      clickhouse.Conn
	mu        sync.Mutex
	batchSize int

	accessBatch   []AccessEntry
	summaryBatch  []SummaryEntry
	execInfoBatch []execInfo

	tables     map[string]clickHouseTableType
	entryCount int
}

type clickHouseCredentials struct {
	username  string
	password  string
	ipAddress string
	port      int
	database  string
}

func getClickHouseCredentials() clickHouseCredentials {
	c := clickHouseCredentials{}

	c.username = os.Getenv("CACHESIM_DB_USERNAME")
	if c.username == "" {
		panic(`database username is not set, ` +
			`use environment variable CACHESIM_DB_USERNAME to set it.`)
	}

	c.password = os.Getenv("CACHESIM_DB_PASSWORD")

	c.ipAddress = os.Getenv("CACHESIM_DB_IP")
	if c.ipAddress == "" {
		c.ipAddress = "127.0.0.1"
	}

	portString := os.Getenv("CACHESIM_DB_PORT")
	if portString == "" {
		portString = "9000"
	}
	port, err := strconv.Atoi(portString)
	if err != nil {
		panic(err)
	}
	c.port = port

	c.database = os.Getenv("CACHESIM_DB_NAME")
	if c.database == "" {
		c.database = "default"
	}

	return c
}

// NewClickHouseRecorder creates a recorder connected to the ClickHouse server
// named by the CACHESIM_DB_* environment variables.
func NewClickHouseRecorder() *ClickHouseRecorder {
	credentials := getClickHouseCredentials()

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d",
			credentials.ipAddress, credentials.port)},
		Auth: clickhouse.Auth{
			Database: credentials.database,
			Username: credentials.username,
			Password: credentials.password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     5,
		MaxIdleConns:     5,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
		BlockBufferSize:  10,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect to ClickHouse: %w", err))
	}

	if err := conn.Ping(context.Background()); err != nil {
		panic(fmt.Errorf("failed to ping ClickHouse: %w", err))
	}

	r := &ClickHouseRecorder{
		conn:      conn,
		batchSize: 100000,
		tables:    make(map[string]clickHouseTableType),
	}

	atexit.Register(func() { r.Flush() })

	return r
}

// clickHouseSchema renders the CREATE TABLE statement for a sample entry.
func clickHouseSchema(tableName string, sampleEntry any) (
	string, clickHouseTableType) {
	switch sampleEntry.(type) {
	case AccessEntry:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				Seq UInt64,
				Op String,
				Addr UInt64,
				Size Int64,
				SetID Int64,
				WayID Int64,
				Outcome String,
				VictimAddr UInt64
			) ENGINE = MergeTree()
			ORDER BY Seq
		`, tableName), tableTypeAccess

	case SummaryEntry:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				Hits UInt64,
				Misses UInt64,
				Evictions UInt64
			) ENGINE = MergeTree()
			ORDER BY tuple()
		`, tableName), tableTypeSummary

	case execInfo:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				Property String,
				Value String
			) ENGINE = MergeTree()
			ORDER BY Property
		`, tableName), tableTypeExecInfo

	default:
		panic(fmt.Sprintf("unknown table type: %T", sampleEntry))
	}
}

// CreateTable creates a table for the type of the sample entry. Sample
// entries of types other than AccessEntry, SummaryEntry, and the execution
// log rows are rejected.
func (r *ClickHouseRecorder) CreateTable(tableName string, sampleEntry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	createSQL, tType := clickHouseSchema(tableName, sampleEntry)

	err := r.conn.Exec(context.Background(), createSQL)
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	r.tables[tableName] = tType
}

// InsertData buffers one entry in the batch for its table.
func (r *ClickHouseRecorder) InsertData(tableName string, entry any) {
	r.mu.Lock()

	tType, exists := r.tables[tableName]
	if !exists {
		r.mu.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	switch tType {
	case tableTypeAccess:
		e, ok := entry.(AccessEntry)
		if !ok {
			r.mu.Unlock()
			panic(fmt.Sprintf("invalid entry type for %s: %T",
				tableName, entry))
		}
		r.accessBatch = append(r.accessBatch, e)

	case tableTypeSummary:
		e, ok := entry.(SummaryEntry)
		if !ok {
			r.mu.Unlock()
			panic(fmt.Sprintf("invalid entry type for %s: %T",
				tableName, entry))
		}
		r.summaryBatch = append(r.summaryBatch, e)

	case tableTypeExecInfo:
		e, ok := entry.(execInfo)
		if !ok {
			r.mu.Unlock()
			panic(fmt.Sprintf("invalid entry type for %s: %T",
				tableName, entry))
		}
		r.execInfoBatch = append(r.execInfoBatch, e)
	}

	r.entryCount++

	if r.entryCount >= r.batchSize {
		r.mu.Unlock()
		r.Flush()
		return
	}

	r.mu.Unlock()
}

// ListTables returns the names of all the created tables.
func (r *ClickHouseRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}

	return tables
}

// Flush sends all the batched entries to ClickHouse using bulk inserts.
func (r *ClickHouseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for tableName, tType := range r.tables {
		switch tType {
		case tableTypeAccess:
			if len(r.accessBatch) > 0 {
				r.flushAccesses(ctx, tableName)
			}
		case tableTypeSummary:
			if len(r.summaryBatch) > 0 {
				r.flushSummary(ctx, tableName)
			}
		case tableTypeExecInfo:
			if len(r.execInfoBatch) > 0 {
				r.flushExecInfo(ctx, tableName)
			}
		}
	}

	r.entryCount = 0
}

func (r *ClickHouseRecorder) flushAccesses(
	ctx context.Context,
	tableName string,
) {
	batch, err := r.conn.PrepareBatch(ctx,
		fmt.Sprintf("INSERT INTO %s", tableName))
	if err != nil {
		panic(fmt.Errorf("failed to prepare batch for %s: %w",
			tableName, err))
	}

	for _, entry := range r.accessBatch {
		err = batch.Append(
			entry.Seq,
			entry.Op,
			entry.Addr,
			int64(entry.Size),
			int64(entry.SetID),
			int64(entry.WayID),
			entry.Outcome,
			entry.VictimAddr,
		)
		if err != nil {
			panic(fmt.Errorf("failed to append to batch: %w", err))
		}
	}

	err = batch.Send()
	if err != nil {
		panic(fmt.Errorf("failed to send batch: %w", err))
	}

	r.accessBatch = r.accessBatch[:0]
}

func (r *ClickHouseRecorder) flushSummary(
	ctx context.Context,
	tableName string,
) {
	batch, err := r.conn.PrepareBatch(ctx,
		fmt.Sprintf("INSERT INTO %s", tableName))
	if err != nil {
		panic(fmt.Errorf("failed to prepare batch for %s: %w",
			tableName, err))
	}

	for _, entry := range r.summaryBatch {
		err = batch.Append(entry.Hits, entry.Misses, entry.Evictions)
		if err != nil {
			panic(fmt.Errorf("failed to append to batch: %w", err))
		}
	}

	err = batch.Send()
	if err != nil {
		panic(fmt.Errorf("failed to send batch: %w", err))
	}

	r.summaryBatch = r.summaryBatch[:0]
}

func (r *ClickHouseRecorder) flushExecInfo(
	ctx context.Context,
	tableName string,
) {
	batch, err := r.conn.PrepareBatch(ctx,
		fmt.Sprintf("INSERT INTO %s", tableName))
	if err != nil {
		panic(fmt.Errorf("failed to prepare batch for %s: %w",
			tableName, err))
	}

	for _, entry := range r.execInfoBatch {
		err = batch.Append(entry.Property, entry.Value)
		if err != nil {
			panic(fmt.Errorf("failed to append to batch: %w", err))
		}
	}

	err = batch.Send()
	if err != nil {
		panic(fmt.Errorf("failed to send batch: %w", err))
	}

	r.execInfoBatch = r.execInfoBatch[:0]
}

// Close flushes the remaining entries and closes the connection.
func (r *ClickHouseRecorder) Close() error {
	r.Flush()

	err := r.conn.Close()
	if err != nil {
		return fmt.Errorf("failed to close ClickHouse connection: %w", err)
	}

	return nil
}
