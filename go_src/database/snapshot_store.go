package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrSnapshotNotFound is returned by Latest when an account has no history.
var ErrSnapshotNotFound = errors.New("no balance snapshot found")

// SnapshotStore handles operations for the balance_snapshots table.
type SnapshotStore struct {
	tdb *TradingDB
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(tdb *TradingDB) *SnapshotStore {
	return &SnapshotStore{tdb: tdb}
}

// CreateSchema creates the balance_snapshots table.
func (s *SnapshotStore) CreateSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS balance_snapshots (
		id VARCHAR PRIMARY KEY,
		account_id VARCHAR NOT NULL,
		account_type VARCHAR,
		total_equity DECIMAL(18,4),
		total_cash DECIMAL(18,4),
		cash_available DECIMAL(18,4),
		market_value DECIMAL(18,4),
		open_pl DECIMAL(18,4),
		close_pl DECIMAL(18,4),
		pending_orders_count BIGINT,
		taken_at TIMESTAMP NOT NULL
	);`
	if _, err := s.tdb.DB().Exec(schema); err != nil {
		return fmt.Errorf("failed to create balance_snapshots schema: %w", err)
	}
	return nil
}

// Save inserts snap. A missing ID is generated and a zero TakenAt is set to
// now; both are written back into snap.
func (s *SnapshotStore) Save(snap *BalanceSnapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if snap.AccountID == "" {
		return fmt.Errorf("snapshot account ID is required")
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now().UTC()
	}

	// Decimals bind as strings; the casts keep them exact.
	query := `
	INSERT INTO balance_snapshots (
		id, account_id, account_type, total_equity, total_cash, cash_available,
		market_value, open_pl, close_pl, pending_orders_count, taken_at
	) VALUES (?, ?, ?, CAST(? AS DECIMAL(18,4)), CAST(? AS DECIMAL(18,4)), CAST(? AS DECIMAL(18,4)),
		CAST(? AS DECIMAL(18,4)), CAST(? AS DECIMAL(18,4)), CAST(? AS DECIMAL(18,4)), ?, ?);`

	_, err := s.tdb.DB().Exec(query,
		snap.ID,
		snap.AccountID,
		snap.AccountType,
		snap.TotalEquity.String(),
		snap.TotalCash.String(),
		snap.CashAvailable.String(),
		snap.MarketValue.String(),
		snap.OpenPL.String(),
		snap.ClosePL.String(),
		snap.PendingOrdersCount,
		snap.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert balance snapshot %s: %w", snap.ID, err)
	}
	return nil
}

const selectSnapshotColumns = `
	SELECT id, account_id, account_type,
		CAST(total_equity AS VARCHAR), CAST(total_cash AS VARCHAR), CAST(cash_available AS VARCHAR),
		CAST(market_value AS VARCHAR), CAST(open_pl AS VARCHAR), CAST(close_pl AS VARCHAR),
		pending_orders_count, taken_at
	FROM balance_snapshots`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (*BalanceSnapshot, error) {
	var (
		snap        BalanceSnapshot
		accountType sql.NullString
		money       [6]sql.NullString
		pending     sql.NullInt64
	)
	err := row.Scan(&snap.ID, &snap.AccountID, &accountType,
		&money[0], &money[1], &money[2], &money[3], &money[4], &money[5],
		&pending, &snap.TakenAt)
	if err != nil {
		return nil, err
	}
	snap.AccountType = accountType.String
	snap.PendingOrdersCount = pending.Int64

	targets := []*decimal.Decimal{&snap.TotalEquity, &snap.TotalCash, &snap.CashAvailable, &snap.MarketValue, &snap.OpenPL, &snap.ClosePL}
	for i, target := range targets {
		if !money[i].Valid {
			continue
		}
		d, err := decimal.NewFromString(money[i].String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount '%s': %w", money[i].String, err)
		}
		*target = d
	}
	return &snap, nil
}

// Latest returns the most recent snapshot of accountID, or
// ErrSnapshotNotFound.
func (s *SnapshotStore) Latest(accountID string) (*BalanceSnapshot, error) {
	row := s.tdb.DB().QueryRow(selectSnapshotColumns+` WHERE account_id = ? ORDER BY taken_at DESC LIMIT 1;`, accountID)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", accountID, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot for account %s: %w", accountID, err)
	}
	return snap, nil
}

// List returns up to limit snapshots of accountID, newest first. A limit of
// zero or less returns the whole history.
func (s *SnapshotStore) List(accountID string, limit int) ([]BalanceSnapshot, error) {
	query := selectSnapshotColumns + ` WHERE account_id = ? ORDER BY taken_at DESC`
	args := []interface{}{accountID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.tdb.DB().Query(query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var snapshots []BalanceSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return snapshots, nil
}
