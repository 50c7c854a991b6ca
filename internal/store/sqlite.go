package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bahi-dev/bahi/internal/model"
)

// SQLiteStore implements Store over a local SQLite database. Decimal values
// are stored as TEXT so no precision is lost.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database and ensures the schema.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS counterparties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS instruments (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		counterparty_id TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		principal TEXT NOT NULL,
		fees TEXT NOT NULL DEFAULT '0',
		interest_rate TEXT NOT NULL DEFAULT '0',
		interest_mode TEXT NOT NULL,
		origin_date DATETIME NOT NULL,
		due_date DATETIME,
		active INTEGER NOT NULL DEFAULT 1,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY(counterparty_id) REFERENCES counterparties(id)
	);
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		instrument_id TEXT NOT NULL,
		voucher TEXT NOT NULL,
		amount TEXT NOT NULL,
		kind TEXT NOT NULL,
		payment_date DATETIME NOT NULL,
		mode TEXT NOT NULL DEFAULT 'cash',
		note TEXT NOT NULL DEFAULT '',
		confirmed INTEGER NOT NULL DEFAULT 0,
		confirmed_at DATETIME,
		confirmed_by TEXT NOT NULL DEFAULT '',
		seq INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(instrument_id) REFERENCES instruments(id)
	);
	CREATE TABLE IF NOT EXISTS firm_accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		opening TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS firm_transactions (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		amount TEXT NOT NULL,
		effective_date DATETIME NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		reference TEXT NOT NULL DEFAULT '',
		seq INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(account_id) REFERENCES firm_accounts(id)
	);
	CREATE TABLE IF NOT EXISTS advance_entries (
		id TEXT PRIMARY KEY,
		counterparty_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		amount TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		effective_date DATETIME NOT NULL,
		seq INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(counterparty_id) REFERENCES counterparties(id)
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_instrument ON transactions(instrument_id);
	CREATE INDEX IF NOT EXISTS idx_firm_transactions_account ON firm_transactions(account_id);
	CREATE INDEX IF NOT EXISTS idx_advance_entries_counterparty ON advance_entries(counterparty_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func parseDec(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// --- counterparties ---

func (s *SQLiteStore) CreateCounterparty(cp *model.Counterparty) error {
	_, err := s.db.Exec(
		`INSERT INTO counterparties (id, name, phone, created_at) VALUES (?, ?, ?, ?)`,
		cp.ID.String(), cp.Name, cp.Phone, cp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating counterparty: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetCounterparty(id uuid.UUID) (*model.Counterparty, error) {
	return s.scanCounterparty(s.db.QueryRow(
		`SELECT id, name, phone, created_at FROM counterparties WHERE id = ?`, id.String()))
}

func (s *SQLiteStore) GetCounterpartyByName(name string) (*model.Counterparty, error) {
	return s.scanCounterparty(s.db.QueryRow(
		`SELECT id, name, phone, created_at FROM counterparties WHERE name = ?`, name))
}

func (s *SQLiteStore) scanCounterparty(row *sql.Row) (*model.Counterparty, error) {
	var cp model.Counterparty
	var idStr string
	err := row.Scan(&idStr, &cp.Name, &cp.Phone, &cp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCounterpartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning counterparty: %w", err)
	}
	cp.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing counterparty id: %w", err)
	}
	return &cp, nil
}

func (s *SQLiteStore) ListCounterparties() ([]*model.Counterparty, error) {
	rows, err := s.db.Query(`SELECT id, name, phone, created_at FROM counterparties ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing counterparties: %w", err)
	}
	defer rows.Close()

	var out []*model.Counterparty
	for rows.Next() {
		var cp model.Counterparty
		var idStr string
		if err := rows.Scan(&idStr, &cp.Name, &cp.Phone, &cp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning counterparty: %w", err)
		}
		cp.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parsing counterparty id: %w", err)
		}
		out = append(out, &cp)
	}
	return out, rows.Err()
}

// --- instruments ---

func (s *SQLiteStore) CreateInstrument(inst *model.Instrument) error {
	var due interface{}
	if inst.DueDate != nil {
		due = *inst.DueDate
	}
	_, err := s.db.Exec(
		`INSERT INTO instruments (id, category, counterparty_id, label, principal, fees,
			interest_rate, interest_mode, origin_date, due_date, active, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inst.ID.String(), string(inst.Category), inst.CounterpartyID.String(), inst.Label,
		inst.Principal.String(), inst.Fees.String(), inst.InterestRate.String(),
		string(inst.InterestMode), inst.OriginDate, due, inst.Active, inst.Version,
		inst.CreatedAt, inst.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating instrument: %w", err)
	}
	return nil
}

const instrumentCols = `id, category, counterparty_id, label, principal, fees,
	interest_rate, interest_mode, origin_date, due_date, active, version, created_at, updated_at`

func (s *SQLiteStore) GetInstrument(id uuid.UUID) (*model.Instrument, error) {
	rows, err := s.db.Query(
		`SELECT `+instrumentCols+` FROM instruments WHERE id = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("getting instrument: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, model.ErrInstrumentNotFound
	}
	return scanInstrument(rows)
}

func (s *SQLiteStore) ListInstruments(activeOnly bool) ([]*model.Instrument, error) {
	q := `SELECT ` + instrumentCols + ` FROM instruments ORDER BY origin_date, created_at`
	if activeOnly {
		q = `SELECT ` + instrumentCols + ` FROM instruments WHERE active = 1 ORDER BY origin_date, created_at`
	}
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("listing instruments: %w", err)
	}
	defer rows.Close()

	var out []*model.Instrument
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

func scanInstrument(rows *sql.Rows) (*model.Instrument, error) {
	var inst model.Instrument
	var idStr, cpStr, category, mode, principal, fees, rate string
	var due sql.NullTime

	err := rows.Scan(&idStr, &category, &cpStr, &inst.Label, &principal, &fees,
		&rate, &mode, &inst.OriginDate, &due, &inst.Active, &inst.Version,
		&inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning instrument: %w", err)
	}

	if inst.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parsing instrument id: %w", err)
	}
	if inst.CounterpartyID, err = uuid.Parse(cpStr); err != nil {
		return nil, fmt.Errorf("parsing counterparty id: %w", err)
	}
	inst.Category = model.Category(category)
	inst.InterestMode = model.InterestMode(mode)
	if inst.Principal, err = parseDec(principal); err != nil {
		return nil, fmt.Errorf("parsing principal: %w", err)
	}
	if inst.Fees, err = parseDec(fees); err != nil {
		return nil, fmt.Errorf("parsing fees: %w", err)
	}
	if inst.InterestRate, err = parseDec(rate); err != nil {
		return nil, fmt.Errorf("parsing interest rate: %w", err)
	}
	if due.Valid {
		d := due.Time
		inst.DueDate = &d
	}
	return &inst, nil
}

func (s *SQLiteStore) UpdateInstrument(inst *model.Instrument) error {
	var due interface{}
	if inst.DueDate != nil {
		due = *inst.DueDate
	}
	res, err := s.db.Exec(
		`UPDATE instruments SET label = ?, principal = ?, fees = ?, interest_rate = ?,
			interest_mode = ?, origin_date = ?, due_date = ?, active = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		inst.Label, inst.Principal.String(), inst.Fees.String(), inst.InterestRate.String(),
		string(inst.InterestMode), inst.OriginDate, due, inst.Active,
		time.Now().UTC(), inst.ID.String(), inst.Version,
	)
	if err != nil {
		return fmt.Errorf("updating instrument: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating instrument: %w", err)
	}
	if n == 0 {
		return model.ErrConcurrentModification
	}
	inst.Version++
	return nil
}

// --- instrument transactions ---

func (s *SQLiteStore) FetchTransactions(instrumentID uuid.UUID) ([]model.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT id, instrument_id, voucher, amount, kind, payment_date, mode, note,
			confirmed, confirmed_at, confirmed_by, seq, created_at
		FROM transactions WHERE instrument_id = ?
		ORDER BY payment_date, seq`, instrumentID.String())
	if err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetTransaction(id uuid.UUID) (*model.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT id, instrument_id, voucher, amount, kind, payment_date, mode, note,
			confirmed, confirmed_at, confirmed_by, seq, created_at
		FROM transactions WHERE id = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, model.ErrTransactionNotFound
	}
	txn, err := scanTransaction(rows)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var txn model.Transaction
	var idStr, instStr, amount, kind, mode string
	var confirmedAt sql.NullTime

	err := rows.Scan(&idStr, &instStr, &txn.Voucher, &amount, &kind, &txn.PaymentDate,
		&mode, &txn.Note, &txn.Confirmed, &confirmedAt, &txn.ConfirmedBy, &txn.Seq, &txn.CreatedAt)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("scanning transaction: %w", err)
	}

	if txn.ID, err = uuid.Parse(idStr); err != nil {
		return model.Transaction{}, fmt.Errorf("parsing transaction id: %w", err)
	}
	if txn.InstrumentID, err = uuid.Parse(instStr); err != nil {
		return model.Transaction{}, fmt.Errorf("parsing instrument id: %w", err)
	}
	if txn.Amount, err = parseDec(amount); err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount: %w", err)
	}
	txn.Kind = model.TxnKind(kind)
	txn.Mode = model.PaymentMode(mode)
	if confirmedAt.Valid {
		at := confirmedAt.Time
		txn.ConfirmedAt = &at
	}
	return txn, nil
}

// AppendPayment commits one allocation atomically: the version check, row
// removals, row inserts, the optional advance credit, and the active-flag
// flip all happen in a single SQL transaction.
func (s *SQLiteStore) AppendPayment(w PaymentWrite) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning payment transaction: %w", err)
	}
	defer tx.Rollback()

	// Optimistic version check: bump or bail.
	setActive := ""
	args := []interface{}{time.Now().UTC()}
	if w.ActiveAfter != nil {
		setActive = ", active = ?"
		args = append(args, *w.ActiveAfter)
	}
	args = append(args, w.InstrumentID.String(), w.Version)
	res, err := tx.Exec(
		`UPDATE instruments SET version = version + 1, updated_at = ?`+setActive+
			` WHERE id = ? AND version = ?`, args...)
	if err != nil {
		return fmt.Errorf("bumping instrument version: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("bumping instrument version: %w", err)
	}
	if n == 0 {
		return model.ErrConcurrentModification
	}

	for _, id := range w.Remove {
		res, err := tx.Exec(
			`DELETE FROM transactions WHERE id = ? AND confirmed = 0`, id.String())
		if err != nil {
			return fmt.Errorf("removing transaction: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("removing transaction: %w", err)
		}
		if n == 0 {
			return model.ErrTransactionLocked
		}
	}

	for _, txn := range w.Append {
		var confirmedAt interface{}
		if txn.ConfirmedAt != nil {
			confirmedAt = *txn.ConfirmedAt
		}
		_, err := tx.Exec(
			`INSERT INTO transactions (id, instrument_id, voucher, amount, kind, payment_date,
				mode, note, confirmed, confirmed_at, confirmed_by, seq, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
				(SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions WHERE instrument_id = ?), ?)`,
			txn.ID.String(), txn.InstrumentID.String(), txn.Voucher, txn.Amount.String(),
			string(txn.Kind), txn.PaymentDate, string(txn.Mode), txn.Note,
			txn.Confirmed, confirmedAt, txn.ConfirmedBy, txn.InstrumentID.String(), txn.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("appending transaction: %w", err)
		}
	}

	if w.Advance != nil {
		if err := insertAdvance(tx, *w.Advance); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing payment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateConfirmation(id uuid.UUID, confirmed bool, actorID string, at time.Time) error {
	var res sql.Result
	var err error
	if confirmed {
		res, err = s.db.Exec(
			`UPDATE transactions SET confirmed = 1, confirmed_at = ?, confirmed_by = ?
			WHERE id = ? AND confirmed = 0`, at, actorID, id.String())
	} else {
		res, err = s.db.Exec(
			`UPDATE transactions SET confirmed = 0, confirmed_at = NULL, confirmed_by = ''
			WHERE id = ? AND confirmed = 1`, id.String())
	}
	if err != nil {
		return fmt.Errorf("updating confirmation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating confirmation: %w", err)
	}
	if n == 0 {
		// Either no such row, or it is already in the requested state.
		if _, err := s.GetTransaction(id); err != nil {
			return err
		}
	}
	return nil
}

// --- firm accounts ---

func (s *SQLiteStore) CreateFirmAccount(acct *model.FirmAccount) error {
	_, err := s.db.Exec(
		`INSERT INTO firm_accounts (id, name, type, opening, created_at) VALUES (?, ?, ?, ?, ?)`,
		acct.ID.String(), acct.Name, acct.Type, acct.Opening.String(), acct.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating firm account: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetFirmAccount(id uuid.UUID) (*model.FirmAccount, error) {
	return s.scanFirmAccount(s.db.QueryRow(
		`SELECT id, name, type, opening, created_at FROM firm_accounts WHERE id = ?`, id.String()))
}

func (s *SQLiteStore) GetFirmAccountByName(name string) (*model.FirmAccount, error) {
	return s.scanFirmAccount(s.db.QueryRow(
		`SELECT id, name, type, opening, created_at FROM firm_accounts WHERE name = ?`, name))
}

func (s *SQLiteStore) scanFirmAccount(row *sql.Row) (*model.FirmAccount, error) {
	var acct model.FirmAccount
	var idStr, opening string
	err := row.Scan(&idStr, &acct.Name, &acct.Type, &opening, &acct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning firm account: %w", err)
	}
	if acct.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parsing firm account id: %w", err)
	}
	if acct.Opening, err = parseDec(opening); err != nil {
		return nil, fmt.Errorf("parsing opening balance: %w", err)
	}
	return &acct, nil
}

func (s *SQLiteStore) ListFirmAccounts() ([]*model.FirmAccount, error) {
	rows, err := s.db.Query(`SELECT id, name, type, opening, created_at FROM firm_accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing firm accounts: %w", err)
	}
	defer rows.Close()

	var out []*model.FirmAccount
	for rows.Next() {
		var acct model.FirmAccount
		var idStr, opening string
		if err := rows.Scan(&idStr, &acct.Name, &acct.Type, &opening, &acct.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning firm account: %w", err)
		}
		if acct.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parsing firm account id: %w", err)
		}
		if acct.Opening, err = parseDec(opening); err != nil {
			return nil, fmt.Errorf("parsing opening balance: %w", err)
		}
		out = append(out, &acct)
	}
	return out, rows.Err()
}

// AppendFirmTransactions appends rows atomically; the firm ledger is
// append-only, there is no update or delete path.
func (s *SQLiteStore) AppendFirmTransactions(txns []model.FirmTransaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning firm append: %w", err)
	}
	defer tx.Rollback()

	for _, txn := range txns {
		_, err := tx.Exec(
			`INSERT INTO firm_transactions (id, account_id, kind, amount, effective_date,
				description, reference, seq, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?,
				(SELECT COALESCE(MAX(seq), 0) + 1 FROM firm_transactions WHERE account_id = ?), ?)`,
			txn.ID.String(), txn.AccountID.String(), string(txn.Kind), txn.Amount.String(),
			txn.EffectiveDate, txn.Description, txn.Reference, txn.AccountID.String(), txn.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("appending firm transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing firm append: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FetchFirmTransactions(accountID uuid.UUID) ([]model.FirmTransaction, error) {
	rows, err := s.db.Query(
		`SELECT id, account_id, kind, amount, effective_date, description, reference, seq, created_at
		FROM firm_transactions WHERE account_id = ?
		ORDER BY effective_date, seq`, accountID.String())
	if err != nil {
		return nil, fmt.Errorf("fetching firm transactions: %w", err)
	}
	defer rows.Close()

	var out []model.FirmTransaction
	for rows.Next() {
		var txn model.FirmTransaction
		var idStr, acctStr, kind, amount string
		err := rows.Scan(&idStr, &acctStr, &kind, &amount, &txn.EffectiveDate,
			&txn.Description, &txn.Reference, &txn.Seq, &txn.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning firm transaction: %w", err)
		}
		if txn.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parsing firm transaction id: %w", err)
		}
		if txn.AccountID, err = uuid.Parse(acctStr); err != nil {
			return nil, fmt.Errorf("parsing account id: %w", err)
		}
		txn.Kind = model.FirmTxnKind(kind)
		if txn.Amount, err = parseDec(amount); err != nil {
			return nil, fmt.Errorf("parsing amount: %w", err)
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}

// --- advance entries ---

func insertAdvance(tx *sql.Tx, e model.AdvanceEntry) error {
	_, err := tx.Exec(
		`INSERT INTO advance_entries (id, counterparty_id, kind, amount, reason,
			effective_date, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM advance_entries WHERE counterparty_id = ?), ?)`,
		e.ID.String(), e.CounterpartyID.String(), string(e.Kind), e.Amount.String(),
		e.Reason, e.EffectiveDate, e.CounterpartyID.String(), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting advance entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AppendAdvanceEntry(entry model.AdvanceEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning advance append: %w", err)
	}
	defer tx.Rollback()

	if err := insertAdvance(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing advance append: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FetchAdvanceEntries(counterpartyID uuid.UUID) ([]model.AdvanceEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, counterparty_id, kind, amount, reason, effective_date, seq, created_at
		FROM advance_entries WHERE counterparty_id = ?
		ORDER BY effective_date, seq`, counterpartyID.String())
	if err != nil {
		return nil, fmt.Errorf("fetching advance entries: %w", err)
	}
	defer rows.Close()

	var out []model.AdvanceEntry
	for rows.Next() {
		var e model.AdvanceEntry
		var idStr, cpStr, kind, amount string
		err := rows.Scan(&idStr, &cpStr, &kind, &amount, &e.Reason, &e.EffectiveDate, &e.Seq, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning advance entry: %w", err)
		}
		if e.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parsing advance entry id: %w", err)
		}
		if e.CounterpartyID, err = uuid.Parse(cpStr); err != nil {
			return nil, fmt.Errorf("parsing counterparty id: %w", err)
		}
		e.Kind = model.AdvanceKind(kind)
		if e.Amount, err = parseDec(amount); err != nil {
			return nil, fmt.Errorf("parsing amount: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- vouchers ---

// NextVoucherSeq returns the next free voucher sequence for a month by
// scanning existing voucher numbers of the form YYYY-MM-NNN.
func (s *SQLiteStore) NextVoucherSeq(year, month int) (int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var maxSeq sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(CAST(substr(voucher, 9, 3) AS INTEGER))
		FROM transactions WHERE voucher LIKE ? || '%'`, prefix).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("finding next voucher sequence: %w", err)
	}
	if !maxSeq.Valid {
		return 1, nil
	}
	return int(maxSeq.Int64) + 1, nil
}
