package quickfix

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLStore is a SQLite-backed MessageStore, surviving process restarts.
// A *sql.DB opened in WAL journal mode plus a small set of prepared
// statements reused across calls instead of being re-planned per query.
type SQLStore struct {
	mu sync.Mutex

	db         *sql.DB
	sessionKey string

	stmtInsert     *sql.Stmt
	stmtSelect     *sql.Stmt
	stmtGetSession *sql.Stmt
	stmtSetSender  *sql.Stmt
	stmtSetTarget  *sql.Stmt
}

// SQLStoreFactory opens (or creates) one SQLite database file shared by
// every session, keyed internally by SessionID.
type SQLStoreFactory struct {
	Path string
}

func (f SQLStoreFactory) Create(sessionID SessionID) (MessageStore, error) {
	return NewSQLStore(f.Path, sessionID)
}

// NewSQLStore opens path (creating it and its schema if necessary) and
// returns a store scoped to sessionID.
func NewSQLStore(path string, sessionID SessionID) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, IOException{Err: err}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS session_seqnum (
		session_key TEXT PRIMARY KEY,
		next_sender_seqnum INTEGER NOT NULL,
		next_target_seqnum INTEGER NOT NULL,
		creation_time DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS session_messages (
		session_key TEXT NOT NULL,
		seq_num INTEGER NOT NULL,
		raw_message TEXT NOT NULL,
		PRIMARY KEY (session_key, seq_num)
	);`
	if _, err := db.Exec(schema); err != nil {
		return nil, IOException{Err: err}
	}

	s := &SQLStore{db: db, sessionKey: sessionID.String()}

	s.stmtInsert, err = db.Prepare(`INSERT OR REPLACE INTO session_messages (session_key, seq_num, raw_message) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, IOException{Err: err}
	}
	s.stmtSelect, err = db.Prepare(`SELECT raw_message FROM session_messages WHERE session_key = ? AND seq_num = ?`)
	if err != nil {
		return nil, IOException{Err: err}
	}
	s.stmtGetSession, err = db.Prepare(`SELECT next_sender_seqnum, next_target_seqnum, creation_time FROM session_seqnum WHERE session_key = ?`)
	if err != nil {
		return nil, IOException{Err: err}
	}
	s.stmtSetSender, err = db.Prepare(`UPDATE session_seqnum SET next_sender_seqnum = ? WHERE session_key = ?`)
	if err != nil {
		return nil, IOException{Err: err}
	}
	s.stmtSetTarget, err = db.Prepare(`UPDATE session_seqnum SET next_target_seqnum = ? WHERE session_key = ?`)
	if err != nil {
		return nil, IOException{Err: err}
	}

	if err := s.ensureRow(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) ensureRow() error {
	_, _, err := s.seqNums()
	if err == nil {
		return nil
	}
	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO session_seqnum (session_key, next_sender_seqnum, next_target_seqnum, creation_time) VALUES (?, 1, 1, ?)`,
		s.sessionKey, time.Now())
	if err != nil {
		return IOException{Err: err}
	}
	return nil
}

func (s *SQLStore) seqNums() (int, int, error) {
	var sender, target int
	var created time.Time
	err := s.stmtGetSession.QueryRow(s.sessionKey).Scan(&sender, &target, &created)
	if err != nil {
		return 0, 0, IOException{Err: err}
	}
	return sender, target, nil
}

func (s *SQLStore) Set(seqNum int, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.stmtInsert.Exec(s.sessionKey, seqNum, msg); err != nil {
		return IOException{Err: err}
	}
	return nil
}

func (s *SQLStore) Get(begin, end int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, end-begin+1)
	for seq := begin; seq <= end; seq++ {
		var raw string
		err := s.stmtSelect.QueryRow(s.sessionKey, seq).Scan(&raw)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, IOException{Err: err}
		}
		out = append(out, raw)
	}
	return out, nil
}

func (s *SQLStore) NextSenderMsgSeqNum() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sender, _, err := s.seqNums()
	return sender, err
}

func (s *SQLStore) NextTargetMsgSeqNum() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, target, err := s.seqNums()
	return target, err
}

func (s *SQLStore) SetNextSenderMsgSeqNum(next int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.stmtSetSender.Exec(next, s.sessionKey); err != nil {
		return IOException{Err: err}
	}
	return nil
}

func (s *SQLStore) SetNextTargetMsgSeqNum(next int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.stmtSetTarget.Exec(next, s.sessionKey); err != nil {
		return IOException{Err: err}
	}
	return nil
}

func (s *SQLStore) IncrNextSenderMsgSeqNum() error {
	next, err := s.NextSenderMsgSeqNum()
	if err != nil {
		return err
	}
	return s.SetNextSenderMsgSeqNum(next + 1)
}

func (s *SQLStore) IncrNextTargetMsgSeqNum() error {
	next, err := s.NextTargetMsgSeqNum()
	if err != nil {
		return err
	}
	return s.SetNextTargetMsgSeqNum(next + 1)
}

func (s *SQLStore) CreationTime() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sender, target int
	var created time.Time
	err := s.stmtGetSession.QueryRow(s.sessionKey).Scan(&sender, &target, &created)
	if err != nil {
		return time.Time{}, IOException{Err: err}
	}
	return created, nil
}

func (s *SQLStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return IOException{Err: err}
	}
	if _, err := tx.Exec(`DELETE FROM session_messages WHERE session_key = ?`, s.sessionKey); err != nil {
		tx.Rollback()
		return IOException{Err: err}
	}
	if _, err := tx.Exec(
		`UPDATE session_seqnum SET next_sender_seqnum = 1, next_target_seqnum = 1, creation_time = ? WHERE session_key = ?`,
		time.Now(), s.sessionKey); err != nil {
		tx.Rollback()
		return IOException{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return IOException{Err: err}
	}
	return nil
}

func (s *SQLStore) Refresh() error { return nil }

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing sql store: %w", err)
	}
	return nil
}
