package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ersonp/auditshield/internal/infrastructure/watch"
)

// pollInterval is how often watches check for commits made through other
// connections, including other processes.
var pollInterval = 250 * time.Millisecond

// inMemory reports whether path names a private in-memory database, which no
// other connection can write to.
func inMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// startPolling watches PRAGMA data_version on a dedicated connection and
// publishes every topic when it changes. The version only moves when another
// connection commits, so writes by other processes reach this repository's
// watches. Safe to call more than once.
func (r *Repository) startPolling() error {
	if inMemory(r.path) {
		return nil
	}

	r.pollMu.Lock()
	defer r.pollMu.Unlock()
	if r.pollStop != nil {
		return nil
	}

	db, err := sql.Open("sqlite", r.dsn)
	if err != nil {
		return fmt.Errorf("opening change poller: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return fmt.Errorf("opening change poller: %w", err)
	}

	version, err := dataVersion(ctx, conn)
	if err != nil {
		conn.Close()
		db.Close()
		return err
	}

	r.pollStop = make(chan struct{})
	r.pollDone = make(chan struct{})
	go r.poll(db, conn, version)
	return nil
}

func (r *Repository) poll(db *sql.DB, conn *sql.Conn, version int64) {
	defer close(r.pollDone)
	defer db.Close()
	defer conn.Close()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	ctx := context.Background()
	for {
		select {
		case <-r.pollStop:
			return
		case <-ticker.C:
			v, err := dataVersion(ctx, conn)
			if err != nil || v == version {
				continue
			}
			version = v
			r.broker.Publish(watch.TopicAudits, watch.TopicQuestions, watch.TopicAnswers)
		}
	}
}

func (r *Repository) stopPolling() {
	r.pollMu.Lock()
	defer r.pollMu.Unlock()
	if r.pollStop == nil {
		return
	}
	close(r.pollStop)
	<-r.pollDone
	r.pollStop = nil
	r.pollDone = nil
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading data version: %w", err)
	}
	return v, nil
}
