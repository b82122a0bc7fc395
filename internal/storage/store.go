// Package storage persists articles and crawl logs over database/sql.
// It owns both tables at the schema level and creates them if absent.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"newscrawler/internal/domain"
)

// Store decides idempotently whether a candidate article is new, and
// appends one crawl-log row per run. Each article insert runs in its
// own transaction so one bad entry never aborts a run.
type Store struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	driver  string
	logger  *slog.Logger
	now     func() time.Time
}

// Open connects to the storage engine named by the DSN using the
// Postgres driver and verifies the connection.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(db, "postgres", logger), nil
}

// New wraps an existing connection. The driver name selects the
// placeholder format and schema dialect; tests use sqlite3.
func New(db *sql.DB, driver string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if driver == "postgres" {
		builder = builder.PlaceholderFormat(sq.Dollar)
	}
	return &Store{
		db:      db,
		builder: builder,
		driver:  driver,
		logger:  logger,
		now:     time.Now,
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

var schemas = map[string][]string{
	"postgres": {
		`CREATE TABLE IF NOT EXISTS articles (
			id BIGSERIAL PRIMARY KEY,
			site VARCHAR(80) NOT NULL,
			url VARCHAR(1024) NOT NULL UNIQUE,
			title VARCHAR(512) NOT NULL,
			summary TEXT,
			content TEXT,
			author VARCHAR(255),
			category VARCHAR(255),
			image_url VARCHAR(1024),
			published_at TIMESTAMP,
			fetched_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_articles_site ON articles (site)`,
		`CREATE INDEX IF NOT EXISTS ix_articles_site_fetched ON articles (site, fetched_at)`,
		`CREATE TABLE IF NOT EXISTS crawl_logs (
			id BIGSERIAL PRIMARY KEY,
			site VARCHAR(80) NOT NULL,
			run_at TIMESTAMP NOT NULL,
			status VARCHAR(20) NOT NULL,
			saved INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS ix_crawl_logs_site ON crawl_logs (site)`,
	},
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			site TEXT NOT NULL,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			summary TEXT,
			content TEXT,
			author TEXT,
			category TEXT,
			image_url TEXT,
			published_at DATETIME,
			fetched_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_articles_site ON articles (site)`,
		`CREATE INDEX IF NOT EXISTS ix_articles_site_fetched ON articles (site, fetched_at)`,
		`CREATE TABLE IF NOT EXISTS crawl_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			site TEXT NOT NULL,
			run_at DATETIME NOT NULL,
			status TEXT NOT NULL,
			saved INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS ix_crawl_logs_site ON crawl_logs (site)`,
	},
}

// EnsureSchema creates the articles and crawl_logs tables if they do
// not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements, ok := schemas[s.driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", s.driver)
	}
	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveArticle stores the candidate unless it is already known. It
// reports true when a new row was inserted and false for duplicates.
//
// Identity is two-tier: the URL is checked first; when no URL match
// exists and the candidate has a publish date, an article on the same
// site with the same truncated title published on the same calendar
// day also counts as a duplicate. That catches republication under a
// changed URL.
func (s *Store) SaveArticle(ctx context.Context, article domain.Article) (bool, error) {
	article.Title = domain.TruncateTitle(article.Title)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}

	saved, err := s.saveInTx(ctx, tx, article)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

func (s *Store) saveInTx(ctx context.Context, tx *sql.Tx, article domain.Article) (bool, error) {
	known, err := s.exists(ctx, tx, sq.Eq{"url": article.URL})
	if err != nil {
		return false, err
	}

	if !known && article.PublishedAt != nil {
		start, end := dayWindow(*article.PublishedAt)
		known, err = s.exists(ctx, tx, sq.And{
			sq.Eq{"site": article.Site, "title": article.Title},
			sq.GtOrEq{"published_at": start},
			sq.LtOrEq{"published_at": end},
		})
		if err != nil {
			return false, err
		}
	}

	if known {
		return false, nil
	}

	query, args, err := s.builder.
		Insert("articles").
		Columns("site", "url", "title", "summary", "content", "author",
			"category", "image_url", "published_at", "fetched_at").
		Values(article.Site, article.URL, article.Title,
			nullable(article.Summary), nullable(article.Content),
			nullable(article.Author), nullable(article.Category),
			nullable(article.ImageURL), nullableTime(article.PublishedAt),
			s.now()).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}
	return true, nil
}

func (s *Store) exists(ctx context.Context, tx *sql.Tx, pred any) (bool, error) {
	query, args, err := s.builder.
		Select("id").
		From("articles").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var id int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query existing: %w", err)
	}
	return true, nil
}

// LogRun appends one crawl-log row. Rows are never mutated afterwards.
func (s *Store) LogRun(ctx context.Context, entry domain.CrawlLog) error {
	runAt := entry.RunAt
	if runAt.IsZero() {
		runAt = s.now()
	}

	query, args, err := s.builder.
		Insert("crawl_logs").
		Columns("site", "run_at", "status", "saved", "failed", "message").
		Values(entry.Site, runAt, entry.Status, entry.Saved, entry.Failed,
			nullable(entry.Message)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build log insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert crawl log: %w", err)
	}
	return nil
}

// dayWindow returns 00:00:00 and 23:59:59 of the timestamp's calendar
// day, in the timestamp's own location.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24*time.Hour - time.Second)
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
