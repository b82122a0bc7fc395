package storage

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newscrawler/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store := New(db, "sqlite3", nil)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func ts(hour int) *time.Time {
	v := time.Date(2025, time.January, 2, hour, 0, 0, 0, time.UTC)
	return &v
}

func countRows(t *testing.T, store *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.EnsureSchema(context.Background()))
}

func TestSaveArticleDeduplicatesByURL(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	article := domain.Article{
		Site:        "Example News",
		URL:         "https://example.com/a",
		Title:       "Story A",
		PublishedAt: ts(9),
	}

	saved, err := store.SaveArticle(ctx, article)
	require.NoError(t, err)
	assert.True(t, saved)

	// same URL, even with a different title, is already known
	article.Title = "Story A (updated)"
	saved, err = store.SaveArticle(ctx, article)
	require.NoError(t, err)
	assert.False(t, saved)

	assert.Equal(t, 1, countRows(t, store, "articles"))
}

func TestSaveArticleDeduplicatesByTitleAndDay(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := domain.Article{
		Site:        "Example News",
		URL:         "https://example.com/a",
		Title:       "Story A",
		PublishedAt: ts(9),
	}
	saved, err := store.SaveArticle(ctx, first)
	require.NoError(t, err)
	require.True(t, saved)

	// republished later the same day under a new URL
	republished := domain.Article{
		Site:        "Example News",
		URL:         "https://example.com/a-republished",
		Title:       "Story A",
		PublishedAt: ts(15),
	}
	saved, err = store.SaveArticle(ctx, republished)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, 1, countRows(t, store, "articles"))
}

func TestSaveArticleSameTitleDifferentDay(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := domain.Article{
		Site:        "Example News",
		URL:         "https://example.com/a",
		Title:       "Story A",
		PublishedAt: ts(9),
	}
	saved, err := store.SaveArticle(ctx, first)
	require.NoError(t, err)
	require.True(t, saved)

	nextDay := time.Date(2025, time.January, 3, 9, 0, 0, 0, time.UTC)
	second := domain.Article{
		Site:        "Example News",
		URL:         "https://example.com/b",
		Title:       "Story A",
		PublishedAt: &nextDay,
	}
	saved, err = store.SaveArticle(ctx, second)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, 2, countRows(t, store, "articles"))
}

func TestSaveArticleSameTitleOtherSite(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := domain.Article{
		Site:        "Example News",
		URL:         "https://example.com/a",
		Title:       "Story A",
		PublishedAt: ts(9),
	}
	saved, err := store.SaveArticle(ctx, first)
	require.NoError(t, err)
	require.True(t, saved)

	otherSite := domain.Article{
		Site:        "Other News",
		URL:         "https://other.com/a",
		Title:       "Story A",
		PublishedAt: ts(15),
	}
	saved, err = store.SaveArticle(ctx, otherSite)
	require.NoError(t, err)
	assert.True(t, saved, "title+day dedup is scoped to one site")
}

func TestSaveArticleNoPublishDateSkipsSecondaryCheck(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := domain.Article{
		Site:        "Example News",
		URL:         "https://example.com/a",
		Title:       "Story A",
		PublishedAt: ts(9),
	}
	saved, err := store.SaveArticle(ctx, first)
	require.NoError(t, err)
	require.True(t, saved)

	undated := domain.Article{
		Site:  "Example News",
		URL:   "https://example.com/a2",
		Title: "Story A",
	}
	saved, err = store.SaveArticle(ctx, undated)
	require.NoError(t, err)
	assert.True(t, saved, "without a publish date only the URL check applies")
}

func TestSaveArticleTruncatesTitle(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	long := strings.Repeat("가", domain.TitleMaxLen+50)
	article := domain.Article{
		Site:  "Example News",
		URL:   "https://example.com/long",
		Title: long,
	}
	saved, err := store.SaveArticle(ctx, article)
	require.NoError(t, err)
	require.True(t, saved)

	var stored string
	require.NoError(t, store.db.QueryRow(
		"SELECT title FROM articles WHERE url = ?", article.URL).Scan(&stored))
	assert.Len(t, []rune(stored), domain.TitleMaxLen)
}

func TestSaveArticleSetsFetchedAt(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	fixed := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	saved, err := store.SaveArticle(context.Background(), domain.Article{
		Site:  "Example News",
		URL:   "https://example.com/a",
		Title: "Story A",
	})
	require.NoError(t, err)
	require.True(t, saved)

	var fetchedAt time.Time
	require.NoError(t, store.db.QueryRow(
		"SELECT fetched_at FROM articles WHERE url = ?",
		"https://example.com/a").Scan(&fetchedAt))
	assert.True(t, fetchedAt.Equal(fixed))
}

func TestLogRun(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.LogRun(ctx, domain.CrawlLog{
		Site:    "Example News",
		Status:  domain.StatusError,
		Message: "no entries",
	}))
	require.NoError(t, store.LogRun(ctx, domain.CrawlLog{
		Site:   "Example News",
		Status: domain.StatusOK,
		Saved:  3,
		Failed: 1,
	}))

	assert.Equal(t, 2, countRows(t, store, "crawl_logs"))

	var status string
	var saved, failed int
	var message sql.NullString
	require.NoError(t, store.db.QueryRow(
		"SELECT status, saved, failed, message FROM crawl_logs ORDER BY id LIMIT 1").
		Scan(&status, &saved, &failed, &message))
	assert.Equal(t, domain.StatusError, status)
	assert.Equal(t, 0, saved)
	assert.Equal(t, 0, failed)
	assert.Equal(t, "no entries", message.String)
}
