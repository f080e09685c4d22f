package repository

import (
	"database/sql"
	"testing"
	"time"
)

// TestPostgresArticleRepo_ImplementsInterface はPostgresArticleRepoが
// ArticleRepositoryを実装することを検証する。
func TestPostgresArticleRepo_ImplementsInterface(t *testing.T) {
	// コンパイル時チェック
	var _ ArticleRepository = (*PostgresArticleRepo)(nil)
}

func TestNullString(t *testing.T) {
	if got := nullString(""); got.Valid {
		t.Error("nullString(\"\") should be invalid (NULL)")
	}
	got := nullString("text")
	if !got.Valid || got.String != "text" {
		t.Errorf("nullString(\"text\") = %+v, want valid %q", got, "text")
	}
}

func TestArticleFilter_ZeroValue(t *testing.T) {
	var f ArticleFilter
	if f.Category != "" || f.Source != "" || f.Search != "" {
		t.Error("zero filter must have no conditions")
	}
	if !f.Cutoff.Equal(time.Time{}) {
		t.Error("zero filter cutoff must be zero time")
	}
}

func TestNewPostgresArticleRepo(t *testing.T) {
	repo := NewPostgresArticleRepo((*sql.DB)(nil))
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
