package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildBulkInsert(t *testing.T) {
	rows := []Row{
		{"title": "First", "body": "Body 1"},
		{"title": "Second", "body": "Body 2"},
	}

	query, args, err := buildBulkInsert("news", rows)
	require.NoError(t, err)
	require.Equal(t, `INSERT INTO "news" ("body","title") VALUES ($1,$2),($3,$4)`, query)
	require.Equal(t, []any{"Body 1", "First", "Body 2", "Second"}, args)
}

func TestBuildBulkInsert_Errors(t *testing.T) {
	_, _, err := buildBulkInsert("news", nil)
	require.ErrorIs(t, err, ErrEmptyRows)

	_, _, err = buildBulkInsert("news", []Row{{}})
	require.ErrorIs(t, err, ErrNoColumns)

	_, _, err = buildBulkInsert("news", []Row{
		{"title": "a", "body": "b"},
		{"title": "c"},
	})
	require.ErrorIs(t, err, ErrColumnMismatch)
}

func TestBuildUpsert(t *testing.T) {
	testCases := []struct {
		name      string
		row       Row
		keys      []string
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "update non-key columns",
			row:       Row{"url": "https://example.com/rss", "last_polled": "2024-05-25"},
			keys:      []string{"url"},
			wantQuery: `INSERT INTO "rss_feeds" ("last_polled","url") VALUES ($1,$2) ON CONFLICT ("url") DO UPDATE SET "last_polled" = EXCLUDED."last_polled"`,
			wantArgs:  []any{"2024-05-25", "https://example.com/rss"},
		},
		{
			name:      "only keys",
			row:       Row{"url": "https://example.com/rss"},
			keys:      []string{"url"},
			wantQuery: `INSERT INTO "rss_feeds" ("url") VALUES ($1) ON CONFLICT ("url") DO NOTHING`,
			wantArgs:  []any{"https://example.com/rss"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := buildUpsert("rss_feeds", tc.row, tc.keys)
			require.NoError(t, err)
			require.Equal(t, tc.wantQuery, query)
			require.Equal(t, tc.wantArgs, args)
		})
	}

	_, _, err := buildUpsert("rss_feeds", Row{"url": "x"}, nil)
	require.ErrorIs(t, err, ErrNoColumns)
}

func TestBuildUpdate(t *testing.T) {
	query, args, err := buildUpdate("news", Row{"title": "New", "body": "Text"}, Where(Eq("id", 7), Ge("created_at", "2024-01-01")))
	require.NoError(t, err)
	require.Equal(t, `UPDATE "news" SET "body" = $1, "title" = $2 WHERE "id" = $3 AND "created_at" >= $4`, query)
	require.Equal(t, []any{"Text", "New", 7, "2024-01-01"}, args)

	_, _, err = buildUpdate("news", Row{}, Where(Eq("id", 1)))
	require.ErrorIs(t, err, ErrNoColumns)

	_, _, err = buildUpdate("news", Row{"title": "x"}, nil)
	require.ErrorIs(t, err, ErrEmptyFilter)
}

func TestBuildDelete(t *testing.T) {
	query, args, err := buildDelete("public.comment", Where(In("id", []int64{1, 2}), Ne("news_id", 3)))
	require.NoError(t, err)
	require.Equal(t, `DELETE FROM "public"."comment" WHERE "id" = ANY($1) AND "news_id" <> $2`, query)
	require.Equal(t, []any{[]int64{1, 2}, 3}, args)

	_, _, err = buildDelete("comment", Filter{})
	require.ErrorIs(t, err, ErrEmptyFilter)

	_, _, err = buildDelete("comment", Where(Cond{Column: "id", Op: "LIKE", Value: "%"}))
	require.ErrorIs(t, err, ErrBadOperator)
}

func TestQuoteIdent(t *testing.T) {
	require.Equal(t, `"news"`, quoteIdent("news"))
	require.Equal(t, `"bad""name"`, quoteIdent(`bad"name`))
}

func TestResultValues(t *testing.T) {
	res := Result{
		Columns: []string{"title", "id", "body"},
		Rows: []Row{
			{"id": int64(1), "title": "First", "body": "Body 1"},
			{"id": int64(2), "title": "Second", "body": nil},
		},
	}

	require.Equal(t, []any{"First", int64(1), "Body 1"}, res.Values(0))
	require.Equal(t, []any{"Second", int64(2), nil}, res.Values(1))
}
