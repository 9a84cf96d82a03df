package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"newsboard/internal/fetcher"
	"newsboard/internal/models"

	"github.com/stretchr/testify/require"
)

func TestFetchFeed(t *testing.T) {
	testCases := []struct {
		name     string
		xml      string
		expected []models.FeedItem
		wantErr  bool
	}{
		{
			name: "valid rss",
			xml: `<?xml version="1.0" encoding="UTF-8"?>
			<rss version="2.0">
				<channel>
					<title>Test Feed</title>
					<item>
						<title>Test Title</title>
						<description><![CDATA[<p>Test <b>Description</b></p>]]></description>
						<pubDate>Wed, 03 May 2023 15:04:05 +0000</pubDate>
						<link>http://example.com/test</link>
					</item>
				</channel>
			</rss>`,
			expected: []models.FeedItem{
				{
					Title:       "Test Title",
					Description: "Test Description",
					Link:        "http://example.com/test",
					PublishedAt: time.Date(2023, 5, 3, 15, 4, 5, 0, time.UTC),
				},
			},
		},
		{
			name: "atom without summary",
			xml: `<?xml version="1.0" encoding="utf-8"?>
			<feed xmlns="http://www.w3.org/2005/Atom">
				<title>Atom Feed</title>
				<entry>
					<title>Atom entry</title>
					<link href="http://example.com/atom"/>
					<updated>2024-05-25T10:00:00Z</updated>
				</entry>
			</feed>`,
			expected: []models.FeedItem{
				{
					Title:       "Atom entry",
					Link:        "http://example.com/atom",
					PublishedAt: time.Date(2024, 5, 25, 10, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			name:    "not a feed",
			xml:     `this is not a feed`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.xml))
			}))
			defer server.Close()

			items, err := fetcher.FetchFeed(context.Background(), server.URL)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, items, len(tc.expected))
			for i, item := range items {
				require.Equal(t, tc.expected[i].Title, item.Title)
				require.Equal(t, tc.expected[i].Description, item.Description)
				require.Equal(t, tc.expected[i].Link, item.Link)
				require.True(t, tc.expected[i].PublishedAt.Equal(item.PublishedAt))
			}
		})
	}
}

func TestStartPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- fetcher.StartPolling(ctx, func(ctx context.Context, url string) error {
			calls.Add(1)
			return nil
		}, []string{"http://a", "http://b"}, "@every 1s")
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestStartPolling_SkipsOverlappingCycles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var inFlight, maxInFlight, calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- fetcher.StartPolling(ctx, func(ctx context.Context, url string) error {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				cur := maxInFlight.Load()
				if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(2500 * time.Millisecond)
			calls.Add(1)
			return nil
		}, []string{"http://a"}, "@every 1s")
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 15*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("poller did not stop")
	}
	require.Equal(t, int32(1), maxInFlight.Load())
}

func TestStartPolling_InvalidSchedule(t *testing.T) {
	err := fetcher.StartPolling(context.Background(), func(context.Context, string) error { return nil }, nil, "sometimes")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid schedule")
}
