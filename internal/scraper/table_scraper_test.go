package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"dataanalyst/internal/config"
	"dataanalyst/internal/scraper"
)

const filmsPage = `<!DOCTYPE html>
<html><head><title>Films</title></head><body>
<table class="infobox"><tr><th>Not this one</th></tr><tr><td>x</td></tr></table>
<table class="wikitable sortable plainrowheaders">
  <tr><th> Rank </th><th>Title<style>.ref{color:red}</style></th><th>Worldwide gross</th></tr>
  <tr><td>1</td><th scope="row"><i><a href="/wiki/Avatar">Avatar</a></i></th><td>$2,923,706,026<sup>[1]</sup></td></tr>
  <tr></tr>
  <tr><td>2</td><th scope="row">Avengers: Endgame</th><td>
      $2,797,501,328
  </td></tr>
</table>
<table class="wikitable"><tr><th>Second</th></tr><tr><td>ignored</td></tr></table>
</body></html>`

func newTestScraper() *scraper.TableScraper {
	return scraper.NewTableScraper(&config.ScraperConfig{
		TimeoutSecs: 10,
		UserAgent:   "Mozilla/5.0 (test)",
		MaxRows:     100,
	})
}

func TestShouldScrape(t *testing.T) {
	assert.True(t, scraper.ShouldScrape("Use https://en.wikipedia.org/wiki/List_of_highest-grossing_films"))
	assert.True(t, scraper.ShouldScrape("Please SCRAPE this page"))
	assert.True(t, scraper.ShouldScrape("scraped values"))
	assert.False(t, scraper.ShouldScrape("Compute the mean of column x"))
	assert.False(t, scraper.ShouldScrape("see WIKIPEDIA.ORG"))
}

func TestExtractURL(t *testing.T) {
	u, ok := scraper.ExtractURL("Scrape https://example.com/a?b=c then http://other.org")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/a?b=c", u)

	u, ok = scraper.ExtractURL("line one\nhttp://x.test/path\tnext")
	assert.True(t, ok)
	assert.Equal(t, "http://x.test/path", u)

	_, ok = scraper.ExtractURL("no link here, ftp://nope")
	assert.False(t, ok)
}

func TestExtractTable_FirstQualifyingTable(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(filmsPage))
	require.NoError(t, err)

	table := scraper.ExtractTable(doc)

	require.NotNil(t, table)
	assert.Equal(t, []string{"Rank", "Title", "Worldwide gross"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "Avatar", "$2,923,706,026[1]"}, table.Rows[0])
	assert.Equal(t, []string{"2", "Avengers: Endgame", "$2,797,501,328"}, table.Rows[1])
}

func TestExtractTable_NoQualifyingTable(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body><table class="wikitablex"><tr><td>1</td></tr></table></body></html>`))
	require.NoError(t, err)

	assert.Nil(t, scraper.ExtractTable(doc))
}

func TestTableScraper_FetchTable_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0 (test)", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(filmsPage))
	}))
	defer server.Close()

	table, err := newTestScraper().FetchTable(context.Background(), server.URL+"/wiki/Films")

	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, "Rank", table.Header[0])
	assert.Len(t, table.Rows, 2)
}

func TestTableScraper_FetchTable_RowCapViaFormat(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><table class="wikitable"><tr><th>n</th><th>sq</th></tr>`)
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%d</td></tr>", i, i*i)
	}
	b.WriteString(`</table></body></html>`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(b.String()))
	}))
	defer server.Close()

	table, err := newTestScraper().FetchTable(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, table.Rows, 250)

	text := table.Format(server.URL, 100)
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	require.Len(t, lines, 102)
	assert.Equal(t, "n,sq", lines[1])
	assert.Equal(t, "0,0", lines[2])
	assert.Equal(t, "99,9801", lines[101])
}

func TestTableScraper_FetchTable_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	table, err := newTestScraper().FetchTable(context.Background(), server.URL)

	require.Error(t, err)
	assert.Nil(t, table)
	assert.Contains(t, err.Error(), "404")
}

func TestTableScraper_FetchTable_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestScraper().FetchTable(context.Background(), url)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching")
}

func TestTableScraper_FetchTable_LimiterHonorsContext(t *testing.T) {
	s := scraper.NewTableScraper(&config.ScraperConfig{
		TimeoutSecs:       10,
		RequestsPerSecond: 0.001,
		Burst:             1,
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	// first call consumes the only token
	_, err := s.FetchTable(context.Background(), server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = s.FetchTable(ctx, server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "waiting for scrape slot")
}
