package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/novassist/nova/internal/logger"
)

func testLog() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestCanHandle(t *testing.T) {
	p := New(testLog())

	tests := []struct {
		text string
		want bool
	}{
		{"search for golang tutorials", true},
		{"who is ada lovelace", true},
		{"what is the capital of france", true},
		{"look up the weather", true},
		{"open firefox", false},
		{"search", false}, // prefix with no query
		{"", false},
	}

	for _, tt := range tests {
		if got := p.CanHandle(tt.text); got != tt.want {
			t.Errorf("CanHandle(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestExtractQuery(t *testing.T) {
	p := New(testLog())

	tests := []struct {
		text string
		want string
	}{
		{"search for golang tutorials", "golang tutorials"},
		{"look up the weather", "the weather"},
		// Question words stay in the query.
		{"who is ada lovelace", "who is ada lovelace"},
		{"what is the capital of france", "what is the capital of france"},
	}

	for _, tt := range tests {
		if got := p.extractQuery(tt.text); got != tt.want {
			t.Errorf("extractQuery(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestScrapedAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<div class="result">
				<a class="result__snippet">Ada Lovelace was an English mathematician.</a>
			</div>
		</body></html>`))
	}))
	defer srv.Close()

	p := New(testLog(), WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))

	got, err := p.Process(context.Background(), "who is ada lovelace")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Ada Lovelace was an English mathematician." {
		t.Errorf("answer = %q", got)
	}
}

func TestBrowserFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>no results here</body></html>`))
	}))
	defer srv.Close()

	var opened string
	p := New(testLog(),
		WithEndpoint(srv.URL),
		WithHTTPClient(srv.Client()),
		WithOpener(func(url string) error { opened = url; return nil }),
	)

	got, err := p.Process(context.Background(), "search for obscure thing")
	if err != nil {
		t.Fatal(err)
	}
	if got != "I've opened a web search for 'obscure thing'." {
		t.Errorf("response = %q", got)
	}
	if !strings.Contains(opened, "obscure+thing") {
		t.Errorf("opened URL = %q", opened)
	}
}
