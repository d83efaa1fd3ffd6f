package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"StockPulse/internal/model"
)

func sampleAnalysis() *model.Analysis {
	return &model.Analysis{
		Symbol: "RELIANCE.NS",
		Period: "1y",
		Latest: model.AnalyzedBar{
			PriceBar: model.PriceBar{Time: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Close: 2950.5},
			IndicatorSet: model.IndicatorSet{
				SMA20: model.Some(2900),
				SMA50: model.Some(2850),
				RSI14: model.Some(75.3),
			},
		},
		ChangePct: 1.5,
		Decision: model.Decision{
			Label:      model.LabelSell,
			Confidence: 60,
			Score:      20,
			Reasons: []string{
				"Golden Cross formation (20 SMA > 50 SMA)",
				"Overbought condition (RSI > 70) - Risk of Pullback",
			},
		},
	}
}

func TestFormatAnalysisReport(t *testing.T) {
	out := FormatAnalysisReport(sampleAnalysis())
	for _, want := range []string{
		"<b>RELIANCE.NS</b>",
		"2025-06-02",
		"Price: 2950.50 (+1.50%)",
		"RSI(14): 75.3",
		"Volatility: n/a",
		"Decision: SELL</b> | confidence 60% (score +20)",
		"20 SMA &gt; 50 SMA",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	cross := strings.Index(out, "Golden Cross")
	over := strings.Index(out, "Overbought")
	if cross < 0 || over < 0 || cross > over {
		t.Error("reasons must keep evaluation order")
	}
}

func TestFormatWatchlistSummary(t *testing.T) {
	out := FormatWatchlistSummary([]*model.Analysis{sampleAnalysis()}, map[string]error{"BAD.NS": errors.New("a < b")})
	if !strings.Contains(out, "RELIANCE.NS: SELL 60%") || !strings.Contains(out, "BAD.NS: a &lt; b") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/bottoken/sendMessage") {
			http.NotFound(w, r)
			return
		}
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["chat_id"] != "42" || payload["parse_mode"] != "HTML" {
			http.Error(w, "bad payload", http.StatusBadRequest)
			return
		}
		if n == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	tn.BaseBackoff = time.Millisecond

	if err := tn.SendWithRetry(context.Background(), "hello", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	tn.BaseBackoff = time.Millisecond
	err := tn.SendWithRetry(context.Background(), "hello", 1)
	if err == nil || !strings.Contains(err.Error(), "all 2 retries exhausted") {
		t.Errorf("expected exhausted error, got %v", err)
	}
}

func TestPoll_DispatchesCommands(t *testing.T) {
	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /analyze tcs ","chat":{"id":42}}},
				{"update_id":8,"message":{"text":"/watchlist","chat":{"id":99}}},
				{"update_id":9,"message":null}]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var payload map[string]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			sent = append(sent, payload["text"])
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL

	var got []string
	next, err := tn.poll(context.Background(), srv.Client(), 0, func(_ context.Context, cmd string) string {
		got = append(got, cmd)
		return "reply to " + cmd
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != 10 {
		t.Errorf("next offset: got %d, want 10", next)
	}
	if len(got) != 1 || got[0] != "/analyze tcs" {
		t.Errorf("commands: got %v", got)
	}
	if len(sent) != 1 || sent[0] != "reply to /analyze tcs" {
		t.Errorf("replies: got %v", sent)
	}
}

func TestSplitMessage(t *testing.T) {
	line := strings.Repeat("x", 30)
	text := strings.Join([]string{line, line, line, line}, "\n")

	parts := splitMessage(text, 70)
	if len(parts) != 2 || parts[0] != line+"\n"+line || parts[1] != line+"\n"+line {
		t.Errorf("unexpected split: %q", parts)
	}
	if got := splitMessage("short", 70); len(got) != 1 || got[0] != "short" {
		t.Errorf("short text must stay whole: %q", got)
	}
	hard := splitMessage(strings.Repeat("y", 25), 10)
	if len(hard) != 3 || hard[2] != "yyyyy" {
		t.Errorf("unexpected hard split: %q", hard)
	}
}

func TestSplitMessage_RuneAndTagBoundaries(t *testing.T) {
	// each "₹" is three bytes; a limit of 10 lands inside the fourth one
	for _, part := range splitMessage(strings.Repeat("₹", 8), 10) {
		if !utf8.ValidString(part) {
			t.Fatalf("part %q is not valid UTF-8", part)
		}
		if len(part) > 10 {
			t.Errorf("part %q exceeds the limit", part)
		}
	}

	parts := splitMessage("aaaaaaa<b>bold</b>", 9)
	if parts[0] != "aaaaaaa" || !strings.HasPrefix(parts[1], "<b>") {
		t.Errorf("tag was split: %q", parts)
	}
	if strings.Join(parts, "") != "aaaaaaa<b>bold</b>" {
		t.Errorf("text lost while splitting: %q", parts)
	}
}

func TestPoll_RejectedRequestIsAnError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"revoked token", http.StatusUnauthorized, `{"ok":false,"error_code":401,"description":"Unauthorized"}`, "Unauthorized"},
		{"second poller", http.StatusConflict, `{"ok":false,"error_code":409,"description":"Conflict: terminated by other getUpdates request"}`, "Conflict"},
		{"not ok with 200", http.StatusOK, `{"ok":false,"description":"Bad Request"}`, "Bad Request"},
		{"html gateway page", http.StatusBadGateway, `<html>bad gateway</html>`, "status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tn := NewTelegramNotifier("token", "42", "")
			tn.APIBase = srv.URL
			called := false
			next, err := tn.poll(context.Background(), srv.Client(), 5, func(context.Context, string) string {
				called = true
				return ""
			})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
			if next != 5 || called {
				t.Errorf("offset must stay at 5 and no handler may run, got %d / %v", next, called)
			}
		})
	}
}

func TestStartPolling_BacksOffOnRejection(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	tn.StartPolling(ctx, func(context.Context, string) string { return "" })

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected a single request before the backoff, got %d", n)
	}
}

func TestSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	err := tn.Send(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("expected API description in error, got %v", err)
	}
}
