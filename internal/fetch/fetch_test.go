package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions() *Options {
	return &Options{
		Timeout:     5 * time.Second,
		MaxAttempts: 5,
		BackoffBase: 0,
		BackoffMax:  time.Second,
	}
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	tr := NewTransport(fastOptions(), nil, nil)
	result, err := tr.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, 1, result.Attempts)
}

func TestFetch_InvalidURL(t *testing.T) {
	tr := NewTransport(fastOptions(), nil, nil)
	_, err := tr.Fetch(context.Background(), "not-a-valid-url")
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
	assert.True(t, IsPermanent(err))
}

func TestFetch_RetriesThrottlingThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	tr := NewTransport(fastOptions(), nil, nil)
	result, err := tr.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.HTML)
	assert.Equal(t, 4, result.Attempts)
	assert.Equal(t, int32(4), calls.Load(), "the body must be returned exactly once")
}

func TestFetch_PermanentStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	tr := NewTransport(fastOptions(), nil, nil)
	_, err := tr.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, IsPermanent(err))
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	opts := fastOptions()
	opts.MaxAttempts = 3
	tr := NewTransport(opts, nil, nil)
	_, err := tr.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Contains(t, err.Error(), "gave up after 3 attempts")
	assert.Equal(t, int32(3), calls.Load())

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
}

func TestFetch_SendsRotatedIdentity(t *testing.T) {
	var mu sync.Mutex
	var agents []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		mu.Unlock()
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	ids := []Identity{{UserAgent: "ua-a", AcceptLanguage: "ru"}, {UserAgent: "ua-b", AcceptLanguage: "ru"}}
	tr := NewTransport(fastOptions(), NewRotation(ids, nil, 0), nil)
	for i := 0; i < 3; i++ {
		_, err := tr.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"ua-a", "ua-b", "ua-a"}, agents)
}

func TestFetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := NewTransport(fastOptions(), nil, nil)
	_, err := tr.Fetch(ctx, server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTransient(err))
	assert.False(t, IsPermanent(err))
}

func TestFetch_RedirectLoopIsPermanent(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/loop", http.StatusFound)
	}))
	defer server.Close()

	tr := NewTransport(fastOptions(), nil, nil)
	_, err := tr.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, IsPermanent(err))
	assert.Contains(t, err.Error(), "redirect loop")
}

func TestBackoff_HonoursRetryAfterAndCap(t *testing.T) {
	tr := NewTransport(&Options{BackoffBase: 100 * time.Millisecond, BackoffMax: 2 * time.Second}, nil, nil)

	d := tr.backoff(1, 0)
	assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	assert.Less(t, d, 150*time.Millisecond)

	assert.Equal(t, time.Second, tr.backoff(1, time.Second))
	assert.Equal(t, 2*time.Second, tr.backoff(1, time.Minute))
	assert.LessOrEqual(t, tr.backoff(10, 0), 2*time.Second)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))
}

func TestRotation_ProxyAdvancesOnFailureAndAfterSuccesses(t *testing.T) {
	p1, _ := url.Parse("http://10.0.0.1:8080")
	p2, _ := url.Parse("http://10.0.0.2:8080")
	r := NewRotation(nil, []*url.URL{p1, p2}, 2)

	_, cur := r.Next()
	assert.Equal(t, p1, cur)

	r.ReportFailure(p1)
	_, cur = r.Next()
	assert.Equal(t, p2, cur)

	// a late failure from the old proxy must not skip p2
	r.ReportFailure(p1)
	_, cur = r.Next()
	assert.Equal(t, p2, cur)

	r.ReportSuccess(p2)
	r.ReportSuccess(p2)
	_, cur = r.Next()
	assert.Equal(t, p1, cur)
}

func TestRotation_NoProxies(t *testing.T) {
	r := NewRotation(nil, nil, 0)
	id, proxy := r.Next()
	assert.Nil(t, proxy)
	assert.NotEmpty(t, id.UserAgent)
	r.ReportFailure(nil)
	assert.Equal(t, 0, r.Proxies())
}

func TestPacer_EnforcesFloor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}

	// base 40ms with jitter 0.5: floor 20ms, extra in [0, 40ms)
	p := NewPacer(40*time.Millisecond, 0.5)
	ctx := context.Background()

	var (
		mu    sync.Mutex
		times []time.Time
		wg    sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 6; j++ {
				if !assert.NoError(t, p.Wait(ctx)) {
					return
				}
				mu.Lock()
				times = append(times, time.Now())
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, times, 24)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	var total time.Duration
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		total += gap
		// a few ms of slack for scheduling between Wait returning and the timestamp
		assert.GreaterOrEqual(t, gap, 15*time.Millisecond, "gap %d", i)
	}
	mean := total / time.Duration(len(times)-1)
	assert.GreaterOrEqual(t, mean, 30*time.Millisecond, "gaps average the base delay")
}

func TestPacer_DisabledAndCancelled(t *testing.T) {
	assert.NoError(t, NewPacer(0, 0.5).Wait(context.Background()))

	p := NewPacer(time.Hour, 0)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, p.Wait(ctx))
}
