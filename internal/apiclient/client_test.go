package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// fakeAuth is a TokenSource recording logouts.
type fakeAuth struct {
	mu      sync.Mutex
	token   string
	logouts int
}

func (f *fakeAuth) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAuth) Logout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.logouts++
}

func (f *fakeAuth) Logouts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logouts
}

func newTestClient(t *testing.T, handler http.HandlerFunc, auth TokenSource, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts = append([]Option{WithHTTPClient(server.Client())}, opts...)
	return New(server.URL, auth, opts...), server
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestGet_NoTokenSendsNoAuthorizationHeader(t *testing.T) {
	var header []string
	var present bool
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header, present = r.Header["Authorization"]
		writeJSON(w, 200, `[]`)
	}, &fakeAuth{})

	_, err := c.Get(context.Background(), "/trains/")
	require.NoError(t, err)
	assert.False(t, present, "unexpected Authorization header %v", header)
}

func TestGet_BearerTokenAndDefaultHeaders(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, 200, `{}`)
	}, &fakeAuth{token: "abc"}, WithRequestIDFunc(func() string { return "req-1" }))

	_, err := c.Get(context.Background(), "/auth/me")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "req-1", got.Get("X-Request-ID"))
}

func TestGet_ParsedArray(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trains/", r.URL.Path)
		writeJSON(w, 200, `[{"id":1,"train_number":"KMRL-001"}]`)
	}, nil)

	resp, err := c.Get(context.Background(), "/trains/")
	require.NoError(t, err)

	want := []any{map[string]any{"id": float64(1), "train_number": "KMRL-001"}}
	if diff := cmp.Diff(want, resp.Value); diff != "" {
		t.Errorf("Value mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "", c.Error())
	assert.False(t, c.Loading())
}

func TestGet_NonJSONSuccessReturnsText(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "train_number,status\n")
	}, nil)

	resp, err := c.Get(context.Background(), "/upload/templates/trains")
	require.NoError(t, err)
	assert.Equal(t, "train_number,status\n", resp.Value)
}

func TestGet_EmptyJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}, nil)

	resp, err := c.Get(context.Background(), "/trains/1")
	require.NoError(t, err)
	assert.Nil(t, resp.Value)
}

func TestGet_InvalidJSONIsParseFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"broken"`)
	}, nil)

	_, err := c.Get(context.Background(), "/trains/")
	require.Error(t, err)
	assert.Equal(t, KindNetworkOrParse, KindOf(err))
	assert.Equal(t, err.Error(), c.Error())
}

func TestLoading_TrueUntilResolution(t *testing.T) {
	for _, status := range []int{200, 500} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			release := make(chan struct{})
			arrived := make(chan struct{})
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				close(arrived)
				<-release
				writeJSON(w, status, `{"detail":"boom"}`)
			}, nil)

			assert.False(t, c.Loading())

			done := make(chan error, 1)
			go func() {
				_, err := c.Get(context.Background(), "/trains/")
				done <- err
			}()

			<-arrived
			assert.True(t, c.Loading())
			assert.Equal(t, 1, c.InFlight())

			close(release)
			err := <-done
			assert.False(t, c.Loading())
			assert.Equal(t, 0, c.InFlight())
			if status == 200 {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUnauthorized_LogsOutOnce(t *testing.T) {
	bodies := []string{`{"detail":"Could not validate credentials"}`, `not json`, ``}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			auth := &fakeAuth{token: "expired"}
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, body)
			}, auth)

			_, err := c.Get(context.Background(), "/dashboard/overview")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAuthenticationRequired))
			assert.Equal(t, KindAuthenticationRequired, KindOf(err))
			assert.Equal(t, "Authentication required. Please login again.", err.Error())
			assert.Equal(t, "Authentication required. Please login again.", c.Error())
			assert.Equal(t, 1, auth.Logouts())
			assert.Equal(t, "", auth.Token())
		})
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		status      int
		body        string
		want        string
	}{
		{"detail string", "application/json", 404, `{"detail":"Train not found"}`, "Train not found"},
		{"detail array", "application/json", 422, `{"detail":[{"loc":["body","end_date"],"msg":"bad"}]}`, `[{"loc":["body","end_date"],"msg":"bad"}]`},
		{"message", "application/json", 400, `{"message":"Invalid data type"}`, "Invalid data type"},
		{"empty detail falls through", "application/json", 400, `{"detail":"","message":"fallback"}`, "fallback"},
		{"whole body", "application/json", 409, `{"error":"conflict"}`, `{"error":"conflict"}`},
		{"raw text", "text/plain", 502, "Bad Gateway from proxy", "Bad Gateway from proxy"},
		{"empty body", "text/plain", 503, "", "HTTP error! status: 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, nil)

			_, err := c.Get(context.Background(), "/trains/")
			require.Error(t, err)

			var re *RequestError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, KindRequestFailed, re.Kind)
			assert.Equal(t, tt.status, re.Status)
			assert.Equal(t, tt.want, re.Message)
			assert.Equal(t, tt.want, c.Error())
		})
	}
}

func TestPost_ValidationDetail(t *testing.T) {
	auth := &fakeAuth{token: "t"}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/branding/", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Acme", body["advertiser_name"])
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":"end_date before start_date"}`)
	}, auth)

	_, err := c.Post(context.Background(), "/branding/", map[string]any{"advertiser_name": "Acme"})
	require.Error(t, err)
	assert.Equal(t, "end_date before start_date", err.Error())
	assert.Equal(t, "end_date before start_date", c.Error())
	assert.Equal(t, 0, auth.Logouts())
}

func TestMultipart_NeverJSONContentType(t *testing.T) {
	var contentType string
	var field, fileBody string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		field = r.FormValue("data_type")
		f, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		fileBody = string(data)
		writeJSON(w, 200, `{"success":true}`)
	}, nil)

	mp := NewMultipart()
	require.NoError(t, mp.AddFile("file", "trains.csv", "text/csv", strings.NewReader("a,b\n1,2\n")))
	require.NoError(t, mp.AddField("data_type", "trains"))

	// Even an explicit JSON override must not reach the wire.
	_, err := c.Post(context.Background(), "/upload/csv", mp, WithHeader("Content-Type", "application/json"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="), contentType)
	assert.NotContains(t, contentType, "application/json")
	assert.Equal(t, "trains", field)
	assert.Equal(t, "a,b\n1,2\n", fileBody)
}

func TestPost_FormValues(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "asha", r.PostForm.Get("username"))
		writeJSON(w, 200, `{"access_token":"x"}`)
	}, nil)

	_, err := c.Post(context.Background(), "/auth/login", url.Values{"username": {"asha"}, "password": {"pw"}})
	require.NoError(t, err)
}

func TestHeaderOverrides(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, 200, `{}`)
	}, &fakeAuth{token: "session"})

	_, err := c.Get(context.Background(), "/trains/", WithHeaders(map[string]string{
		"Authorization": "Bearer override",
		"Accept":        "text/csv",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Bearer override", got.Get("Authorization"))
	assert.Equal(t, "text/csv", got.Get("Accept"))
}

func TestIdenticalCallsAreNotDeduplicated(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		if n == 1 {
			writeJSON(w, 500, `{"detail":"first failed"}`)
			return
		}
		writeJSON(w, 200, `[]`)
	}, nil)

	_, err := c.Get(context.Background(), "/trains/")
	require.Error(t, err)
	assert.Equal(t, "first failed", c.Error())

	_, err = c.Get(context.Background(), "/trains/")
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, "", c.Error(), "second call cleared the error on start")
	assert.False(t, c.Loading())
}

func TestConcurrentCallsLastWriterWins(t *testing.T) {
	slowRelease := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			<-slowRelease
			writeJSON(w, 500, `{"detail":"slow failed"}`)
			return
		}
		writeJSON(w, 200, `[]`)
	}, nil)

	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		_, _ = c.Get(context.Background(), "/slow")
	}()
	require.Eventually(t, func() bool { return c.InFlight() == 1 }, time.Second, 5*time.Millisecond)

	_, err := c.Get(context.Background(), "/fast")
	require.NoError(t, err)
	// The fast call resolved first and cleared loading although /slow is pending.
	assert.False(t, c.Loading())
	assert.Equal(t, 1, c.InFlight())

	close(slowRelease)
	<-slowDone
	assert.Equal(t, "slow failed", c.Error())
	assert.Equal(t, 0, c.InFlight())
}

func TestMalformedEndpoint(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, nil)

	_, err := c.Get(context.Background(), "trains")
	require.Error(t, err)
	assert.Equal(t, KindNetworkOrParse, KindOf(err))
	assert.Contains(t, c.Error(), "malformed URL")
	assert.False(t, c.Loading())
	assert.Equal(t, int32(0), hits.Load())
}

func TestCancellation(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, nil)
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		assert.Eventually(t, func() bool { return c.InFlight() == 1 }, time.Second, 5*time.Millisecond)
	}()

	_, err := c.Get(ctx, "/ai/generate-plan")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, KindNetworkOrParse, KindOf(err))
	assert.False(t, c.Loading())
}

func TestClearError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, `{"detail":"nope"}`)
	}, nil)

	_, _ = c.Delete(context.Background(), "/trains/9")
	require.Equal(t, "nope", c.Error())
	c.ClearError()
	assert.Equal(t, "", c.Error())
}

func TestVerbs(t *testing.T) {
	var methods []string
	var mu sync.Mutex
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		writeJSON(w, 200, `{}`)
	}, nil)

	ctx := context.Background()
	_, err := c.Get(ctx, "/x")
	require.NoError(t, err)
	_, err = c.Post(ctx, "/x", map[string]int{"a": 1})
	require.NoError(t, err)
	_, err = c.Put(ctx, "/x", map[string]int{"a": 1})
	require.NoError(t, err)
	_, err = c.Patch(ctx, "/x", nil)
	require.NoError(t, err)
	_, err = c.Delete(ctx, "/x")
	require.NoError(t, err)

	assert.Equal(t, []string{"GET", "POST", "PUT", "PATCH", "DELETE"}, methods)
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []RequestInfo
	finished []Result
}

func (o *recordingObserver) RequestStarted(info RequestInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, info)
}

func (o *recordingObserver) RequestFinished(_ RequestInfo, res Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, res)
}

func TestObserverNotified(t *testing.T) {
	obs := &recordingObserver{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 418, `{"detail":"teapot"}`)
	}, nil, WithObserver(obs), WithObserver(NewLogObserver(nil)))

	_, err := c.Get(context.Background(), "/chatbot/capabilities")
	require.Error(t, err)

	require.Len(t, obs.started, 1)
	require.Len(t, obs.finished, 1)
	assert.Equal(t, "/chatbot/capabilities", obs.started[0].Endpoint)
	assert.NotEmpty(t, obs.started[0].ID)
	assert.Equal(t, 418, obs.finished[0].Status)
	assert.Equal(t, KindRequestFailed, KindOf(obs.finished[0].Err))
}
