package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"payslip/domain/core"
	"payslip/ports"

	gh "github.com/google/go-github/v75/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.BlobStore = (*BlobStore)(nil)

type putBody struct {
	Message string `json:"message"`
	Content []byte `json:"content"`
	SHA     string `json:"sha"`
	Branch  string `json:"branch"`
}

// fakeContents speaks just enough of the contents API for one file.
type fakeContents struct {
	mu    sync.Mutex
	sha   string
	puts  []putBody
	fails int
}

func (f *fakeContents) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path != "/repos/acme/payroll/contents/salary_data.xlsx" {
		http.NotFound(w, r)
		return
	}
	if f.fails > 0 {
		f.fails--
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		if f.sha == "" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"type": "file", "name": "salary_data.xlsx", "path": "salary_data.xlsx", "sha": f.sha, "size": 4,
		})
	case http.MethodPut:
		var body putBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.SHA != f.sha {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"sha does not match"}`))
			return
		}
		f.puts = append(f.puts, body)
		f.sha = core.NewHash(body.Content).String()[:40]
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": map[string]interface{}{"sha": f.sha, "path": "salary_data.xlsx"},
			"commit":  map[string]interface{}{"sha": "c0ffee"},
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, fake *fakeContents, branch string) *BlobStore {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := gh.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return NewBlobStore(client, "acme", "payroll", branch, nil)
}

func TestStatNotFound(t *testing.T) {
	store := newTestStore(t, &fakeContents{}, "")

	_, err := store.Stat(context.Background(), "salary_data.xlsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBlobNotFound)
}

func TestStatUnavailable(t *testing.T) {
	store := newTestStore(t, &fakeContents{sha: "abc", fails: 1}, "")

	_, err := store.Stat(context.Background(), "salary_data.xlsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRemoteUnavailable)
	assert.NotErrorIs(t, err, core.ErrBlobNotFound)
}

func TestCreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	fake := &fakeContents{}
	store := newTestStore(t, fake, "main")

	created, err := store.Create(ctx, "salary_data.xlsx", []byte("v1"), "Update salary data")
	require.NoError(t, err)
	assert.False(t, created.Revision.IsEmpty())

	meta, err := store.Stat(ctx, "salary_data.xlsx")
	require.NoError(t, err)
	assert.Equal(t, created.Revision, meta.Revision)

	updated, err := store.Update(ctx, "salary_data.xlsx", []byte("v2"), meta.Revision, "Update salary data")
	require.NoError(t, err)
	assert.NotEqual(t, created.Revision, updated.Revision)

	require.Len(t, fake.puts, 2)
	assert.Equal(t, []byte("v1"), fake.puts[0].Content)
	assert.Empty(t, fake.puts[0].SHA)
	assert.Equal(t, []byte("v2"), fake.puts[1].Content)
	assert.Equal(t, meta.Revision.String(), fake.puts[1].SHA)
	assert.Equal(t, "main", fake.puts[1].Branch)
	assert.Equal(t, "Update salary data", fake.puts[1].Message)
}

func TestUpdateStaleRevision(t *testing.T) {
	store := newTestStore(t, &fakeContents{sha: "current"}, "")

	_, err := store.Update(context.Background(), "salary_data.xlsx", []byte("v2"), core.Revision("stale"), "msg")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRevisionConflict)
}

func TestName(t *testing.T) {
	store := NewBlobStore(gh.NewClient(nil), "acme", "payroll", "", nil)
	assert.Equal(t, "github:acme/payroll", store.Name())
}
