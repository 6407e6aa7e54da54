// Package github mirrors the dataset into a GitHub repository through the
// contents API. The blob revision is the file's git blob SHA.
package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"payslip/domain/core"
	"payslip/internal"
	"payslip/ports"

	gh "github.com/google/go-github/v75/github"
)

// BlobStore implements ports.BlobStore against one repository and branch.
type BlobStore struct {
	client *gh.Client
	owner  string
	repo   string
	branch string
	logger *internal.Logger
}

// NewClient builds an authenticated client with a bounded request timeout.
func NewClient(token string, timeout time.Duration) *gh.Client {
	return gh.NewClient(&http.Client{Timeout: timeout}).WithAuthToken(token)
}

// NewBlobStore creates a store. An empty branch means the repository default.
func NewBlobStore(client *gh.Client, owner, repo, branch string, logger *internal.Logger) *BlobStore {
	if logger == nil {
		logger = internal.Discard
	}
	return &BlobStore{client: client, owner: owner, repo: repo, branch: branch, logger: logger}
}

// Name identifies the store in logs.
func (s *BlobStore) Name() string {
	return fmt.Sprintf("github:%s/%s", s.owner, s.repo)
}

// Stat fetches the current SHA of key.
func (s *BlobStore) Stat(ctx context.Context, key string) (*ports.BlobMeta, error) {
	var opts *gh.RepositoryContentGetOptions
	if s.branch != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: s.branch}
	}

	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, key, opts)
	if err != nil {
		return nil, classify(key, resp, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: %s is a directory", core.ErrRemoteUnavailable, key)
	}

	s.logger.Trace("[GitHubStore] %s at %s", key, file.GetSHA())
	return &ports.BlobMeta{Key: key, Revision: core.Revision(file.GetSHA()), Size: int64(file.GetSize())}, nil
}

// Create commits key as a new file.
func (s *BlobStore) Create(ctx context.Context, key string, data []byte, message string) (*ports.BlobMeta, error) {
	res, resp, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, key, s.fileOptions(data, "", message))
	if err != nil {
		return nil, classify(key, resp, err)
	}
	return s.meta(key, data, res), nil
}

// Update commits new content for key on top of rev.
func (s *BlobStore) Update(ctx context.Context, key string, data []byte, rev core.Revision, message string) (*ports.BlobMeta, error) {
	res, resp, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, key, s.fileOptions(data, rev, message))
	if err != nil {
		return nil, classify(key, resp, err)
	}
	return s.meta(key, data, res), nil
}

func (s *BlobStore) fileOptions(data []byte, rev core.Revision, message string) *gh.RepositoryContentFileOptions {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: data,
	}
	if !rev.IsEmpty() {
		opts.SHA = gh.Ptr(rev.String())
	}
	if s.branch != "" {
		opts.Branch = gh.Ptr(s.branch)
	}
	return opts
}

func (s *BlobStore) meta(key string, data []byte, res *gh.RepositoryContentResponse) *ports.BlobMeta {
	meta := &ports.BlobMeta{Key: key, Size: int64(len(data))}
	if res != nil && res.Content != nil {
		meta.Revision = core.Revision(res.Content.GetSHA())
	}
	return meta
}

func classify(key string, resp *gh.Response, err error) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return core.NewBlobNotFoundError(key)
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %s: %v", core.ErrRevisionConflict, key, err)
		}
	}
	return fmt.Errorf("%w: %v", core.ErrRemoteUnavailable, err)
}
