package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"payslip/adapters/excel"
	"payslip/domain/core"
	"payslip/domain/payroll"
	"payslip/internal/config"
	payrollsvc "payslip/internal/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Data:   config.DataConfig{File: filepath.Join(t.TempDir(), "salary_data.xlsx"), MaxUploadMB: 20},
		Slip:   config.SlipConfig{FontPath: "../../assets/fonts/DejaVuSansCondensed.ttf"},
		Admin:  config.AdminConfig{Password: "s3cret"},
		Remote: config.RemoteConfig{Kind: config.RemoteNone, Path: "salary_data.xlsx", Timeout: time.Second},
		Log:    config.LogConfig{Level: "ERROR"},
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewWiresLocalServices(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Blobs)
	assert.Nil(t, c.DB)

	_, err = c.Lookup.Find(ctx, "1023")
	assert.True(t, core.IsDataUnavailable(err))

	data, err := excel.Encode(
		[]string{payroll.ColumnID, payroll.ColumnName},
		[]payroll.Record{{payroll.ColumnID: "1023", payroll.ColumnName: "Ali"}},
	)
	require.NoError(t, err)

	result, err := c.Updater.Replace(ctx, "s3cret", payrollsvc.Upload{FileName: "salary.xlsx", Data: data})
	require.NoError(t, err)
	assert.False(t, result.Mirrored)
	assert.Empty(t, result.Mirror)

	_, doc, err := c.Lookup.Slip(ctx, "1023")
	require.NoError(t, err)
	assert.Equal(t, "Salary_1023.pdf", doc.FileName)
}

func TestNewGitHubRemote(t *testing.T) {
	cfg := testConfig(t)
	cfg.Remote.Kind = config.RemoteGitHub
	cfg.Remote.GitHubToken = "token"
	cfg.Remote.GitHubRepo = "acme/payroll"

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, c.Blobs)
	assert.Equal(t, "github:acme/payroll", c.Blobs.Name())
}

func TestNewGitHubRemoteBadRepo(t *testing.T) {
	cfg := testConfig(t)
	cfg.Remote.Kind = config.RemoteGitHub
	cfg.Remote.GitHubRepo = "payroll"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewSQLiteRemote(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Remote.Kind = config.RemoteSQLite
	cfg.Remote.SQLitePath = filepath.Join(t.TempDir(), "mirror.db")

	c, err := New(ctx, cfg)
	require.NoError(t, err)
	defer c.Close()
	require.NotNil(t, c.DB)
	assert.Equal(t, "sqlite3", c.Blobs.Name())

	data, err := excel.Encode(
		[]string{payroll.ColumnID, payroll.ColumnName},
		[]payroll.Record{{payroll.ColumnID: "1", payroll.ColumnName: "Ali"}},
	)
	require.NoError(t, err)

	first, err := c.Updater.Replace(ctx, "s3cret", payrollsvc.Upload{FileName: "a.xlsx", Data: data})
	require.NoError(t, err)
	assert.True(t, first.Mirrored)
	assert.True(t, first.Created)

	second, err := c.Updater.Replace(ctx, "s3cret", payrollsvc.Upload{FileName: "a.xlsx", Data: data})
	require.NoError(t, err)
	assert.True(t, second.Mirrored)
	assert.False(t, second.Created, "second upload updates the existing row")
}
