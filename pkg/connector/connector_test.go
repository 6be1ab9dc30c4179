package connector

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/config"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/converter"
)

func sqliteConfig(t *testing.T) *config.StoreConfig {
	t.Helper()
	return &config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "obras.db"),
	}
}

func TestFactoryOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f, err := NewConnectorFactory(sqliteConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)

	first, err := f.Open(ctx)
	require.NoError(t, err)
	second, err := f.Open(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, converter.DialectSQLite, first.Dialect())

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestSQLiteEnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()
	conn, err := NewSQLiteConnector(ctx, sqliteConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Validate(ctx))

	_, err = conn.ExecWithTimeout(ctx, `CREATE TABLE parents (id INTEGER PRIMARY KEY)`, time.Second)
	require.NoError(t, err)
	_, err = conn.ExecWithTimeout(ctx,
		`CREATE TABLE children (id INTEGER PRIMARY KEY, parent_id INTEGER REFERENCES parents (id))`, time.Second)
	require.NoError(t, err)

	_, err = conn.ExecWithTimeout(ctx, `INSERT INTO children (parent_id) VALUES (?)`, time.Second, 42)
	assert.Error(t, err)

	_, err = conn.ExecWithTimeout(ctx, `INSERT INTO parents (id) VALUES (?)`, time.Second, 42)
	require.NoError(t, err)
	_, err = conn.ExecWithTimeout(ctx, `INSERT INTO children (parent_id) VALUES (?)`, time.Second, 42)
	require.NoError(t, err)

	var ids []int64
	require.NoError(t, conn.SelectWithTimeout(ctx, &ids, `SELECT parent_id FROM children`, time.Second))
	assert.Equal(t, []int64{42}, ids)
}

func TestConnectorCloseTwice(t *testing.T) {
	conn, err := NewSQLiteConnector(context.Background(), sqliteConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NoError(t, conn.Close())
	assert.NoError(t, conn.Close())
}

func TestFactoryRejectsUnknownDriver(t *testing.T) {
	f, err := NewConnectorFactory(&config.StoreConfig{Driver: "oracle"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = f.Open(context.Background())
	assert.Error(t, err)
}
