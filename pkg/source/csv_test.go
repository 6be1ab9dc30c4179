package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/charmap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestReadDecodesLatin1(t *testing.T) {
	r, err := NewCSVReader(';', zaptest.NewLogger(t))
	require.NoError(t, err)

	data := latin1(t, "nombre;etapa;barrio\nPlaza Ñandú;En ejecución;Monserrat\n")
	table, err := r.Read(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"nombre", "etapa", "barrio"}, table.Header)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"Plaza Ñandú", "En ejecución", "Monserrat"}, table.Records[0])
}

func TestReadPadsShortRecords(t *testing.T) {
	r, err := NewCSVReader(';', zaptest.NewLogger(t))
	require.NoError(t, err)

	table, err := r.Read(context.Background(), bytes.NewReader([]byte("a;b;c\n1\n1;2;3;4\n")))
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"1", "", ""}, table.Records[0])
	assert.Equal(t, []string{"1", "2", "3"}, table.Records[1])
}

func TestReadEmptyInput(t *testing.T) {
	r, err := NewCSVReader(';', zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = r.Read(context.Background(), bytes.NewReader(nil))
	assert.ErrorIs(t, err, model.ErrSourceRead)
}

func TestReadFileMissing(t *testing.T) {
	r, err := NewCSVReader(';', zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = r.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSourceNotFound)
	assert.NotErrorIs(t, err, model.ErrSourceRead)
	assert.Contains(t, err.Error(), "OBRAS_CSV_PATH")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obras.csv")
	require.NoError(t, os.WriteFile(path, latin1(t, "nombre;monto\nEscuela;$1,500\n"), 0o600))

	r, err := NewCSVReader(';', zaptest.NewLogger(t))
	require.NoError(t, err)

	table, err := r.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, table.Source)
	assert.Equal(t, [][]string{{"Escuela", "$1,500"}}, table.Records)
}

func TestNewCSVReaderRequiresLogger(t *testing.T) {
	_, err := NewCSVReader(';', nil)
	assert.Error(t, err)
}
