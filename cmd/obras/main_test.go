package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

const sampleCSV = `nombre;barrio;comuna;tipo;etapa;monto;fecha_inicio;plazo_meses
Plaza Houssay;Recoleta;2;Hidraulica;Finalizada;$1,500;15/01/2020;12
Puente Alsina;Boca;4;Transporte;En ejecucion;$2,000;01/03/2021;30
`

type harness struct {
	t   *testing.T
	csv string
	db  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	csv := filepath.Join(dir, "obras.csv")
	require.NoError(t, os.WriteFile(csv, []byte(sampleCSV), 0o644))
	return &harness{t: t, csv: csv, db: filepath.Join(dir, "obras.db")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--csv", h.csv, "--db", h.db, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBatchRun(t *testing.T) {
	h := newHarness(t)

	out, err := h.run()
	require.NoError(t, err)
	assert.Contains(t, out, "Rows loaded:    2")
	assert.Contains(t, out, "Obras por etapa:")
	assert.Contains(t, out, "$3,500.00")

	out, err = h.run()
	require.NoError(t, err)
	assert.Contains(t, out, "initial load skipped")
}

func TestWorkCommands(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("import")
	require.NoError(t, err)

	out, err := h.run("work", "create", "--name", "Nueva Plaza", "--type", "hidra", "--barrio", "recoleta")
	require.NoError(t, err)
	assert.Contains(t, out, "Obra 3: Nueva Plaza (Proyecto)")

	out, err = h.run("work", "progress", "3", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress:   40.00%")

	_, err = h.run("work", "progress", "3", "150")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)

	out, err = h.run("work", "finish", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "(Finalizada)")
	assert.Contains(t, out, "Progress:   100.00%")

	_, err = h.run("work", "show", "99")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateRejectsUnresolvedReference(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("import")
	require.NoError(t, err)

	_, err = h.run("work", "create", "--name", "Obra", "--type", "vivienda")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "Hidraulica")
}

func TestSearchCommand(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("import")
	require.NoError(t, err)

	out, err := h.run("search", "barrio", "boca")
	require.NoError(t, err)
	assert.Contains(t, out, "barrio (exact)")

	out, err = h.run("search", "tipo_obra", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "2 tipo_obra entries match")

	_, err = h.run("search", "planeta", "x")
	assert.Error(t, err)
}
