package excel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lotogrid/domain/core"
	"lotogrid/domain/grid"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDraws_CaixaCSVLayout(t *testing.T) {
	path := writeCSV(t, `Concurso,Data do Sorteio,Bola1,Bola2,Bola3,Bola4,Bola5,Bola6
1,11/03/1996,41,5,4,52,30,33
2,18/03/1996,9,39,37,49,43,41
`)
	reader := NewDrawReader(grid.MegaSena(), path)
	draws, err := reader.ReadDraws()
	require.NoError(t, err)
	require.Len(t, draws, 2)

	assert.Equal(t, 1, draws[0].Contest)
	assert.Equal(t, []int{4, 5, 30, 33, 41, 52}, draws[0].Numbers)
	assert.Equal(t, time.Date(1996, 3, 11, 0, 0, 0, 0, time.UTC), draws[0].Date)
	assert.Equal(t, []int{9, 37, 39, 41, 43, 49}, draws[1].Numbers)
}

func TestReadDraws_PositionalFallback(t *testing.T) {
	path := writeCSV(t, `id,when,n1,n2,n3,n4,n5,n6
10,2020-05-01,1,2,3,4,5,6
`)
	reader := NewDrawReader(grid.MegaSena(), path)
	draws, err := reader.ReadDraws()
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, 10, draws[0].Contest)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, draws[0].Numbers)
	assert.Equal(t, 2020, draws[0].Date.Year())
}

func TestReadDraws_RejectsCorruptRows(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "duplicate contest",
			csv: `Concurso,Data,Bola1,Bola2,Bola3,Bola4,Bola5,Bola6
1,11/03/1996,1,2,3,4,5,6
1,18/03/1996,7,8,9,10,11,12
`,
		},
		{
			name: "contest out of order",
			csv: `Concurso,Data,Bola1,Bola2,Bola3,Bola4,Bola5,Bola6
2,18/03/1996,7,8,9,10,11,12
1,11/03/1996,1,2,3,4,5,6
`,
		},
		{
			name: "ball out of range",
			csv: `Concurso,Data,Bola1,Bola2,Bola3,Bola4,Bola5,Bola6
1,11/03/1996,1,2,3,4,5,61
`,
		},
		{
			name: "non-numeric ball",
			csv: `Concurso,Data,Bola1,Bola2,Bola3,Bola4,Bola5,Bola6
1,11/03/1996,1,2,3,4,5,x
`,
		},
		{
			name: "header only",
			csv:  "Concurso,Data,Bola1,Bola2,Bola3,Bola4,Bola5,Bola6\n",
		},
		{
			name: "wrong ball column count",
			csv: `Concurso,Data,Bola1,Bola2,Bola3
1,11/03/1996,1,2,3
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewDrawReader(grid.MegaSena(), writeCSV(t, tt.csv))
			_, err := reader.ReadDraws()
			assert.True(t, core.IsCode(err, core.CodeIngestError), "got %v", err)
		})
	}
}

func TestReadDraws_MissingFile(t *testing.T) {
	reader := NewDrawReader(grid.MegaSena(), filepath.Join(t.TempDir(), "nope.xlsx"))
	_, err := reader.ReadDraws()
	assert.True(t, core.IsCode(err, core.CodeIngestError))
}

func TestReadDraws_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1",
		&[]interface{}{"Concurso", "Data do Sorteio", "Bola1", "Bola2", "Bola3", "Bola4", "Bola5", "Bola6"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2",
		&[]interface{}{1, "11/03/1996", 41, 5, 4, 52, 30, 33}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3",
		&[]interface{}{2, "18/03/1996", 9, 39, 37, 49, 43, 41}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	reader := NewDrawReader(grid.MegaSena(), path)
	draws, err := reader.ReadDraws()
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.Equal(t, []int{4, 5, 30, 33, 41, 52}, draws[0].Numbers)
	assert.Equal(t, 2, draws[1].Contest)
}
