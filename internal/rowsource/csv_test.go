package rowsource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadCSV_SemicolonHeaderAndQuotes(t *testing.T) {
	in := "\ufeffid_product; name ;description\n" +
		"1;Red mug;\"<p>Ceramic; glazed</p>\"\n" +
		"2;Blue \"big\" mug;plain\n"

	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "1", rows[0]["id_product"])
	require.Equal(t, "Red mug", rows[0]["name"])
	require.Equal(t, "<p>Ceramic; glazed</p>", rows[0]["description"])
	require.Equal(t, `Blue "big" mug`, rows[1]["name"])
}

func TestReadCSV_RaggedRows(t *testing.T) {
	in := "id_product;name;quantity\n" +
		"1;Short\n" +
		"2;Long;5;extra;cells\n"

	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, ok := rows[0]["quantity"]
	require.False(t, ok, "missing trailing column should be absent")
	require.Equal(t, "5", rows[1]["quantity"])
	require.Len(t, rows[1], 3)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("id_product;name\n"))
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoHeader)
}
