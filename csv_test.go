package gaucho

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t, "plants.csv", "name;capacity;built\nDoel 4;1039.5;1985\nwind NA;NA;\n")
	g := NewGdalToolbox()
	f, err := g.ReadCSV(path, CSVOptions{
		Delimiter: ';',
		Types:     map[string]string{"capacity": TypeFloat, "built": TypeInt},
	})
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 2 {
		t.Fatalf("got %d rows, want 2", f.Len())
	}
	first := f.Features[0].Attrs
	if first["name"] != "Doel 4" || first["capacity"] != 1039.5 || first["built"] != int64(1985) {
		t.Errorf("first row = %v", first)
	}
	second := f.Features[1].Attrs
	if second["capacity"] != nil || second["built"] != nil {
		t.Errorf("NA/empty not nil: %v", second)
	}
}

func TestReadCSVLatin1(t *testing.T) {
	enc := charmap.Windows1252.NewEncoder()
	raw, err := enc.String("gemeente\nLiège\n")
	if err != nil {
		t.Fatal(err)
	}
	path := writeTempCSV(t, "latin1.csv", raw)
	g := NewGdalToolbox()
	f, err := g.ReadCSV(path, CSVOptions{Charset: "latin1"})
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Features[0].Attrs["gemeente"]; got != "Liège" {
		t.Errorf("got %q", got)
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	g := NewGdalToolbox()
	if _, err := g.ReadCSV(filepath.Join(t.TempDir(), "nope.csv"), CSVOptions{}); err == nil {
		t.Fatal("expected error")
	}
}
