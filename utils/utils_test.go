package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestZeroIndex(t *testing.T) {
	cases := []struct {
		num, width int
		want       string
	}{
		{7, 3, "007"},
		{42, 3, "042"},
		{1234, 3, "1234"},
		{0, 4, "0000"},
	}
	for _, tc := range cases {
		if got := ZeroIndex(tc.num, tc.width); got != tc.want {
			t.Errorf("ZeroIndex(%d, %d) = %q, want %q", tc.num, tc.width, got, tc.want)
		}
	}
}

func TestCreateFolderIfNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	created, err := CreateFolderIfNotExists(path)
	if err != nil || !created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	created, err = CreateFolderIfNotExists(path)
	if err != nil || created {
		t.Fatalf("second call: created=%v err=%v", created, err)
	}
	if fi, e := os.Stat(path); e != nil || !fi.IsDir() {
		t.Fatal("folder missing")
	}
}

func TestGetUniqSubDir(t *testing.T) {
	parent := t.TempDir()
	a, err := GetUniqSubDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GetUniqSubDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("subdirs not unique")
	}
}

func TestGetFilenameWithoutExt(t *testing.T) {
	if got := GetFilenameWithoutExt("/data/parcels.shp"); got != "parcels" {
		t.Errorf("got %q", got)
	}
	if got := GetFilenameWithoutExt("plain"); got != "plain" {
		t.Errorf("got %q", got)
	}
}

func TestLatin1Roundtrip(t *testing.T) {
	in := []byte("Liège, België")
	enc, err := Utf8ToLatin1(in)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := Latin1ToUtf8(enc)
	if err != nil {
		t.Fatal(err)
	}
	if string(dec) != string(in) {
		t.Errorf("got %q", dec)
	}
}

func TestContains(t *testing.T) {
	group := []string{"a", "b", "c"}
	if !ContainsAll(group, []string{"a", "c"}) || ContainsAll(group, []string{"a", "z"}) {
		t.Error("ContainsAll wrong")
	}
	if !ContainsAny(group, []string{"z", "c"}) || ContainsAny(group, []string{"z"}) {
		t.Error("ContainsAny wrong")
	}
}

func TestPurifyForUtf8(t *testing.T) {
	if got := PurifyForUtf8("ok\x00\xffrest"); got != "okrest" {
		t.Errorf("got %q", got)
	}
}
