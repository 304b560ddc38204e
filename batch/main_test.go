package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/fumin/huf"
	"github.com/fumin/huf/internal/cli"
)

func TestParseConfig(t *testing.T) {
	defer func(c string) { *flagConfig = c }(*flagConfig)
	*flagConfig = `{"Src": "a", "Dst": "b", "Size": 512, "Verify": true}`

	config, err := parseConfig()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if config.Src != "a" || config.Dst != "b" || config.Size != 512 || !config.Verify {
		t.Errorf("%+v", config)
	}

	*flagConfig = `{"Src": `
	if _, err := parseConfig(); err == nil {
		t.Errorf("expected error")
	}
}

func TestRun(t *testing.T) {
	dir, err := ioutil.TempDir("", "batch.TestRun")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer os.RemoveAll(dir)
	src := filepath.Join(dir, "src")
	if err := os.Mkdir(src, 0755); err != nil {
		t.Fatalf("%v", err)
	}

	imgs := map[string]huf.Image{}
	imgs["a"], err = huf.NewImage([][]uint8{{10, 10}, {20, 30}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	imgs["b"], err = huf.NewImage([][]uint8{{0, 1, 2}, {3, 4, 5}, {6, 7, 255}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for name, img := range imgs {
		if err := cli.WritePNG(filepath.Join(src, name+".png"), img); err != nil {
			t.Fatalf("%+v", err)
		}
	}
	// Files that are not images are skipped.
	if err := ioutil.WriteFile(filepath.Join(src, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("%v", err)
	}

	dst := filepath.Join(dir, "dst", "huf")
	if err := run(Config{Src: src, Dst: dst, Verify: true}); err != nil {
		t.Fatalf("%+v", err)
	}

	files, err := ioutil.ReadDir(dst)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if len(files) != len(imgs) {
		t.Errorf("%d files", len(files))
	}
	for name, img := range imgs {
		decoded, err := huf.DecompressFromFile(filepath.Join(dst, name+".huf"))
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if !decoded.Equal(img) {
			t.Errorf("%s: %+v != %+v", name, decoded, img)
		}
	}
}

func TestVerify(t *testing.T) {
	dir, err := ioutil.TempDir("", "batch.TestVerify")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer os.RemoveAll(dir)

	img, err := huf.NewImage([][]uint8{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	name, err := huf.CompressToFile(img, filepath.Join(dir, "x.huf"))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := verify(name, img); err != nil {
		t.Errorf("%+v", err)
	}

	other, err := huf.NewImage([][]uint8{{1, 2}, {3, 5}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := verify(name, other); err == nil {
		t.Errorf("expected mismatch")
	}
}
