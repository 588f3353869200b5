package splatpress_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/splatpress"
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/schema"
	"github.com/hupe1980/splatpress/testutil"
)

// Example_encodeDecode round-trips a generated scene.
func Example_encodeDecode() {
	dir, err := os.MkdirTemp("", "splatpress-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	ds, err := testutil.SplatDataset(testutil.NewRNG(1), schema.Default(), 1000)
	if err != nil {
		log.Fatal(err)
	}
	in := filepath.Join(dir, "scene.ply")
	if err := ply.NewWriter(nil).WriteFile(in, ds, ply.BinaryLittleEndian); err != nil {
		log.Fatal(err)
	}

	sp, err := splatpress.NewBuilder().Bits(16).Build()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	enc, err := sp.Encode(ctx, in, filepath.Join(dir, "scene"))
	if err != nil {
		log.Fatal(err)
	}
	dec, err := sp.Decode(ctx, filepath.Join(dir, "scene"), filepath.Join(dir, "restored.ply"))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("encoded:", enc.Points, "files:", len(enc.Files))
	fmt.Println("decoded:", dec.Points)
	// Output:
	// encoded: 1000 files: 2
	// decoded: 1000
}
