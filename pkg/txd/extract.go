package txd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// maxParallelWrites bounds the per-.txd DDS-write worker pool (spec §5
// "parallelism is permitted within a single built-in action").
const maxParallelWrites = 8

// ExtractFile reads path fully into memory, segments and extracts its
// textures, and writes one .dds file per non-placeholder texture into
// outputDir. Returns the count of textures exported.
//
// A fatal condition anywhere in segmentation or texture parsing aborts
// extraction of this one file (spec §4.8, §7 "abort the single file;
// proceed to the next input in the batch" — the "proceed to next input"
// part is the caller's responsibility when processing many .txd files).
func ExtractFile(path, outputDir string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("txd: read %s: %w", path, err)
	}

	segments, err := Scan(data)
	if err != nil {
		return 0, err
	}

	var textures []Texture
	for _, seg := range segments {
		segTextures, err := ParseSegment(seg)
		textures = append(textures, segTextures...)
		if err != nil {
			return 0, err
		}
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("txd: create output dir: %w", err)
	}

	var (
		mu      sync.Mutex
		written int
		sem     = semaphore.NewWeighted(maxParallelWrites)
	)
	g, ctx := errgroup.WithContext(context.Background())

	for _, tex := range textures {
		tex := tex
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			ok, err := writeOne(tex, outputDir)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				written++
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return written, err
	}
	return written, nil
}

func writeOne(tex Texture, outputDir string) (bool, error) {
	header, pixels, err := Convert(tex)
	if err != nil {
		return false, err
	}

	name := sanitizeName(tex.Name, tex.FileOffset)
	outPath := filepath.Join(outputDir, name+".dds")

	f, err := os.Create(outPath)
	if err != nil {
		return false, fatalf("txd: write %s: %v", outPath, err)
	}
	defer f.Close()

	if _, err := f.Write(header); err != nil {
		return false, fatalf("txd: write %s: %v", outPath, err)
	}
	if _, err := f.Write(pixels); err != nil {
		return false, fatalf("txd: write %s: %v", outPath, err)
	}
	return true, nil
}
