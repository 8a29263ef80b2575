package cli

import (
	"bytes"
	"context"
	"errors"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-skin-inspector/pkg/models"
)

func writeSolidPNG(t *testing.T, dir, name string, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	gray := writeSolidPNG(t, dir, "gray.png", color.RGBA{128, 128, 128, 255})
	garbage := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.png")

	stdout, _, err := execute(t, "analyze", "--workers", "2", "--no-progress", gray, garbage, missing)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var results []FileResult
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("Output is not a JSON array: %v\n%s", err, stdout)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if results[0].File != gray || results[0].Analysis.Acne.Severity != models.SeverityNone {
		t.Errorf("Unexpected gray result %+v", results[0])
	}
	if results[0].Analysis.IsDegraded() {
		t.Error("Solid gray image must not degrade")
	}
	if !results[1].Analysis.IsDegraded() || results[1].Error != "" {
		t.Errorf("Undecodable file should degrade without a read error, got %+v", results[1])
	}
	if !results[2].Analysis.IsDegraded() || results[2].Error == "" {
		t.Errorf("Missing file should degrade with a read error, got %+v", results[2])
	}
}

func TestAnalyze_PrettyAndProgress(t *testing.T) {
	gray := writeSolidPNG(t, t.TempDir(), "gray.png", color.RGBA{128, 128, 128, 255})

	stdout, stderr, err := execute(t, "analyze", "--pretty", "--sequential", gray)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "[\n  {") {
		t.Errorf("Expected indented output, got %q", stdout)
	}
	if !strings.Contains(stderr, "Analyzing") {
		t.Errorf("Expected progress bar on stderr, got %q", stderr)
	}
}

func TestAnalyze_InvalidWeights(t *testing.T) {
	gray := writeSolidPNG(t, t.TempDir(), "gray.png", color.RGBA{128, 128, 128, 255})

	if _, _, err := execute(t, "analyze", "--redness-divisor", "0", gray); err == nil {
		t.Error("Expected error for a zero divisor")
	}
}

func TestAnalyze_Interrupted(t *testing.T) {
	gray := writeSolidPNG(t, t.TempDir(), "gray.png", color.RGBA{128, 128, 128, 255})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs([]string{"analyze", "--no-progress", gray})
	err := root.ExecuteContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Interrupted batch must not print results, got %q", stdout.String())
	}
}

func TestAnalyze_RequiresFiles(t *testing.T) {
	if _, _, err := execute(t, "analyze"); err == nil {
		t.Error("Expected error without file arguments")
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if stdout != "skinscan "+Version+"\n" {
		t.Errorf("Unexpected version output %q", stdout)
	}
}
