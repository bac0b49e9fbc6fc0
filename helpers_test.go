package uasset

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// memProvider serves prebuilt segments by lower-cased path and counts loads.
type memProvider struct {
	mu       sync.Mutex
	packages map[string]Segments
	loads    map[string]int
}

func newMemProvider() *memProvider {
	return &memProvider{packages: make(map[string]Segments), loads: make(map[string]int)}
}

func (p *memProvider) add(path string, seg Segments) { p.packages[p.FixPath(path)] = seg }

func (p *memProvider) FixPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(path, "/"))
}

func (p *memProvider) LoadPackage(path string, opts ...ReadOption) (*Package, error) {
	key := p.FixPath(path)
	p.mu.Lock()
	p.loads[key]++
	seg, ok := p.packages[key]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return Open(path, seg, opts...)
}

func (p *memProvider) loadCount(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loads[p.FixPath(path)]
}

func rawBody(b []byte) Serializer {
	return SerializerFunc(func(w *ArchiveWriter) error {
		w.WriteBytes(b)
		return nil
	})
}

func mustBuild(t *testing.T, b *Builder) Segments {
	t.Helper()
	seg, err := b.Build()
	require.NoError(t, err)
	return seg
}

func mustOpen(t *testing.T, name string, seg Segments, opts ...ReadOption) *Package {
	t.Helper()
	pkg, err := Open(name, seg, opts...)
	require.NoError(t, err)
	return pkg
}

// testLogger returns a logger writing text records into the returned buffer.
func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// heroPackage has the exports Hero (Pawn) and Hat (Item) and a first import
// referring to Hero in package "Other".
func heroPackage(t *testing.T) Segments {
	t.Helper()
	b := NewBuilder()
	b.AddImport("/Script/Game", "Pawn", ImportIndex(1), "Hero")
	b.AddPackageImport("Other")
	pawn := b.AddClassImport("/Script/Game", "Pawn")
	item := b.AddClassImport("/Script/Game", "Item")
	b.AddExport("Hero", pawn, rawBody([]byte("hero")))
	b.AddExport("Hat", item, rawBody([]byte("hat")))
	return mustBuild(t, b)
}
