package pipeline

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/seed/pkg/cache"
	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/constraint"
	"github.com/matzehuels/seed/pkg/errors"
	"github.com/matzehuels/seed/pkg/io"
	"github.com/matzehuels/seed/pkg/observability"
)

const cardJSON = `{
  "elements": [
    {
      "type": "frame",
      "name": "Card",
      "properties": {"width": "320px", "height": "200px", "layout": "vertical", "gap": "8px", "padding": "16px"},
      "children": [
        {"type": "frame", "name": "Header", "properties": {"height": "40px"}},
        {"type": "frame", "name": "Body", "properties": {"height": "100px"}}
      ]
    }
  ]
}`

func loadCard(t *testing.T) *ast.Document {
	t.Helper()
	doc, err := Parse([]byte(cardJSON), io.FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return doc
}

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	mu                sync.Mutex
	hits, misses, set int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.set++
}

func TestRunnerLayoutCaches(t *testing.T) {
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	r := fileRunner(t)
	doc := loadCard(t)

	first, err := r.Layout(ctx, doc, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if first.CacheInfo.LayoutHit {
		t.Error("first Layout() should miss the cache")
	}
	if first.Stats.Elements != 3 || first.Stats.Nodes != 3 {
		t.Errorf("Stats = %+v, want 3 elements and 3 nodes", first.Stats)
	}

	second, err := r.Layout(ctx, doc, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second Layout() should hit the cache")
	}
	if second.DocHash != first.DocHash {
		t.Errorf("DocHash = %s, want %s", second.DocHash, first.DocHash)
	}
	body := second.Tree.ByName("Body")
	if body == nil {
		t.Fatal("cached tree missing Body")
	}
	if want := first.Tree.ByName("Body").Bounds; body.Bounds != want {
		t.Errorf("cached Body = %v, want %v", body.Bounds, want)
	}

	if hooks.hits != 1 || hooks.misses != 1 || hooks.set != 1 {
		t.Errorf("hooks = %d hits, %d misses, %d sets; want 1, 1, 1", hooks.hits, hooks.misses, hooks.set)
	}

	// Different options use a different key
	third, err := r.Layout(ctx, doc, Options{ViewportWidth: 1024})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("Layout() with new options should miss the cache")
	}

	// Refresh skips the read
	fourth, err := r.Layout(ctx, doc, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.LayoutHit {
		t.Error("Layout() with Refresh should not read the cache")
	}
}

func TestRunnerLayoutBounds(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Layout(context.Background(), loadCard(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	header := res.Tree.ByName("Header")
	body := res.Tree.ByName("Body")
	if header.Bounds.Y != 16 || header.Bounds.Height != 40 {
		t.Errorf("Header = %v, want y 16 height 40", header.Bounds)
	}
	if body.Bounds.Y != 64 {
		t.Errorf("Body.Y = %v, want 64", body.Bounds.Y)
	}
}

func TestRunnerSolveWithSuggestion(t *testing.T) {
	doc := &ast.Document{Elements: []ast.Element{
		&ast.Frame{Base: ast.Base{Name: "Box", Constraints: []ast.Constraint{
			{Kind: ast.Inequality{Property: "width", Op: ast.OpGe, Value: ast.Pixels(50)}},
		}}},
	}}
	r := NewRunner(nil, nil, nil)

	res, err := r.Solve(context.Background(), doc, Options{
		Suggestions: []Suggestion{{Element: "Box", Property: "width", Value: 120}},
	})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	id, ok := res.System.ElementID("Box")
	if !ok {
		t.Fatal("Box not registered")
	}
	if w, _ := res.Solution.Get(id, constraint.PropWidth); math.Abs(w-120) > 1e-6 {
		t.Errorf("Box.width = %v, want 120", w)
	}

	// The required bound wins over the suggestion
	res, err = r.Solve(context.Background(), doc, Options{
		Suggestions: []Suggestion{{Element: "Box", Property: "width", Value: 10}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if w, _ := res.Solution.Get(id, constraint.PropWidth); math.Abs(w-50) > 1e-6 {
		t.Errorf("Box.width = %v, want 50", w)
	}

	_, err = r.Solve(context.Background(), doc, Options{
		Suggestions: []Suggestion{{Element: "Missing", Property: "width", Value: 10}},
	})
	if !errors.Is(err, errors.ErrCodeUnknownProperty) {
		t.Errorf("GetCode() = %q, want %q", errors.GetCode(err), errors.ErrCodeUnknownProperty)
	}
}

func TestRunnerSolveErrors(t *testing.T) {
	doc := &ast.Document{Elements: []ast.Element{
		&ast.Frame{Base: ast.Base{Name: "Box", Constraints: []ast.Constraint{
			{Kind: ast.Equality{Property: "width", Value: ast.Pixels(100)}},
			{Kind: ast.Equality{Property: "width", Value: ast.Pixels(200)}},
		}}},
	}}
	_, err := NewRunner(nil, nil, nil).Layout(context.Background(), doc, Options{})
	if !errors.Is(err, errors.ErrCodeUnsatisfiable) {
		t.Errorf("GetCode() = %q, want %q (%v)", errors.GetCode(err), errors.ErrCodeUnsatisfiable, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRunner(nil, nil, nil).Solve(ctx, doc, Options{}); err != context.Canceled {
		t.Errorf("Solve(canceled) = %v, want context.Canceled", err)
	}

	if _, err := NewRunner(nil, nil, nil).Layout(context.Background(), doc, Options{ViewportWidth: -1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Layout(bad options) = %v, want INVALID_INPUT", err)
	}
}

func TestRunnerGraph(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	doc := loadCard(t)

	data, hit, err := r.Graph(ctx, doc, Options{Detailed: true})
	if err != nil {
		t.Fatalf("Graph() error: %v", err)
	}
	if hit {
		t.Error("first Graph() should miss the cache")
	}
	if !bytes.HasPrefix(data, []byte("digraph G")) {
		t.Errorf("Graph() = %q, want DOT", data)
	}
	if !strings.Contains(string(data), "Card.width = 320px") {
		t.Errorf("detailed graph missing property constraint:\n%s", data)
	}

	again, hit, err := r.Graph(ctx, doc, Options{Detailed: true})
	if err != nil {
		t.Fatal(err)
	}
	if !hit || !bytes.Equal(again, data) {
		t.Error("second Graph() should return the cached bytes")
	}
}

func TestHashDocumentIgnoresFormatting(t *testing.T) {
	a, err := Parse([]byte(cardJSON), io.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	compact := strings.Join(strings.Fields(cardJSON), " ")
	b, err := Parse([]byte(compact), io.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	ha, _ := HashDocument(a)
	hb, _ := HashDocument(b)
	if ha != hb {
		t.Errorf("HashDocument() differs for reformatted input: %s vs %s", ha, hb)
	}
}
