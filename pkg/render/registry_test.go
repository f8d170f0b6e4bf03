package render

import (
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/validate"
)

// fakeBackend records render calls and hands out base handles. The inFlight
// counter detects overlapping calls when the backend claims it is not
// concurrent safe.
type fakeBackend struct {
	name string
	safe bool

	mu       sync.Mutex
	inFlight int
	overlap  bool
	renders  int
}

func (f *fakeBackend) Name() string             { return f.name }
func (f *fakeBackend) Capabilities() Capability { return CapRender | CapExportRaster }
func (f *fakeBackend) ConcurrentSafe() bool     { return f.safe }

func (f *fakeBackend) Render(nf *validate.Figure) (Handle, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > 1 {
		f.overlap = true
	}
	f.renders++
	f.mu.Unlock()

	h := NewBaseHandle(f.name, f.Capabilities())

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return &fakeHandle{BaseHandle: h, owner: f}, nil
}

type fakeHandle struct {
	BaseHandle
	owner *fakeBackend
}

func (h *fakeHandle) ExportRaster(w io.Writer, opts RasterOptions) error {
	h.owner.mu.Lock()
	h.owner.inFlight++
	if h.owner.inFlight > 1 {
		h.owner.overlap = true
	}
	h.owner.mu.Unlock()

	_, err := w.Write([]byte("png"))

	h.owner.mu.Lock()
	h.owner.inFlight--
	h.owner.mu.Unlock()
	return err
}

func normalized(t *testing.T) *validate.Figure {
	t.Helper()
	f := figure.New()
	ax, err := f.AddAxes()
	if err != nil {
		t.Fatal(err)
	}
	ax.AllowEmpty = true
	nf, err := validate.Normalize(f)
	if err != nil {
		t.Fatal(err)
	}
	return nf
}

func TestRenderUnknownBackend(t *testing.T) {
	_, err := Render("no-such-backend", normalized(t))
	if !errors.Is(err, errors.ErrCodeUnknownBackend) {
		t.Fatalf("error = %v, want UNKNOWN_BACKEND", err)
	}
}

func TestRegisterAndDispatch(t *testing.T) {
	fb := &fakeBackend{name: "fake-dispatch", safe: true}
	Register(fb)

	if !slices.Contains(Backends(), "fake-dispatch") {
		t.Fatalf("Backends() = %v, missing fake-dispatch", Backends())
	}

	h, err := Render("fake-dispatch", normalized(t))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if h.Backend() != "fake-dispatch" || h.ID() == "" {
		t.Errorf("handle = %s/%s", h.Backend(), h.ID())
	}
	if fb.renders != 1 {
		t.Errorf("renders = %d, want 1", fb.renders)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(&fakeBackend{name: "fake-dup", safe: true})
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register(&fakeBackend{name: "fake-dup", safe: true})
}

func TestUnsupportedExportTyped(t *testing.T) {
	Register(&fakeBackend{name: "fake-caps", safe: true})
	h, err := Render("fake-caps", normalized(t))
	if err != nil {
		t.Fatal(err)
	}

	// fakeHandle overrides only ExportRaster; the rest fall through to the
	// base handle's typed failures.
	err = h.ExportVector(io.Discard, VectorOptions{})
	if !errors.Is(err, errors.ErrCodeUnsupportedExport) {
		t.Fatalf("vector error = %v, want UNSUPPORTED_EXPORT", err)
	}
	err = h.ExportInteractive(io.Discard, InteractiveOptions{})
	if !errors.Is(err, errors.ErrCodeUnsupportedExport) {
		t.Fatalf("interactive error = %v, want UNSUPPORTED_EXPORT", err)
	}
}

func TestNonConcurrentSafeSerialized(t *testing.T) {
	fb := &fakeBackend{name: "fake-locked", safe: false}
	Register(fb)

	nf := normalized(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := Render("fake-locked", nf)
			if err != nil {
				t.Error(err)
				return
			}
			if err := h.ExportRaster(io.Discard, RasterOptions{}); err != nil {
				t.Error(err)
			}
			_ = h.Close()
		}()
	}
	wg.Wait()

	if fb.overlap {
		t.Error("calls into a non-concurrent-safe backend overlapped")
	}
	if fb.renders != 8 {
		t.Errorf("renders = %d, want 8", fb.renders)
	}
}

func TestCapabilityString(t *testing.T) {
	c := CapRender | CapExportVector
	if got := c.String(); got != "render,vector" {
		t.Errorf("String() = %q, want render,vector", got)
	}
	if !c.Has(CapRender) || c.Has(CapExportRaster) {
		t.Error("Has() misreported flags")
	}
}
