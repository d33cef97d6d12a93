package drops

import "testing"

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {64, 64}, {65, 128}, {1080, 2048},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPoolAcquireExactView(t *testing.T) {
	var p renderTexturePool
	defer p.Dispose()

	img := p.Acquire(100, 30)
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 30 {
		t.Errorf("view size = %dx%d, want 100x30", b.Dx(), b.Dy())
	}
	full := p.owners[img]
	if fb := full.Bounds(); fb.Dx() != 128 || fb.Dy() != 32 {
		t.Errorf("backing size = %dx%d, want 128x32", fb.Dx(), fb.Dy())
	}
}

func TestPoolReusesBacking(t *testing.T) {
	var p renderTexturePool
	defer p.Dispose()

	a := p.Acquire(100, 100)
	fullA := p.owners[a]
	p.Release(a)
	if len(p.owners) != 0 {
		t.Error("released view should be forgotten")
	}

	// Same power-of-two bucket.
	b := p.Acquire(120, 90)
	if p.owners[b] != fullA {
		t.Error("expected the backing image to be recycled")
	}
}

func TestPoolReleaseUnknownIgnored(t *testing.T) {
	var p renderTexturePool
	p.Release(WhitePixel)
	if len(p.buckets) != 0 {
		t.Error("unknown image should not enter the pool")
	}
}
