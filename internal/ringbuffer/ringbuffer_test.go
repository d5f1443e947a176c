package ringbuffer

import "testing"

func TestSampleRingWriteReadAdvance(t *testing.T) {
	r := NewSampleRing(8)
	n := r.Write([]float32{1, 2, 3, 4})
	if n != 4 {
		t.Fatalf("wrote %d, want 4", n)
	}
	if r.Available() != 4 {
		t.Fatalf("available = %d, want 4", r.Available())
	}
	got := r.ReadPointer(3)
	want := []float32{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReadPointer[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	r.Advance(2)
	if r.Available() != 2 {
		t.Fatalf("available after advance = %d, want 2", r.Available())
	}
	got = r.ReadPointer(2)
	if got[0] != 3 || got[1] != 4 {
		t.Fatalf("ReadPointer after advance = %v, want [3 4]", got)
	}
}

func TestSampleRingWrapsAroundCapacity(t *testing.T) {
	r := NewSampleRing(4)
	r.Write([]float32{1, 2, 3, 4})
	r.Advance(3)
	r.Write([]float32{5, 6, 7})
	if r.Available() != 4 {
		t.Fatalf("available = %d, want 4", r.Available())
	}
	got := r.ReadPointer(4)
	want := []float32{4, 5, 6, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReadPointer[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSampleRingWriteStopsAtCapacity(t *testing.T) {
	r := NewSampleRing(2)
	n := r.Write([]float32{1, 2, 3, 4})
	if n != 2 {
		t.Fatalf("wrote %d, want 2 (capacity-limited)", n)
	}
}

func TestSampleRingReadPointerPanicsOnOverrun(t *testing.T) {
	r := NewSampleRing(4)
	r.Write([]float32{1, 2})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when reading more samples than available")
		}
	}()
	r.ReadPointer(3)
}

func TestByteRingWriteableAndRead(t *testing.T) {
	r := NewByteRing(8)
	if r.Writeable() != 8 {
		t.Fatalf("writeable = %d, want 8", r.Writeable())
	}
	n := r.Write([]byte("SYNC"))
	if n != 4 {
		t.Fatalf("wrote %d, want 4", n)
	}
	if r.Writeable() != 4 {
		t.Fatalf("writeable = %d, want 4", r.Writeable())
	}
	buf := make([]byte, 4)
	got := r.Read(buf)
	if got != 4 || string(buf) != "SYNC" {
		t.Fatalf("Read = %d %q, want 4 SYNC", got, buf)
	}
	if r.Len() != 0 {
		t.Fatalf("len = %d, want 0", r.Len())
	}
}

func TestByteRingWrapAround(t *testing.T) {
	r := NewByteRing(4)
	r.Write([]byte{1, 2, 3})
	buf := make([]byte, 2)
	r.Read(buf)
	r.Write([]byte{4, 5})
	full := make([]byte, 3)
	n := r.Read(full)
	if n != 3 {
		t.Fatalf("read %d, want 3", n)
	}
	want := []byte{3, 4, 5}
	for i := range want {
		if full[i] != want[i] {
			t.Fatalf("byte[%d] = %d, want %d", i, full[i], want[i])
		}
	}
}
