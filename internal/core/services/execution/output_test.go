package execution

import "testing"

func TestCappedBuffer(t *testing.T) {
	buf := newCappedBuffer(5)

	n, err := buf.Write([]byte("abc"))
	if err != nil || n != 3 {
		t.Fatalf("write = (%d, %v)", n, err)
	}
	n, err = buf.Write([]byte("defgh"))
	if err != nil || n != 5 {
		t.Fatalf("overflowing write must report full length, got (%d, %v)", n, err)
	}
	if buf.String() != "abcde" {
		t.Fatalf("buffer = %q, want %q", buf.String(), "abcde")
	}
	if !buf.Truncated() {
		t.Fatal("expected truncated flag")
	}

	if _, err := buf.Write([]byte("more")); err != nil {
		t.Fatalf("write after cap: %v", err)
	}
	if buf.String() != "abcde" {
		t.Fatalf("buffer grew past cap: %q", buf.String())
	}
}

func TestCappedBufferUnderLimit(t *testing.T) {
	buf := newCappedBuffer(16)
	_, _ = buf.Write([]byte("hello"))
	if buf.Truncated() || buf.String() != "hello" {
		t.Fatalf("unexpected state: %q truncated=%v", buf.String(), buf.Truncated())
	}
}
