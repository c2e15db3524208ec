package zeroize

import "testing"

func TestBytesZeroesAll(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	Bytes(buf)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %v", i, buf)
		}
	}
}

func TestBytesEmptyNoPanic(t *testing.T) {
	Bytes(nil)
	Bytes([]byte{})
}

func TestArray32(t *testing.T) {
	var buf [32]byte
	for i := range buf {
		buf[i] = byte(i + 1)
	}
	Array32(&buf)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %v", i, buf)
		}
	}
}

func TestArray32Nil(t *testing.T) {
	Array32(nil)
}
