package pagebook

import (
	"errors"
	"testing"
)

func TestErrorCodeAndIsHelpers(t *testing.T) {
	err := NewError(ErrKeyExists)
	if Code(err) != ErrKeyExists {
		t.Fatalf("Code() = %v; want ErrKeyExists", Code(err))
	}
	if !IsKeyExists(err) {
		t.Fatal("IsKeyExists(err) = false")
	}
	if IsKeyNotFound(err) {
		t.Fatal("IsKeyNotFound(err) = true for an ErrKeyExists error")
	}
}

func TestCodeOfNilAndForeignErrors(t *testing.T) {
	if Code(nil) != ErrNone {
		t.Fatalf("Code(nil) = %v; want ErrNone", Code(nil))
	}
	if Code(errors.New("boom")) != ErrNone {
		t.Fatal("Code() of a non-pagebook error should be ErrNone")
	}
}

func TestWrapIoErrorCarriesPathAndCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapIoError("/tmp/pages/0", cause)

	if err.Code != ErrIo {
		t.Fatalf("Code = %v; want ErrIo", err.Code)
	}
	if err.Path != "/tmp/pages/0" {
		t.Fatalf("Path = %q; want /tmp/pages/0", err.Path)
	}
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is(err, cause) = false; Unwrap is broken")
	}
}

func TestWrapCorruptErrorMessage(t *testing.T) {
	err := WrapCorruptError("/tmp/pages/0", "duplicate key across pages")
	if !IsCorrupt(err) {
		t.Fatal("IsCorrupt(err) = false")
	}
	if err.Message != "duplicate key across pages" {
		t.Fatalf("Message = %q; want %q", err.Message, "duplicate key across pages")
	}
}
