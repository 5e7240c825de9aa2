package protoerrors

import (
	"errors"
	"testing"
)

func TestIsCodecError(t *testing.T) {
	err := NewFramingError(FramingTruncated)
	if !IsCodecError(err) {
		t.Fatal("FramingError should be classified as a codec error")
	}
	if IsCodecError(errors.New("plain error")) {
		t.Fatal("plain error misclassified as a codec error")
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewTransportError("send", inner)
	if !errors.Is(err, inner) {
		t.Fatal("TransportError does not unwrap to its cause")
	}
}

func TestIdentityErrorMessage(t *testing.T) {
	err := NewIdentityError(IdentityMessageID)
	if err.Error() == "" {
		t.Fatal("empty error message")
	}
}
