package exceptions_test

import (
	"errors"
	"fmt"
	"testing"

	"philcali.me/nutrition/internal/exceptions"
)

func TestStatusCodes(t *testing.T) {
	cases := map[int]exceptions.RequestError{
		400: exceptions.InvalidInput("bad"),
		404: exceptions.NotFound("recipe", "123"),
		409: exceptions.Conflict("recipe", "123"),
		429: exceptions.InFlight("nobody"),
		502: exceptions.Upstream("generation", errors.New("boom")),
	}
	for code, err := range cases {
		if se := err.ToServiceError(); se.StatusCode != code {
			t.Errorf("Expected %d for %v, got %d", code, err, se.StatusCode)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := exceptions.NotFound("recipe", "abc")
	wrapped := fmt.Errorf("lookup: %w", cause)
	var nfe *exceptions.NotFoundError
	if !errors.As(wrapped, &nfe) || nfe.Id != "abc" {
		t.Fatalf("Expected to unwrap not found, got %v", wrapped)
	}
	upstream := exceptions.Upstream("generation", cause)
	if !errors.Is(upstream, cause) {
		t.Fatal("Expected upstream error to wrap its cause")
	}
}
