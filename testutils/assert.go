package testutils

import (
	"errors"
	"fmt"
	"testing"

	"gotest.tools/assert/cmp"
)

func ErrorIs(err, expectedErr error) cmp.Comparison {
	return func() cmp.Result {
		if errors.Is(err, expectedErr) {
			return cmp.ResultSuccess
		}
		const errFmt = "expected \"%+v\" (%T) in error tree,\ngot: \"%+v\" (%T)"
		errMsg := fmt.Sprintf(errFmt, expectedErr, expectedErr, err, err)
		return cmp.ResultFailure(errMsg)
	}
}

// ErrorAs returns the first error of type T in err's tree, failing the test
// if there isn't one.
func ErrorAs[T error](t *testing.T, err error) (target T) {
	t.Helper()

	if !errors.As(err, &target) {
		t.Fatalf("expected %T in error tree,\ngot: \"%+v\" (%T)", target, err, err)
	}
	return
}
