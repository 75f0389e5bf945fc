package periodic

import (
	"fmt"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type testError struct {
	suite.Suite
}

func (t *testError) TestIs() {
	e := NewError("show me")

	e0 := e.Call()
	t.Implements((*(interface{ Error() string }))(nil), e0)

	t.Equal("show me", e0.Error())

	t.True(errors.Is(e0, e0))
	t.False(errors.Is(e0, NewError("show me").Call()))
	t.False(errors.Is(e0, NewError("find me").Call()))
	t.True(errors.Is(e0, e0.Errorf("show me")))
}

func (t *testError) TestAs() {
	e0 := NewError("show me").Call()

	var e1 Error
	t.True(errors.As(e0, &e1))

	t.True(errors.Is(e0, e1))
	t.True(errors.Is(e1, e0))
	t.Equal(e0.Error(), e1.Error())
}

func (t *testError) TestWrap() {
	e0 := NewError("show me").Call()

	pe := &os.PathError{Op: "not found", Path: "/tmp", Err: errors.Errorf("???")}
	e1 := e0.Wrap(pe)

	t.True(errors.Is(e1, e0))
	t.True(errors.Is(e1, pe))
	t.False(errors.Is(e1, NewError("show me").Call()))

	var npe *os.PathError
	t.True(errors.As(e1, &npe))
	t.Equal(pe.Error(), npe.Error())
}

func (t *testError) TestWrapf() {
	e0 := NewError("show me").Call()

	pe := &os.PathError{Op: "not found", Path: "/tmp", Err: errors.Errorf("???")}
	e1 := e0.Wrapf(pe, "find me: %d", 3)

	t.True(errors.Is(e1, e0))
	t.True(errors.Is(e1, pe))
	t.Contains(e1.Error(), "find me: 3")
}

func (t *testError) TestErrorf() {
	e0 := NewError("show me").Call()

	e1 := e0.Errorf("error: %d", 33)
	t.True(errors.Is(e1, e0))
	t.Equal("show me - error: 33", e1.Error())
}

func (t *testError) TestStackTrace() {
	e0 := NewError("show me").Call()
	t.NotNil(e0.StackTrace())

	s := fmt.Sprintf("%+v", e0)
	t.Contains(s, "show me")
}

func TestError(t *testing.T) {
	suite.Run(t, new(testError))
}
