package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite covers the invariants every trust boundary relies on:
// wrapping keeps the original code and errors.Is matches by code.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorMessage() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeInvalidInput, Message: "invalid verification type"}
		s.Equal("invalid verification type", err.Error())
	})

	s.Run("falls back to code", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	err1 := New(CodeInvalidInput, "bad type")
	err2 := New(CodeInvalidInput, "bad hash")
	s.True(errors.Is(err1, err2))
	s.False(errors.Is(err1, New(CodeInternal, "")))
	s.False(errors.Is(err1, errors.New("invalid_input")))
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves existing domain code", func() {
		inner := New(CodeTimeout, "tx aborted")
		wrapped := Wrap(inner, CodeInternal, "store failed")
		s.True(HasCode(wrapped, CodeTimeout))
		s.Equal("store failed", wrapped.Error())
	})

	s.Run("applies code to plain errors", func() {
		root := errors.New("connection refused")
		wrapped := Wrap(root, CodeInternal, "store failed")
		s.True(HasCode(wrapped, CodeInternal))
		s.ErrorIs(wrapped, root)
	})

	s.Run("HasCode sees through fmt wrapping", func() {
		err := fmt.Errorf("handler: %w", New(CodeUnauthorized, "missing token"))
		s.True(HasCode(err, CodeUnauthorized))
		s.False(HasCode(err, CodeForbidden))
	})
}
