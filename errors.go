/*
 * errors.go, part of gomappings.
 *
 * Copyright 2025 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mappings

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

//Error messages. Every error returned by this library is an *Error carrying one of these,
//which can be retrieved with the Message method.
const (
	ErrNoName          = "model name is required"
	ErrFileNotFound    = "file not found"
	ErrInvalidValue    = "invalid parameter value"
	ErrNoDustDepletion = "dust depletion file path is required when including dust"
	ErrUnsupported     = "option not supported"
	ErrValidation      = "parameter validation failed"
	ErrCantInput       = "unable to write input file"
	ErrNoExecutable    = "MAPPINGS executable not found"
	ErrNoInput         = "input file not found"
	ErrRunFailed       = "error running MAPPINGS"
	ErrNoLog           = "unable to read run log"
	ErrGrid            = "invalid model grid"
	ErrCatalog         = "run catalog error"
	ErrPlot            = "unable to build plot"
	ErrConfig          = "invalid configuration"
)

//Error is the general structure for gomappings errors.
//The Decorate method allows to add the chain of callers as the error goes up.
type Error struct {
	message  string
	info     string
	model    string //the model involved, or empty string if none.
	filename string //the file that has problems, or empty string if none.
	cause    error
	deco     []string
	critical bool
}

//NewError returns a critical error with the given message, model name, extra information
//and, optionally, the name of the function creating the error.
func NewError(message, model, info string, deco ...string) *Error {
	return &Error{message: message, model: model, info: info, deco: deco, critical: true}
}

//WithFile sets the file associated to the error, and returns the error.
func (err *Error) WithFile(name string) *Error {
	err.filename = name
	return err
}

//WithCause sets the underlying error, and returns the error.
func (err *Error) WithCause(cause error) *Error {
	err.cause = cause
	return err
}

//NonCritical marks the error as non-critical, and returns it.
func (err *Error) NonCritical() *Error {
	err.critical = false
	return err
}

func (err *Error) Error() string {
	var b strings.Builder
	b.WriteString("gomappings: ")
	b.WriteString(err.message)
	if err.info != "" {
		fmt.Fprintf(&b, ": %s", err.info)
	}
	if err.model != "" {
		fmt.Fprintf(&b, " (model %s)", err.model)
	}
	if err.filename != "" {
		fmt.Fprintf(&b, " [%s]", err.filename)
	}
	if err.cause != nil {
		fmt.Fprintf(&b, ": %s", err.cause.Error())
	}
	return b.String()
}

//Decorate adds new information to the error. If passed an empty string, it just
//returns the current decoration.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Message returns the message constant for the error.
func (err *Error) Message() string { return err.message }

//Model returns the name of the model involved, if any.
func (err *Error) Model() string { return err.model }

//FileName returns the file associated to the error, if any.
func (err *Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

func (err *Error) Unwrap() error { return err.cause }

//Is reports whether target is an *Error with the same message, so
//errors.Is(err, NewError(ErrNoInput, "", "")) works.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.message == err.message
}

//ErrDecorate decorates err with the caller's name if err is an *Error,
//and returns it. Other errors are returned unchanged.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	err2, ok := err.(*Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

//IsMessage returns true if err, or any error it wraps, is an *Error with the given message.
func IsMessage(err error, message string) bool {
	return errors.Is(err, &Error{message: message})
}
