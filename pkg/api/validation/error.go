// Zaparoo Extract
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Extract.
//
// Zaparoo Extract is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Extract is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Extract.  If not, see <http://www.gnu.org/licenses/>.

package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error wraps validation errors with formatted messages.
type Error struct {
	Fields []FieldError
}

// FieldError represents a single field validation error.
type FieldError struct {
	Field   string
	Tag     string
	Value   any
	Message string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// NewError creates an Error from validator.ValidationErrors.
func NewError(errs validator.ValidationErrors) *Error {
	ve := &Error{
		Fields: make([]FieldError, len(errs)),
	}
	for i, fe := range errs {
		ve.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: formatValidationError(fe),
		}
	}
	return ve
}

// formatValidationError creates a human-readable error message.
func formatValidationError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "extractformat":
		return fmt.Sprintf("format %q not found", fe.Value())
	case "template":
		return fmt.Sprintf("template %q not found", fe.Value())
	case "hostname|ip":
		return field + " must be a hostname or IP address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
