// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package generationerrors

import "errors"

const (
	DepsFileNotFound  = "DMG_YAML_NOT_FOUND"
	MalformedDepsFile = "MALFORMED_DMG_YAML"
	MissingClosure    = "MISSING_CLOSURE"
	LockfileOutOfSync = "LOCKFILE_OUT_OF_SYNC"
	UnknownError      = "UNKNOWN_ERROR"
)

type GenerationError struct {
	Code  string
	Cause error
}

func (g *GenerationError) Error() string {
	if g.Cause != nil {
		return g.Code + ": " + g.Cause.Error()
	}
	return g.Code
}

func (g *GenerationError) MarshalYAML() (interface{}, error) {
	var causeStr string
	if g.Cause != nil {
		causeStr = g.Cause.Error()
	}
	return map[string]interface{}{
		"code":  g.Code,
		"cause": causeStr,
	}, nil
}

func (g *GenerationError) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var aux struct {
		Code  string `yaml:"code"`
		Cause string `yaml:"cause"`
	}
	if err := unmarshal(&aux); err != nil {
		return err
	}
	g.Code = aux.Code
	if aux.Cause != "" {
		g.Cause = errors.New(aux.Cause)
	}
	return nil
}

func (g *GenerationError) Unwrap() error {
	return g.Cause
}

var _ error = (*GenerationError)(nil)

func NewDepsFileNotFoundError(cause error) *GenerationError {
	return &GenerationError{
		Code:  DepsFileNotFound,
		Cause: cause,
	}
}

func NewMalformedDepsFileError(cause error) *GenerationError {
	return &GenerationError{
		Code:  MalformedDepsFile,
		Cause: cause,
	}
}

func NewMissingClosureError(cause error) *GenerationError {
	return &GenerationError{
		Code:  MissingClosure,
		Cause: cause,
	}
}

func NewLockfileOutOfSyncError(cause error) *GenerationError {
	return &GenerationError{
		Code:  LockfileOutOfSync,
		Cause: cause,
	}
}

func NewUnknownError(cause error) *GenerationError {
	return &GenerationError{
		Code:  UnknownError,
		Cause: cause,
	}
}

func Standardize(err error) *GenerationError {
	if err == nil {
		return nil
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	return NewUnknownError(err)
}
