// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"os"
	"path/filepath"

	"daml.com/x/manifestgen/pkg/utils"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

// Workspace is a dmg-workspace.yaml: a multi-package project listing the
// member package dirs that each get their own generated manifest.
type Workspace struct {
	AbsolutePath string   `yaml:"-"`
	Packages     []string `yaml:"packages"`
}

func (w *Workspace) AbsolutePackages() []string {
	return lo.Map(w.Packages, func(p string, _ int) string {
		return utils.ResolvePath(filepath.Dir(w.AbsolutePath), p)
	})
}

// IncludesPackage returns true if this workspace references the given
// package (given as absolute path to its dmg.yaml)
func (w *Workspace) IncludesPackage(depsFileAbsPath string) (bool, error) {
	target, err := filepath.EvalSymlinks(filepath.Dir(depsFileAbsPath))
	if err != nil {
		return false, err
	}

	for _, p := range w.AbsolutePackages() {
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return false, err
		}
		if resolved == target {
			return true, nil
		}
	}
	return false, nil
}

func Read(filePath string) (*Workspace, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}

	bytes, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	var w Workspace
	if err := yaml.Unmarshal(bytes, &w); err != nil {
		return nil, err
	}
	w.AbsolutePath = abs
	return &w, nil
}
