// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"daml.com/x/manifestgen/cmd/dmg/cmd/generate/generationerrors"
	"daml.com/x/manifestgen/pkg/closure"
	"daml.com/x/manifestgen/pkg/closurepuller"
	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/depsfile"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/exclusions"
	"daml.com/x/manifestgen/pkg/generation"
	"daml.com/x/manifestgen/pkg/gitinfo"
	"daml.com/x/manifestgen/pkg/manifest"
	"daml.com/x/manifestgen/pkg/manifestlock"
	"daml.com/x/manifestgen/pkg/schema"
	"daml.com/x/manifestgen/pkg/workspace"
)

type Generator struct {
	config   *dmgconfig.Config
	provider closure.Provider
	puller   *closurepuller.Puller
}

// PackageResult carries everything a single package's generation produced,
// including the intermediate closures, which the explain report needs.
type PackageResult struct {
	Manifest *manifest.Manifest
	Deps     []exclusions.DirectDependency
	Entries  []exclusions.ManifestEntry
	Closures map[coordinate.Coordinate]exclusions.Closure
}

// New builds a Generator on an explicit closure provider. puller may be nil,
// in which case lockfile maintenance is skipped regardless of configuration
// (there is no registry to pin digests against).
func New(config *dmgconfig.Config, provider closure.Provider, puller *closurepuller.Puller) *Generator {
	return &Generator{
		config:   config,
		provider: provider,
		puller:   puller,
	}
}

// NewFromConfig builds a Generator whose closures come from the configured
// OCI registry.
func NewFromConfig(config *dmgconfig.Config) (*Generator, error) {
	puller, err := closurepuller.NewFromConfig(config)
	if err != nil {
		return nil, err
	}
	return New(config, puller, puller), nil
}

// RunGeneration generates manifests for each and every package in scope
// (a workspace or a single package)
func (g *Generator) RunGeneration(ctx context.Context) (*generation.Generation, error) {
	pkgs, err := g.generatePackages(ctx)
	if err != nil {
		return nil, err
	}

	return &generation.Generation{
		ManifestMeta: schema.ManifestMeta{
			APIVersion: generation.APIVersion,
			Kind:       generation.Kind,
		},
		Packages: pkgs,
	}, nil
}

func (g *Generator) generatePackages(ctx context.Context) (generation.Packages, error) {
	// workspace
	workspacePath, isWorkspace, err := dmgconfig.GetWorkspaceAbsolutePath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine whether a workspace is in scope: %w", err)
	}
	if isWorkspace {
		ws, err := workspace.Read(workspacePath)
		if err != nil {
			return nil, err
		}
		return g.generate(ctx, ws.AbsolutePackages()...)
	}

	// single package
	depsFilePath, isPackage, err := dmgconfig.GetPackageAbsolutePath()
	if err != nil {
		return nil, err
	}
	if isPackage {
		return g.generate(ctx, filepath.Dir(depsFilePath))
	}

	// no packages to generate for at all
	return make(generation.Packages), nil
}

func (g *Generator) generate(ctx context.Context, packageAbsolutePaths ...string) (generation.Packages, error) {
	pkgs := make(generation.Packages)

	for _, p := range packageAbsolutePaths {
		// if the path is a symlink, resolve it first
		resolvedPath, err := filepath.EvalSymlinks(p)
		if err != nil {
			pkgs[p] = &generation.Package{Errors: []*generationerrors.GenerationError{
				generationerrors.NewDepsFileNotFoundError(err),
			}}
			continue
		}

		if result, err := g.GeneratePackage(ctx, resolvedPath); err != nil {
			pkgs[resolvedPath] = &generation.Package{
				Errors: []*generationerrors.GenerationError{generationerrors.Standardize(err)},
			}
		} else {
			pkgs[resolvedPath] = &generation.Package{Manifest: result.Manifest}
		}
	}

	return pkgs, nil
}

// GeneratePackage generates the dependency manifest of a single package dir
func (g *Generator) GeneratePackage(ctx context.Context, absPath string) (*PackageResult, error) {
	d, err := depsfile.Read(filepath.Join(absPath, dmgconfig.DepsFilename))
	if errors.Is(err, os.ErrNotExist) {
		return nil, generationerrors.NewDepsFileNotFoundError(err)
	}
	if errors.Is(err, depsfile.ErrInvalidDepsFile) {
		return nil, generationerrors.NewMalformedDepsFileError(err)
	}
	if err != nil {
		return nil, err
	}

	if err := g.ensureLockfile(ctx, absPath); err != nil {
		return nil, err
	}

	deps := d.DirectDependencies()

	closures, err := g.provider.Closures(ctx, d.NonTransitiveCoordinates())
	if err != nil {
		return nil, err
	}

	entries, err := exclusions.ComputeExclusions(deps, closures)
	if err != nil {
		var missing *exclusions.MissingClosureError
		if errors.As(err, &missing) {
			return nil, generationerrors.NewMissingClosureError(err)
		}
		return nil, err
	}

	annotations, err := gitinfo.CollectAnnotations(absPath)
	if err != nil {
		return nil, err
	}

	return &PackageResult{
		Manifest: manifest.New(d.ProjectGroup, d.ProjectArtifact, d.ProjectVersion, entries, annotations),
		Deps:     deps,
		Entries:  entries,
		Closures: closures,
	}, nil
}

func (g *Generator) ensureLockfile(ctx context.Context, absPath string) error {
	if !g.config.Lockfile || g.puller == nil {
		return nil
	}

	_, err := manifestlock.ReadLock(filepath.Join(absPath, dmgconfig.LockFilename))
	if errors.Is(err, os.ErrNotExist) {
		_, err = manifestlock.New(g.config, g.puller, manifestlock.Regular).EnsureLockfile(ctx, absPath)
		if err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	_, err = manifestlock.New(g.config, g.puller, manifestlock.CheckOnly).EnsureLockfile(ctx, absPath)
	if errors.Is(err, manifestlock.ErrLockfileOutOfSync) {
		return generationerrors.NewLockfileOutOfSyncError(err)
	}
	return err
}
