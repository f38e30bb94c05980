// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"daml.com/x/manifestgen/pkg/closure"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/generation"
	"daml.com/x/manifestgen/pkg/generator"
	"daml.com/x/manifestgen/pkg/manifest"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

type generateCmd struct {
	closuresFile  string
	writeManifest bool
	writePom      bool
}

func Cmd(config *dmgconfig.Config) *cobra.Command {
	c := &generateCmd{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "generate dependency manifests for each package in scope",
		Long: "Generate a dependency manifest for the current package, or for every " +
			"package of the enclosing workspace. Transitive closures are pulled from " +
			"the configured OCI registry unless --closures-file points at a local " +
			"ClosureSet document.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			g, err := c.generator(config)
			if err != nil {
				return err
			}

			result, err := g.RunGeneration(cmd.Context())
			if err != nil {
				return err
			}

			if err := c.writeOutputs(result); err != nil {
				return err
			}

			output, err := yaml.Marshal(result)
			if err != nil {
				return err
			}
			cmd.Print(string(output))

			return failedPackages(result)
		},
	}

	cmd.Flags().StringVar(&c.closuresFile, "closures-file", "", "read closures from a local ClosureSet document instead of the registry")
	cmd.Flags().BoolVarP(&c.writeManifest, "write-manifest", "w", false, "write "+dmgconfig.ManifestFilename+" into each package dir")
	cmd.Flags().BoolVar(&c.writePom, "pom", false, "write "+dmgconfig.DefaultPomFilename+" into each package dir")

	return cmd
}

func (c *generateCmd) generator(config *dmgconfig.Config) (*generator.Generator, error) {
	if c.closuresFile != "" {
		// local closures; there is no registry to pin a lockfile against
		return generator.New(config, &closure.File{Path: c.closuresFile}, nil), nil
	}
	return generator.NewFromConfig(config)
}

func (c *generateCmd) writeOutputs(result *generation.Generation) error {
	for dir, pkg := range result.Packages {
		if pkg.Manifest == nil {
			continue
		}

		if c.writeManifest {
			data, err := pkg.Manifest.Marshal()
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(dir, dmgconfig.ManifestFilename), data, 0644); err != nil {
				return err
			}
		}

		if c.writePom {
			data, err := manifest.RenderPOM(pkg.Manifest)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(dir, dmgconfig.DefaultPomFilename), data, 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

func failedPackages(result *generation.Generation) error {
	failed := 0
	for _, pkg := range result.Packages {
		if len(pkg.Errors) > 0 {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("generation failed for %d package(s)", failed)
	}
	return nil
}
