// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package explain

import (
	"fmt"
	"path/filepath"

	"daml.com/x/manifestgen/pkg/closure"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/generator"
	"daml.com/x/manifestgen/pkg/report"
	"daml.com/x/manifestgen/pkg/workspace"
	"github.com/spf13/cobra"
)

func Cmd(config *dmgconfig.Config) *cobra.Command {
	var closuresFile string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "show closure sizes and exclusion counts per dependency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var g *generator.Generator
			if closuresFile != "" {
				g = generator.New(config, &closure.File{Path: closuresFile}, nil)
			} else {
				var err error
				g, err = generator.NewFromConfig(config)
				if err != nil {
					return err
				}
			}

			paths, err := packagesInScope()
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no %s or %s found", dmgconfig.DepsFilename, dmgconfig.WorkspaceFilename)
			}

			var failed int
			for _, p := range paths {
				result, err := g.GeneratePackage(cmd.Context(), p)
				if err != nil {
					cmd.PrintErrf("%s: %s\n", p, err.Error())
					failed++
					continue
				}

				cmd.Println(p)
				cmd.Println(report.New(result.Entries, result.Deps, result.Closures).Table())
			}

			if failed > 0 {
				return fmt.Errorf("explain failed for %d package(s)", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&closuresFile, "closures-file", "", "read closures from a local ClosureSet document instead of the registry")

	return cmd
}

func packagesInScope() ([]string, error) {
	workspacePath, isWorkspace, err := dmgconfig.GetWorkspaceAbsolutePath()
	if err != nil {
		return nil, err
	}
	if isWorkspace {
		ws, err := workspace.Read(workspacePath)
		if err != nil {
			return nil, err
		}
		return ws.AbsolutePackages(), nil
	}

	depsFilePath, isPackage, err := dmgconfig.GetPackageAbsolutePath()
	if err != nil {
		return nil, err
	}
	if isPackage {
		return []string{filepath.Dir(depsFilePath)}, nil
	}
	return nil, nil
}
