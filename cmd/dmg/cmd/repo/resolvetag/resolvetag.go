// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package resolvetag

import (
	"fmt"
	"strings"

	"daml.com/x/manifestgen/pkg/closurepuller"
	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func Cmd(config *dmgconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve-tag <group:artifact:tag>...",
		Short: "resolve the tag of one or more closure sets to corresponding (semantic) versions",
		Long: "Resolve the tag (e.g. 'latest') of one or more published closure sets to the " +
			"semantic versions recorded in their descriptor annotations.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			badArgs := lo.Filter(args, func(arg string, _ int) bool {
				return strings.Count(arg, ":") != 2
			})
			if len(badArgs) > 0 {
				return fmt.Errorf("one or more arguments are invalid. Each must be of the form '<group>:<artifact>:<tag>'")
			}

			cmd.SilenceUsage = true

			puller, err := closurepuller.NewFromConfig(config)
			if err != nil {
				return err
			}

			for _, arg := range args {
				coord, err := coordinate.Parse(arg)
				if err != nil {
					return err
				}

				pulled, err := puller.PullClosureSet(cmd.Context(), coord)
				if err != nil {
					return err
				}
				cmd.Println(pulled.Version.String())
			}
			return nil
		},
	}

	return cmd
}
