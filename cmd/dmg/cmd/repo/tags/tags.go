// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package tags

import (
	"fmt"
	"strings"

	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/dmgconfig/dmgremote"
	ociconsts "daml.com/x/manifestgen/pkg/oci"
	"daml.com/x/manifestgen/pkg/ocilister"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func Cmd(config *dmgconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <group:artifact>",
		Short: "list published tags of a closure set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts := strings.Split(args[0], ":")
			if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
				return fmt.Errorf("argument must be of the form '<group>:<artifact>'")
			}

			cmd.SilenceUsage = true

			client, err := dmgremote.NewFromConfig(config)
			if err != nil {
				return err
			}

			ga := coordinate.GA{Group: parts[0], Artifact: parts[1]}
			repoName := (&ociconsts.ClosureSetArtifact{GA: ga}).RepoName()
			tags, found, err := ocilister.ListTags(cmd.Context(), client, repoName)
			if err != nil {
				return err
			}

			if !found {
				return fmt.Errorf("repo %q doesn't exist in the OCI registry", repoName)
			}

			if len(tags) == 0 {
				cmd.Printf("No tags found under %q\n", repoName)
				return nil
			}

			lo.ForEach(tags, func(t string, _ int) {
				cmd.Println(t)
			})
			return nil
		},
	}
}
