// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"daml.com/x/manifestgen/pkg/closure"
	"daml.com/x/manifestgen/pkg/closurepusher"
	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/dmgconfig/dmgremote"
	"daml.com/x/manifestgen/pkg/gitinfo"
	"daml.com/x/manifestgen/pkg/utils"
	"github.com/spf13/cobra"
)

type pushCmd struct {
	registry, registryAuth string
	insecure               bool
	includeGitInfo         bool
	annotations            map[string]string
	extraTags              []string
}

func Cmd(config *dmgconfig.Config) *cobra.Command {
	c := &pushCmd{}

	cmd := &cobra.Command{
		Use:     "push-closures <closures-file>",
		Short:   "Publish the closures of a ClosureSet document to an OCI registry",
		Long:    "Publish every closure of a ClosureSet document as its own artifact under closures/<group>/<artifact>, tagged with the coordinate's version.",
		Example: "  dmg repo push-closures closures.yaml -t latest",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			set, err := closure.Read(args[0])
			if err != nil {
				return err
			}

			client, err := c.client(config)
			if err != nil {
				return err
			}

			annotations := map[string]string{}
			maps.Copy(annotations, c.annotations)
			if c.includeGitInfo {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				gitAnnotations, err := gitinfo.CollectAnnotations(cwd)
				if err != nil {
					return err
				}
				maps.Copy(annotations, gitAnnotations)
			}

			pusher := closurepusher.New(utils.StdPrinter{})
			for key, members := range set.Closures {
				coord, err := coordinate.Parse(key)
				if err != nil {
					return fmt.Errorf("closure key %q: %w", key, err)
				}

				single := closure.New()
				single.Add(coord, members)

				pushArgs := &closurepusher.PushArgs{
					Coordinate:       coord,
					Set:              single,
					ExtraAnnotations: annotations,
					ExtraTags:        c.extraTags,
				}
				if _, err := pusher.PushClosureSet(cmd.Context(), client, pushArgs); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&c.includeGitInfo, "include-git-info", "g", false, "include git info as annotations on the published manifests")
	cmd.Flags().StringToStringVarP(&c.annotations, "annotations", "a", map[string]string{}, "annotations to include in the published OCI artifacts")
	cmd.Flags().StringSliceVarP(&c.extraTags, "extra-tags", "t", []string{}, "publish extra tags besides the semver")

	cmd.Flags().StringVar(&c.registry, "registry", "", "OCI registry to use for pushing. Defaults to the configured one")
	cmd.Flags().BoolVar(&c.insecure, "insecure", false, "use http instead of https for OCI registry")
	cmd.Flags().StringVar(&c.registryAuth, "auth", "", "path to a config file similar to docker's config.json to use for authenticating to the OCI registry. Defaults to docker's config.json")

	return cmd
}

func (c *pushCmd) client(config *dmgconfig.Config) (*dmgremote.Remote, error) {
	if c.registry != "" {
		return dmgremote.New(strings.TrimRight(c.registry, "/"), c.registryAuth, c.insecure)
	}
	return dmgremote.NewFromConfig(config)
}
