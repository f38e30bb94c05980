// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"daml.com/x/manifestgen/cmd/dmg/cmd/repo/push"
	"daml.com/x/manifestgen/cmd/dmg/cmd/repo/resolvetag"
	"daml.com/x/manifestgen/cmd/dmg/cmd/repo/tags"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"github.com/spf13/cobra"
)

func Cmd(config *dmgconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "repo",
		Long: "Set of commands for working with the OCI closure set registry",
	}

	cmd.AddCommand(push.Cmd(config))
	cmd.AddCommand(resolvetag.Cmd(config))
	cmd.AddCommand(tags.Cmd(config))

	return cmd
}
