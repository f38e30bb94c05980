// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package update

import (
	"daml.com/x/manifestgen/pkg/closurepuller"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/manifestlock"
	"github.com/spf13/cobra"
)

func Cmd(config *dmgconfig.Config) *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "update (or create) lockfile(s)",
		Long: "Re-pin " + dmgconfig.LockFilename + " for the current package, or for every " +
			"package of the enclosing workspace, against the configured registry.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			op := manifestlock.Regular
			if checkOnly {
				op = manifestlock.CheckOnly
			}

			puller, err := closurepuller.NewFromConfig(config)
			if err != nil {
				return err
			}

			locker := manifestlock.New(config, puller, op)
			_, err = locker.EnsureLockfiles(cmd.Context())
			return err
		},
	}
	cmd.Flags().BoolVar(&checkOnly, "check", false, "check existing lockfile(s) but don't update them")

	return cmd
}
