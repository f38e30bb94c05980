// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"daml.com/x/manifestgen/cmd/dmg/cmd/explain"
	"daml.com/x/manifestgen/cmd/dmg/cmd/generate"
	"daml.com/x/manifestgen/cmd/dmg/cmd/login"
	"daml.com/x/manifestgen/cmd/dmg/cmd/repo"
	"daml.com/x/manifestgen/cmd/dmg/cmd/update"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/dmgversion"
	"daml.com/x/manifestgen/pkg/logging"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

const DmgName = "dmg"

func RootCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   DmgName,
		Short: "generate dependency manifests with transitive exclusions",
	}

	if err := logging.InitLogging(); err != nil {
		return nil, err
	}

	config, err := dmgconfig.Get()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}

	cmd.AddCommand(
		generate.Cmd(config),
		update.Cmd(config),
		explain.Cmd(config),
		login.Cmd(config),
		repo.Cmd(config),
	)

	version, err := yaml.Marshal(dmgversion.Get())
	if err != nil {
		return nil, err
	}
	cmd.Version = string(version)
	cmd.SetVersionTemplate("{{.Version}}")

	return cmd, nil
}
