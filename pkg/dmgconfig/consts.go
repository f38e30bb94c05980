// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package dmgconfig

const (
	WorkspaceFilename  = "dmg-workspace.yaml"
	DepsFilename       = "dmg.yaml"
	LockFilename       = "dmg.lock.yaml"
	ManifestFilename   = "dmg-manifest.yaml"
	DefaultOciRegistry = "europe-docker.pkg.dev/da-images/public" // stable prod public registry as the default
	DmgConfigFilename  = "dmg-config.yaml"
	DefaultPomFilename = "pom.xml"
	UserAgentPrefix    = "dmg"
)
