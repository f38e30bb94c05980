// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package dmgconfig

const envVarPrefix = "DMG_"

const (
	// DmgHomeEnvVar
	// DMG_HOME is the absolute path to the `dmg` home directory
	DmgHomeEnvVar = envVarPrefix + "HOME"

	// WorkspaceEnvVar
	// DMG_WORKSPACE is the absolute path to the dir containing dmg-workspace.yaml
	WorkspaceEnvVar = envVarPrefix + "WORKSPACE"

	// PackageEnvVar
	// DMG_PACKAGE is a path to a package directory.
	// This allows running a command in a package context without changing directory
	PackageEnvVar = envVarPrefix + "PACKAGE"

	// OciRegistryEnvVar
	// DMG_REGISTRY overrides the OCI registry from which closure sets are downloaded
	OciRegistryEnvVar = envVarPrefix + "REGISTRY"

	// RegistryAuthConfigPathEnvVar
	// DMG_REGISTRY_AUTH overrides the OCI registry auth file used
	// Contains a path to a config file similar to docker’s config.json, which will be used to authenticate to the configured registry
	// 	default: $HOME/.docker/config.json).
	RegistryAuthConfigPathEnvVar = envVarPrefix + "REGISTRY_AUTH"

	// AllowInsecureRegistryEnvVar
	// DMG_INSECURE_REGISTRY allows an insecure registry to be used (http instead of https, and without auth)
	AllowInsecureRegistryEnvVar = envVarPrefix + "INSECURE_REGISTRY"

	// LogLevelEnvVar
	// DMG_LOG_LEVEL sets the log level.
	// 	Default: info
	//  Possible values: info error warning fatal debug
	LogLevelEnvVar = envVarPrefix + "LOG_LEVEL"

	// LockfileEnvVar
	// DMG_LOCKFILE toggles lockfile maintenance during manifest generation.
	// 	Default: true
	LockfileEnvVar = envVarPrefix + "LOCKFILE"
)
