// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package dmgconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"daml.com/x/manifestgen/pkg/utils"
	"github.com/goccy/go-yaml"
)

type Config struct {
	DmgHomePath string `yaml:"-"`

	CachePath string `yaml:"-"`
	// oci-layout dir containing raw pulled blobs
	OciLayoutCache string `yaml:"-"`
	// guards concurrent writes to the oci-layout cache
	CacheLockFilePath string `yaml:"-"`

	// Lockfile toggles dmg.lock.yaml maintenance during generation
	Lockfile bool `yaml:"lockfile,omitempty"`

	Registry         string `yaml:"registry,omitempty"`
	RegistryAuthPath string `yaml:"registry-auth-path,omitempty"`
	Insecure         bool   `yaml:"insecure,omitempty"`
}

func (c *Config) EnsureDirs() error {
	return utils.EnsureDirs(c.DmgHomePath, c.CachePath, c.OciLayoutCache)
}

func Get() (*Config, error) {
	dmgHomePath, err := getDmgHomePath()
	if err != nil {
		return nil, err
	}
	return GetWithCustomDmgHome(dmgHomePath)
}

func GetWithCustomDmgHome(dmgHomePath string) (*Config, error) {
	config := Config{Lockfile: true}

	// dmg-config.yaml is optional
	configFilePath := filepath.Join(dmgHomePath, DmgConfigFilename)
	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		if fileInfo.IsDir() {
			return nil, fmt.Errorf("%q is directory and not a file", configFilePath)
		}

		bytes, err := os.ReadFile(configFilePath)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(bytes, &config); err != nil {
			return nil, err
		}
	}

	registry, ok := os.LookupEnv(OciRegistryEnvVar)
	if ok {
		config.Registry = registry
	}
	if config.Registry == "" {
		config.Registry = DefaultOciRegistry
	}

	registryAuthPath, ok := os.LookupEnv(RegistryAuthConfigPathEnvVar)
	if ok {
		config.RegistryAuthPath = registryAuthPath
	}

	insecure, ok, err := utils.BoolEnvVar(AllowInsecureRegistryEnvVar)
	if err != nil {
		return nil, err
	}
	if ok {
		config.Insecure = insecure
	}

	lockfile, ok, err := utils.BoolEnvVar(LockfileEnvVar)
	if err != nil {
		return nil, err
	}
	if ok {
		config.Lockfile = lockfile
	}

	cacheDir := filepath.Join(dmgHomePath, "cache")
	config.DmgHomePath = dmgHomePath
	config.CachePath = cacheDir
	config.OciLayoutCache = filepath.Join(cacheDir, "oci-layout")
	config.CacheLockFilePath = filepath.Join(cacheDir, ".lock")
	return &config, nil
}

func getDmgHomePath() (string, error) {
	if v, ok := os.LookupEnv(DmgHomeEnvVar); ok {
		return v, nil
	}

	return getAppUserDataDirectory("dmg")
}

func getAppUserDataDirectory(appName string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		dir, ok := os.LookupEnv("APPDATA")
		if !ok {
			return "", fmt.Errorf("APPDATA environment variable is not set")
		}
		return filepath.Join(dir, appName), nil
	default:
		dir, ok := os.LookupEnv("HOME")
		if !ok {
			return "", fmt.Errorf("HOME environment variable is not set")
		}
		return filepath.Join(dir, "."+appName), nil
	}
}

// GetWorkspaceAbsolutePath returns the absolute path to dmg-workspace.yaml,
// searching DMG_WORKSPACE first and the current dir second
func GetWorkspaceAbsolutePath() (path string, ok bool, err error) {
	return findDocument(WorkspaceEnvVar, WorkspaceFilename)
}

// GetPackageAbsolutePath returns the absolute path to dmg.yaml,
// searching DMG_PACKAGE first and the current dir second
func GetPackageAbsolutePath() (path string, ok bool, err error) {
	return findDocument(PackageEnvVar, DepsFilename)
}

func findDocument(envVar, filename string) (string, bool, error) {
	if dir, ok := os.LookupEnv(envVar); ok {
		p := filepath.Join(dir, filename)
		if _, err := os.Stat(p); err != nil {
			return "", false, fmt.Errorf("%s is set but %q does not exist: %w", envVar, p, err)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", false, err
		}
		return abs, true, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, err
	}
	p := filepath.Join(cwd, filename)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return p, true, nil
}
