// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ocilister

import (
	"context"
	"errors"
	"slices"

	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/dmgconfig/dmgremote"
	ociconsts "daml.com/x/manifestgen/pkg/oci"
	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
	"oras.land/oras-go/v2/registry/remote/errcode"
)

// ListTags lists the tags published under repoName. The second return is
// false when the repo does not exist at all.
func ListTags(ctx context.Context, client *dmgremote.Remote, repoName string) ([]string, bool, error) {
	var result []string

	repo, err := client.Repo(repoName)
	if err != nil {
		return nil, false, err
	}

	err = repo.Tags(ctx, "", func(tags []string) error {
		result = append(result, tags...)
		return nil
	})
	if isErrorCode(err, errcode.ErrorCodeNameUnknown) {
		// repo doesn't even exist
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

// ListClosureSetVersions lists the published closure set versions of a
// group/artifact pair, ignoring floaty tags like 'latest' and shorthands
// like '1.67' that don't round-trip through semver
func ListClosureSetVersions(ctx context.Context, client *dmgremote.Remote, ga coordinate.GA) ([]*semver.Version, error) {
	artifact := &ociconsts.ClosureSetArtifact{GA: ga}

	tags, found, err := ListTags(ctx, client, artifact.RepoName())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	versions := lo.FilterMap(tags, func(t string, _ int) (*semver.Version, bool) {
		v, err := semver.NewVersion(t)
		if err != nil || v.String() != t {
			return nil, false
		}
		return v, true
	})
	slices.SortFunc(versions, func(a, b *semver.Version) int {
		return a.Compare(b)
	})
	return versions, nil
}

func isErrorCode(err error, code string) bool {
	var ec errcode.Error
	return errors.As(err, &ec) && ec.Code == code
}
