// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package closurepusher

import (
	"context"
	"fmt"
	"maps"

	"daml.com/x/manifestgen/pkg/closure"
	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/dmgconfig/dmgremote"
	ociconsts "daml.com/x/manifestgen/pkg/oci"
	"daml.com/x/manifestgen/pkg/utils"
	"github.com/fatih/color"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
)

// PushArgs describes one closure set to publish: the coordinate it was
// computed for (its version must be semver, it becomes the artifact tag)
// and the document itself.
type PushArgs struct {
	Coordinate       coordinate.Coordinate
	Set              *closure.ClosureSet
	ExtraAnnotations map[string]string
	ExtraTags        []string
}

type Pusher struct {
	printer utils.RawPrinter
}

func New(printer utils.RawPrinter) *Pusher {
	return &Pusher{printer: printer}
}

// PushClosureSet publishes args.Set under closures/<group>/<artifact>,
// tagged with the coordinate's version plus any extra tags
func (p *Pusher) PushClosureSet(ctx context.Context, client *dmgremote.Remote, args *PushArgs) (*v1.Descriptor, error) {
	version, err := args.Coordinate.SemVer()
	if err != nil {
		return nil, fmt.Errorf("closure sets must be published under a semver version: %w", err)
	}

	artifact := &ociconsts.ClosureSetArtifact{GA: args.Coordinate.GA()}
	repo, err := client.Repo(artifact.RepoName())
	if err != nil {
		return nil, err
	}

	data, err := args.Set.Marshal()
	if err != nil {
		return nil, err
	}

	layerDesc, err := oras.PushBytes(ctx, repo, artifact.FileMediaType(), data)
	if err != nil {
		return nil, err
	}

	annotations := map[string]string{}
	maps.Copy(annotations, args.ExtraAnnotations)
	required := ociconsts.DescriptorAnnotations{
		Name:    args.Coordinate.GA().String(),
		Version: version,
	}
	required.AppendToMap(annotations)

	manifestDesc, err := oras.PackManifest(ctx, repo, oras.PackManifestVersion1_1, artifact.ArtifactType(), oras.PackManifestOptions{
		Layers:              []v1.Descriptor{layerDesc},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, err
	}

	tags := append([]string{version.String()}, args.ExtraTags...)
	for _, tag := range tags {
		if err := repo.Tag(ctx, manifestDesc, tag); err != nil {
			return nil, err
		}
	}

	coloredDest := color.GreenString("%s/%s:%s", client.Registry, artifact.RepoName(), version.String())
	p.printer.Println("successfully published " + coloredDest)

	return &manifestDesc, nil
}
