// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ocicache provides a pull-through cache for closure set blobs,
// backed by an oci-layout dir under the dmg cache.
package ocicache

import (
	"bytes"
	"context"
	"io"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/oci"
)

// CachedTarget wraps src so that blob fetches are answered from
// ociLayoutCache when possible and stored there when not.
func CachedTarget(src oras.ReadOnlyTarget, ociLayoutCache string) (oras.ReadOnlyTarget, error) {
	store, err := oci.New(ociLayoutCache)
	if err != nil {
		return nil, err
	}
	return &cachedTarget{ReadOnlyTarget: src, cache: store}, nil
}

type cachedTarget struct {
	oras.ReadOnlyTarget
	cache content.Storage
}

func (t *cachedTarget) Fetch(ctx context.Context, desc ocispec.Descriptor) (io.ReadCloser, error) {
	if rc, err := t.cache.Fetch(ctx, desc); err == nil {
		return rc, nil
	}

	rc, err := t.ReadOnlyTarget.Fetch(ctx, desc)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// blobs are small yaml documents, so buffer rather than tee
	blob, err := content.ReadAll(rc, desc)
	if err != nil {
		return nil, err
	}

	if err := t.cache.Push(ctx, desc, bytes.NewReader(blob)); err != nil {
		return nil, err
	}
	return t.cache.Fetch(ctx, desc)
}

func (t *cachedTarget) Exists(ctx context.Context, desc ocispec.Descriptor) (bool, error) {
	exists, err := t.cache.Exists(ctx, desc)
	if err == nil && exists {
		return true, nil
	}
	return t.ReadOnlyTarget.Exists(ctx, desc)
}
