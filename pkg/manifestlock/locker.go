package manifestlock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"daml.com/x/manifestgen/pkg/closurepuller"
	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/depsfile"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	ociconsts "daml.com/x/manifestgen/pkg/oci"
	"daml.com/x/manifestgen/pkg/schema"
	"daml.com/x/manifestgen/pkg/workspace"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"oras.land/oras-go/v2/registry"
)

var ErrLockfileOutOfSync = errors.New(dmgconfig.LockFilename + " needs to be updated; please run 'dmg update'")

type Locker struct {
	config *dmgconfig.Config
	puller *closurepuller.Puller
	op     Operation
}

type Operation int

const (
	CheckOnly Operation = iota
	Regular
)

func New(config *dmgconfig.Config, puller *closurepuller.Puller, op Operation) *Locker {
	return &Locker{config: config, puller: puller, op: op}
}

// EnsureLockfiles runs EnsureLockfile for every package in scope
// (a workspace or a single package)
func (l *Locker) EnsureLockfiles(ctx context.Context) (map[string]*ManifestLock, error) {
	// workspace
	workspacePath, isWorkspace, err := dmgconfig.GetWorkspaceAbsolutePath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine whether a workspace is in scope: %w", err)
	}
	if isWorkspace {
		ws, err := workspace.Read(workspacePath)
		if err != nil {
			return nil, err
		}
		return l.ensureLockfiles(ctx, ws.AbsolutePackages()...)
	}

	// single package
	depsFilePath, isPackage, err := dmgconfig.GetPackageAbsolutePath()
	if err != nil {
		return nil, err
	}
	if isPackage {
		return l.ensureLockfiles(ctx, filepath.Dir(depsFilePath))
	}

	// no packages
	return make(map[string]*ManifestLock), nil
}

func (l *Locker) ensureLockfiles(ctx context.Context, packages ...string) (map[string]*ManifestLock, error) {
	m := map[string]*ManifestLock{}
	var errs []error

	for _, p := range packages {
		result, err := l.EnsureLockfile(ctx, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			continue
		}
		m[p] = result
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// EnsureLockfile computes the expected lockfile for the package dir and
// either verifies the existing one against it (CheckOnly) or writes it
// out with pinned digests (Regular)
func (l *Locker) EnsureLockfile(ctx context.Context, packageDirAbsPath string) (*ManifestLock, error) {
	expectedLockfile, err := l.computeExpectedLockfile(packageDirAbsPath)
	if err != nil {
		return nil, err
	}
	lockfilePath := filepath.Join(packageDirAbsPath, dmgconfig.LockFilename)

	if l.op == CheckOnly {
		return nil, l.checkLockfile(expectedLockfile, lockfilePath)
	}

	return l.create(ctx, expectedLockfile, lockfilePath)
}

func (l *Locker) checkLockfile(expectedLockfile *ManifestLock, lockfilePath string) error {
	existingLockfile, err := ReadLock(lockfilePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %w", ErrLockfileOutOfSync, err)
	}
	if err != nil {
		return err
	}

	inSync, err := existingLockfile.isInSync(expectedLockfile)
	if err != nil {
		return err
	}

	if inSync {
		return nil
	}

	return ErrLockfileOutOfSync
}

func (l *Locker) create(ctx context.Context, expected *ManifestLock, lockfilePath string) (*ManifestLock, error) {
	for _, ref := range expected.ClosureSets {
		coord, err := coordFromURI(ref.URI)
		if err != nil {
			return nil, err
		}

		pulled, err := l.puller.PullClosureSet(ctx, coord)
		if closurepuller.IsNotFound(err) {
			// nothing to pin; the resolver reports the missing closure
			continue
		}
		if err != nil {
			return nil, err
		}
		ref.Digest = pulled.Descriptor.Digest.String()
		ref.URI = pulled.URI(l.config.Registry, coord.GA())
	}

	data, err := yaml.Marshal(expected)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(lockfilePath, data, 0644); err != nil {
		return nil, err
	}
	return expected, nil
}

func (l *Locker) computeExpectedLockfile(packageDirAbsPath string) (*ManifestLock, error) {
	d, err := depsfile.Read(filepath.Join(packageDirAbsPath, dmgconfig.DepsFilename))
	if err != nil {
		return nil, err
	}

	refs := lo.Map(d.NonTransitiveCoordinates(), func(c coordinate.Coordinate, _ int) *ClosureSetRef {
		artifact := &ociconsts.ClosureSetArtifact{GA: c.GA()}
		return &ClosureSetRef{
			URI: fmt.Sprintf("oci://%s/%s:%s", l.config.Registry, artifact.RepoName(), c.Version),
		}
	})
	slices.SortFunc(refs, func(a, b *ClosureSetRef) int {
		return strings.Compare(a.URI, b.URI)
	})

	return &ManifestLock{
		ManifestMeta: schema.ManifestMeta{
			APIVersion: LockAPIVersion,
			Kind:       LockKind,
		},
		ClosureSets: refs,
	}, nil
}

// coordFromURI reverses the closures/<group>/<artifact>:<version> layout
func coordFromURI(uri string) (coordinate.Coordinate, error) {
	parsed, err := registry.ParseReference(strings.TrimPrefix(uri, "oci://"))
	if err != nil {
		return coordinate.Coordinate{}, fmt.Errorf("malformed closure set URI %q: %w", uri, err)
	}
	if parsed.Reference == "" {
		return coordinate.Coordinate{}, fmt.Errorf("closure set URI %q has no tag", uri)
	}

	segments := strings.Split(parsed.Repository, "/")
	if len(segments) != 3 || segments[0]+"/" != ociconsts.ClosureSetRepoPrefix {
		return coordinate.Coordinate{}, fmt.Errorf("closure set URI %q is not of the form <registry>/%s<group>/<artifact>:<version>", uri, ociconsts.ClosureSetRepoPrefix)
	}

	return coordinate.Coordinate{
		Group:    segments[1],
		Artifact: segments[2],
		Version:  parsed.Reference,
	}, nil
}
