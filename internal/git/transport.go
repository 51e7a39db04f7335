package git

import (
	"fmt"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/client"
	"github.com/go-git/go-git/v5/plumbing/transport/server"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

var installFileTransport sync.Once

// InstallEmbeddedFileTransport serves file:// and plain-path remotes inside
// the process instead of spawning git-upload-pack and git-receive-pack. It is
// safe to call more than once.
func InstallEmbeddedFileTransport() {
	installFileTransport.Do(func() {
		client.InstallProtocol("file", server.NewServer(repositoryLoader{base: osfs.New("")}))
	})
}

// repositoryLoader opens the storage of a local repository for the embedded
// server. Working-tree repositories are served from their .git directory.
type repositoryLoader struct {
	base billy.Filesystem
}

//nolint:ireturn // server.Loader requires the storer.Storer interface
func (l repositoryLoader) Load(ep *transport.Endpoint) (storer.Storer, error) {
	root, err := l.base.Chroot(ep.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", ep.Path, err)
	}

	if info, err := root.Stat(gogit.GitDirName); err == nil && info.IsDir() {
		root, err = root.Chroot(gogit.GitDirName)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", ep.Path, err)
		}
	}

	if _, err := root.Stat("config"); err != nil {
		return nil, transport.ErrRepositoryNotFound
	}
	return filesystem.NewStorage(root, cache.NewObjectLRUDefault()), nil
}
