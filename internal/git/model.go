// Package git provides Git integration for the BugSquash application
package git

import (
	"fmt"
	"strings"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// DefaultRemote is the remote consulted when none is named
const DefaultRemote = "origin"

// RemoteRepo identifies the hosted repository behind a remote URL
type RemoteRepo struct {
	Host  string `json:"host"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// String returns the owner/repo form used in issue references
func (r RemoteRepo) String() string {
	return r.Owner + "/" + r.Repo
}

// ParseRemoteURL extracts host, owner and repository from a remote URL.
// Any transport git accepts works (https, ssh, git+ssh, scp-like). Owner is
// everything before the last path segment, so nested groups stay intact.
func ParseRemoteURL(remote string) (RemoteRepo, error) {
	remote = strings.TrimSpace(remote)

	ep, err := transport.NewEndpoint(remote)
	if err != nil {
		return RemoteRepo{}, fmt.Errorf("parsing remote URL %q: %w", remote, err)
	}
	if ep.Protocol == "file" || ep.Host == "" {
		return RemoteRepo{}, fmt.Errorf("remote URL %q is not a hosted repository", remote)
	}

	path := strings.TrimSuffix(strings.Trim(ep.Path, "/"), ".git")
	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return RemoteRepo{}, fmt.Errorf("remote URL %q has no owner/repo path", remote)
	}

	parsed := RemoteRepo{Host: ep.Host, Owner: path[:idx], Repo: path[idx+1:]}

	// vcsurl knows the naming rules of the big hosts; keep its answer only
	// when it agrees with the full path
	info, err := vcsurl.Parse(fmt.Sprintf("https://%s/%s", ep.Host, path))
	if err == nil && info.FullName == path && info.Username != "" && info.Name != "" &&
		info.Username+"/"+info.Name == info.FullName {
		parsed.Owner = info.Username
		parsed.Repo = info.Name
	}

	return parsed, nil
}
