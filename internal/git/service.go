package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// ErrNoRemote is returned when the repository has no usable remote
var ErrNoRemote = errors.New("no remote configured")

// Service provides Git operations
type Service struct {
	logger *loggy.Logger
}

// NewService creates a new Git service
func NewService(logger *loggy.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// OriginRepo returns the owner/repo the origin remote of the repository at path points to
func (s *Service) OriginRepo(path string) (string, error) {
	remote, err := s.Remote(path, DefaultRemote)
	if err != nil {
		return "", err
	}
	return remote.String(), nil
}

// Remote resolves a named remote of the repository at path
func (s *Service) Remote(path, name string) (RemoteRepo, error) {
	repo, err := s.open(path)
	if err != nil {
		return RemoteRepo{}, err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return RemoteRepo{}, fmt.Errorf("remote %q: %w", name, ErrNoRemote)
		}
		return RemoteRepo{}, fmt.Errorf("reading remote %q: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return RemoteRepo{}, fmt.Errorf("remote %q has no URL: %w", name, ErrNoRemote)
	}

	parsed, err := ParseRemoteURL(urls[0])
	if err != nil {
		return RemoteRepo{}, err
	}

	s.logger.Debug("Resolved git remote", "remote", name, "repo", parsed.String())
	return parsed, nil
}

func (s *Service) open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}
	return repo, nil
}
