package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// shortHashLen is the abbreviated hash length used in reports.
const shortHashLen = 7

// GitInfoAdapter implements domain.GitInfo using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

func open(projectPath string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}
	return repo, nil
}

func (g *GitInfoAdapter) IsGitRepo(projectPath string) bool {
	_, err := open(projectPath)
	return err == nil
}

func (g *GitInfoAdapter) CommitHash(projectPath string) (string, error) {
	repo, err := open(projectPath)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// ShortHash returns the abbreviated commit hash, or "" outside a repo.
func (g *GitInfoAdapter) ShortHash(projectPath string) string {
	hash, err := g.CommitHash(projectPath)
	if err != nil || len(hash) < shortHashLen {
		return ""
	}
	return hash[:shortHashLen]
}

// Branch returns the checked-out branch name. A detached HEAD yields "".
func (g *GitInfoAdapter) Branch(projectPath string) (string, error) {
	repo, err := open(projectPath)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}
