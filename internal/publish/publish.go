// Package publish assembles level packs and uploads them as GitHub release
// assets.
package publish

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// releaseClient abstracts the GitHub API methods we use, enabling test mocks.
type releaseClient interface {
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, *github.Response, error)
	CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error)
	UploadReleaseAsset(ctx context.Context, owner, repo string, id int64, opts *github.UploadOptions, file *os.File) (*github.ReleaseAsset, *github.Response, error)
}

// Publisher uploads level packs to GitHub releases.
type Publisher struct {
	repos releaseClient
	owner string
	repo  string
}

// Opts holds parameters for creating a Publisher.
type Opts struct {
	Owner string
	Repo  string
	Token string
	// For testing: inject a mock client instead of the real GitHub API.
	Client releaseClient
}

// New creates a Publisher authenticated with the given token.
func New(ctx context.Context, opts Opts) (*Publisher, error) {
	if opts.Owner == "" || opts.Repo == "" {
		return nil, fmt.Errorf("publish: owner and repo are required")
	}

	p := &Publisher{owner: opts.Owner, repo: opts.Repo}
	if opts.Client != nil {
		p.repos = opts.Client
		return p, nil
	}

	if opts.Token == "" {
		return nil, fmt.Errorf("publish: github token is required")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	p.repos = github.NewClient(oauth2.NewClient(ctx, ts)).Repositories
	return p, nil
}

// Release ensures a release exists for tag and uploads the pack file as an
// asset, returning the asset download URL. An existing release with the
// same tag is reused.
func (p *Publisher) Release(ctx context.Context, tag, packPath string) (string, error) {
	rel, resp, err := p.repos.GetReleaseByTag(ctx, p.owner, p.repo, tag)
	if err != nil {
		if resp == nil || resp.StatusCode != http.StatusNotFound {
			return "", fmt.Errorf("publish: get release %s: %w", tag, err)
		}
		rel, _, err = p.repos.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
			TagName: github.String(tag),
			Name:    github.String("Level pack " + tag),
		})
		if err != nil {
			return "", fmt.Errorf("publish: create release %s: %w", tag, err)
		}
	}

	f, err := os.Open(packPath)
	if err != nil {
		return "", fmt.Errorf("publish: open pack %s: %w", packPath, err)
	}
	defer f.Close()

	asset, _, err := p.repos.UploadReleaseAsset(ctx, p.owner, p.repo, rel.GetID(), &github.UploadOptions{
		Name: filepath.Base(packPath),
	}, f)
	if err != nil {
		return "", fmt.Errorf("publish: upload asset to %s: %w", tag, err)
	}
	return asset.GetBrowserDownloadURL(), nil
}
