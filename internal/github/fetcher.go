// Package github is the repository-fetch collaborator: given an owner/repo
// pair it produces an ephemeral snapshot (metadata, structure listing,
// key-file contents) for prompt building. Snapshots are never cached;
// repository content can change between requests.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"

	"github.com/reviewlens/reviewlens/apimodels"
)

var (
	ErrInvalidRepoURL     = errors.New("invalid GitHub repository URL")
	ErrRepositoryNotFound = errors.New("repository not found or private")
	ErrNoDefaultBranch    = errors.New("could not fetch repository structure")
)

const (
	maxTreeEntries    = 50
	maxStructureLines = 30
	maxKeyFiles       = 5
	maxKeyFileBytes   = 1000
)

// priorityFiles are fetched verbatim when present; other files qualify when
// their name hints at an entry point.
var priorityFiles = map[string]bool{
	"README.md": true, "readme.md": true, "README.txt": true,
	"package.json": true, "requirements.txt": true, "Cargo.toml": true, "go.mod": true,
	"main.py": true, "index.js": true, "main.js": true, "app.py": true, "server.js": true,
}

var nameHints = []string{"main", "index", "app"}

// Snapshot is the ephemeral view of a repository handed to the prompt
// builder and discarded afterwards.
type Snapshot struct {
	Info      apimodels.RepositoryInfo
	Structure string
	KeyFiles  string
}

type Fetcher struct {
	client  *gh.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewFetcher creates a GitHub API fetcher. The token is optional;
// unauthenticated requests work with lower rate limits.
func NewFetcher(token string) *Fetcher {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Fetcher{
		client: client,
		// Conservative 1 req/sec keeps well inside GitHub's limits.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  slog.Default().With("component", "github"),
	}
}

// ParseRepoURL extracts owner and repo from a public GitHub URL.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	const prefix = "https://github.com/"
	if !strings.HasPrefix(raw, prefix) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidRepoURL, raw)
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(raw, prefix), "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidRepoURL, raw)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// Fetch builds a snapshot of the repository. Individual key-file failures
// are logged and skipped; a partial key-file set is acceptable.
func (f *Fetcher) Fetch(ctx context.Context, owner, repo string) (*Snapshot, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	repoInfo, _, err := f.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrRepositoryNotFound, owner, repo)
	}

	tree, err := f.tree(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	info := apimodels.RepositoryInfo{
		Name:        repoInfo.GetName(),
		Description: repoInfo.GetDescription(),
		Language:    repoInfo.GetLanguage(),
		Stars:       repoInfo.GetStargazersCount(),
		Forks:       repoInfo.GetForksCount(),
		Size:        repoInfo.GetSize(),
	}
	if info.Description == "" {
		info.Description = "No description"
	}
	if info.Language == "" {
		info.Language = "Unknown"
	}

	return &Snapshot{
		Info:      info,
		Structure: buildStructure(tree.Entries),
		KeyFiles:  f.keyFiles(ctx, owner, repo, tree.Entries),
	}, nil
}

// tree fetches the recursive file tree, trying the two conventional default
// branch names in order.
func (f *Fetcher) tree(ctx context.Context, owner, repo string) (*gh.Tree, error) {
	var lastErr error
	for _, branch := range []string{"main", "master"} {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		tree, _, err := f.client.Git.GetTree(ctx, owner, repo, branch, true)
		if err == nil {
			return tree, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrNoDefaultBranch, lastErr)
}

// buildStructure renders a bounded textual listing of the tree: files
// first, then directories, capped to keep the prompt scannable.
func buildStructure(entries []*gh.TreeEntry) string {
	var lines []string
	dirs := make(map[string]bool)

	for i, entry := range entries {
		if i >= maxTreeEntries {
			break
		}
		if entry.GetType() == "tree" {
			dirs[entry.GetPath()] = true
		} else {
			lines = append(lines, "📄 "+entry.GetPath())
		}
	}

	sortedDirs := make([]string, 0, len(dirs))
	for dir := range dirs {
		sortedDirs = append(sortedDirs, dir)
	}
	sort.Strings(sortedDirs)
	for _, dir := range sortedDirs {
		lines = append(lines, "📁 "+dir+"/")
	}

	if len(lines) > maxStructureLines {
		lines = lines[:maxStructureLines]
	}
	return strings.Join(lines, "\n")
}

// keyFiles concatenates the contents of up to maxKeyFiles prioritized
// files, each truncated to maxKeyFileBytes.
func (f *Fetcher) keyFiles(ctx context.Context, owner, repo string, entries []*gh.TreeEntry) string {
	var sections []string

	for _, entry := range entries {
		if len(sections) >= maxKeyFiles {
			break
		}
		if entry.GetType() != "blob" {
			continue
		}
		name := path.Base(entry.GetPath())
		if !priorityFiles[name] && !matchesHint(name) {
			continue
		}

		if err := f.limiter.Wait(ctx); err != nil {
			break
		}
		fileContent, _, _, err := f.client.Repositories.GetContents(ctx, owner, repo, entry.GetPath(), nil)
		if err != nil || fileContent == nil {
			f.logger.Warn("skipping key file", "path", entry.GetPath(), "error", err)
			continue
		}
		content, err := fileContent.GetContent()
		if err != nil {
			f.logger.Warn("skipping undecodable key file", "path", entry.GetPath(), "error", err)
			continue
		}
		if len(content) > maxKeyFileBytes {
			content = content[:maxKeyFileBytes]
		}
		sections = append(sections, fmt.Sprintf("\n--- %s ---\n%s", entry.GetPath(), content))
	}

	return strings.Join(sections, "\n")
}

func matchesHint(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range nameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
