package contract

import (
	"context"

	"github.com/huangsam/locgraph/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string, ref string) (string, error) {
	ret := m.Called(ctx, repoPath, ref)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// ListCommits implements the GitClient interface.
func (m *MockGitClient) ListCommits(ctx context.Context, repoPath string, ref string) ([]schema.CommitRef, error) {
	ret := m.Called(ctx, repoPath, ref)
	commits, _ := ret.Get(0).([]schema.CommitRef)
	return commits, ret.Error(1)
}

// GetDiffStat implements the GitClient interface.
func (m *MockGitClient) GetDiffStat(ctx context.Context, repoPath string, fromHash, toHash string, excludes []string) (schema.DiffStat, error) {
	ret := m.Called(ctx, repoPath, fromHash, toHash, excludes)
	stat, _ := ret.Get(0).(schema.DiffStat)
	return stat, ret.Error(1)
}
