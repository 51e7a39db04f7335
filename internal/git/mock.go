package git

import "context"

// Compile-time checks that the mocks implement the interfaces.
var (
	_ Repository = (*MockRepository)(nil)
	_ Engine     = (*MockEngine)(nil)
)

// MockEngine is a configurable mock implementation of Engine for testing.
// A nil function field returns a fresh MockRepository and no error.
type MockEngine struct {
	InitFunc      func(string, InitOptions) (Repository, error)
	OpenFunc      func(string) (Repository, error)
	CloneFunc     func(context.Context, string, string, CloneOptions) (Repository, error)
	SignatureFunc func(Signature) (Signature, error)
}

func (m *MockEngine) Init(path string, opts InitOptions) (Repository, error) {
	if m.InitFunc != nil {
		return m.InitFunc(path, opts)
	}
	return &MockRepository{}, nil
}

func (m *MockEngine) Open(path string) (Repository, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	return &MockRepository{}, nil
}

func (m *MockEngine) Clone(ctx context.Context, url, path string, opts CloneOptions) (Repository, error) {
	if m.CloneFunc != nil {
		return m.CloneFunc(ctx, url, path, opts)
	}
	return &MockRepository{}, nil
}

// Signature returns fallback unless SignatureFunc is set.
func (m *MockEngine) Signature(fallback Signature) (Signature, error) {
	if m.SignatureFunc != nil {
		return m.SignatureFunc(fallback)
	}
	return fallback, nil
}

// MockRepository is a configurable mock implementation of Repository for testing.
// Each method is backed by a function field. If the function field is nil,
// the method returns sensible zero values.
type MockRepository struct {
	PathFunc           func() string
	IsBareFunc         func() bool
	DiscardFunc        func() error
	HeadFunc           func() (Reference, error)
	HeadReferenceFunc  func() (Reference, error)
	HeadCommitFunc     func() (CommitInfo, error)
	SignatureFunc      func(Signature) (Signature, error)
	StageAllFunc       func() error
	CommitFunc         func(string, Signature) (CommitInfo, error)
	FetchFunc          func(context.Context, FetchOptions) (AnnotatedCommit, error)
	PushFunc           func(context.Context, PushOptions) error
	AnalyzeMergeFunc   func(string, AnnotatedCommit) (MergeAnalysis, error)
	BranchTipFunc      func(string) (string, error)
	UpdateBranchFunc   func(string, string, string) error
	RemoveBranchFunc   func(string) error
	SetHeadFunc        func(string) error
	RestoreHeadFunc    func(Reference) error
	ResetWorktreeFunc  func(string) error
	CreateBranchFunc   func(string, string) (bool, error)
	CheckoutBranchFunc func(string) error
	ReferencesFunc     func() ([]Reference, error)
}

func (m *MockRepository) Path() string {
	if m.PathFunc != nil {
		return m.PathFunc()
	}
	return ""
}

func (m *MockRepository) IsBare() bool {
	if m.IsBareFunc != nil {
		return m.IsBareFunc()
	}
	return false
}

func (m *MockRepository) Discard() error {
	if m.DiscardFunc != nil {
		return m.DiscardFunc()
	}
	return nil
}

func (m *MockRepository) Head() (Reference, error) {
	if m.HeadFunc != nil {
		return m.HeadFunc()
	}
	return Reference{}, nil
}

func (m *MockRepository) HeadReference() (Reference, error) {
	if m.HeadReferenceFunc != nil {
		return m.HeadReferenceFunc()
	}
	return Reference{}, nil
}

func (m *MockRepository) HeadCommit() (CommitInfo, error) {
	if m.HeadCommitFunc != nil {
		return m.HeadCommitFunc()
	}
	return CommitInfo{}, nil
}

func (m *MockRepository) Signature(fallback Signature) (Signature, error) {
	if m.SignatureFunc != nil {
		return m.SignatureFunc(fallback)
	}
	return fallback, nil
}

func (m *MockRepository) StageAll() error {
	if m.StageAllFunc != nil {
		return m.StageAllFunc()
	}
	return nil
}

func (m *MockRepository) Commit(message string, sig Signature) (CommitInfo, error) {
	if m.CommitFunc != nil {
		return m.CommitFunc(message, sig)
	}
	return CommitInfo{Message: message, Author: sig}, nil
}

func (m *MockRepository) Fetch(ctx context.Context, opts FetchOptions) (AnnotatedCommit, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, opts)
	}
	return AnnotatedCommit{}, nil
}

func (m *MockRepository) Push(ctx context.Context, opts PushOptions) error {
	if m.PushFunc != nil {
		return m.PushFunc(ctx, opts)
	}
	return nil
}

func (m *MockRepository) AnalyzeMerge(branch string, fetched AnnotatedCommit) (MergeAnalysis, error) {
	if m.AnalyzeMergeFunc != nil {
		return m.AnalyzeMergeFunc(branch, fetched)
	}
	return AnalysisUpToDate, nil
}

func (m *MockRepository) BranchTip(branch string) (string, error) {
	if m.BranchTipFunc != nil {
		return m.BranchTipFunc(branch)
	}
	return "", nil
}

func (m *MockRepository) UpdateBranch(branch, newHash, oldHash string) error {
	if m.UpdateBranchFunc != nil {
		return m.UpdateBranchFunc(branch, newHash, oldHash)
	}
	return nil
}

func (m *MockRepository) RemoveBranch(branch string) error {
	if m.RemoveBranchFunc != nil {
		return m.RemoveBranchFunc(branch)
	}
	return nil
}

func (m *MockRepository) SetHead(branch string) error {
	if m.SetHeadFunc != nil {
		return m.SetHeadFunc(branch)
	}
	return nil
}

func (m *MockRepository) RestoreHead(ref Reference) error {
	if m.RestoreHeadFunc != nil {
		return m.RestoreHeadFunc(ref)
	}
	return nil
}

func (m *MockRepository) ResetWorktree(hash string) error {
	if m.ResetWorktreeFunc != nil {
		return m.ResetWorktreeFunc(hash)
	}
	return nil
}

func (m *MockRepository) CreateBranch(name, hash string) (bool, error) {
	if m.CreateBranchFunc != nil {
		return m.CreateBranchFunc(name, hash)
	}
	return true, nil
}

func (m *MockRepository) CheckoutBranch(name string) error {
	if m.CheckoutBranchFunc != nil {
		return m.CheckoutBranchFunc(name)
	}
	return nil
}

func (m *MockRepository) References() ([]Reference, error) {
	if m.ReferencesFunc != nil {
		return m.ReferencesFunc()
	}
	return nil, nil
}
