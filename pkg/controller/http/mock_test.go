package http_test

import (
	"context"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

type mockAuthUC struct {
	loginFunc  func(ctx context.Context, email, password string) *model.LoginResult
	statusFunc func(ctx context.Context) *model.AuthStatus
	logoutFunc func(ctx context.Context) *model.LogoutResult
}

func (m *mockAuthUC) Login(ctx context.Context, email, password string) *model.LoginResult {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return &model.LoginResult{}
}

func (m *mockAuthUC) CheckAuthentication(ctx context.Context) *model.AuthStatus {
	if m.statusFunc != nil {
		return m.statusFunc(ctx)
	}
	return &model.AuthStatus{State: model.AuthStateNone}
}

func (m *mockAuthUC) Logout(ctx context.Context) *model.LogoutResult {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx)
	}
	return &model.LogoutResult{Success: true}
}

type mockSearchUC struct {
	searchFunc func(ctx context.Context, query string) *model.SearchResponse
}

func (m *mockSearchUC) Search(ctx context.Context, query string) *model.SearchResponse {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return &model.SearchResponse{Results: []model.SearchResult{}}
}

type mockLibraryUC struct {
	downloadFunc func(ctx context.Context, req *model.AcquisitionRequest) *model.AcquisitionResult
}

func (m *mockLibraryUC) Download(ctx context.Context, req *model.AcquisitionRequest) *model.AcquisitionResult {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, req)
	}
	return &model.AcquisitionResult{ExtractedFiles: []model.ExtractedFile{}}
}
