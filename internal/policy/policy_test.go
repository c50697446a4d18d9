package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	apperrors "github.com/Lukhanyo05/cooltech-credentials/pkg/errors"
)

const (
	divNews    = "div-news"
	divFinance = "div-finance"
)

func TestCanListAll(t *testing.T) {
	assert.True(t, CanListAll(NewActor("a", model.RoleAdmin)))
	assert.False(t, CanListAll(NewActor("m", model.RoleManager, divNews)))
	assert.False(t, CanListAll(NewActor("u", model.RoleUser, divNews)))
}

func TestAuthorizeDivisionRead(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		div     string
		wantErr error
	}{
		{"成员可读", NewActor("u", model.RoleUser, divNews), divNews, nil},
		{"非成员拒绝", NewActor("u", model.RoleUser, divNews), divFinance, ErrDivisionAccessDenied},
		{"经理非成员拒绝", NewActor("m", model.RoleManager, divNews), divFinance, ErrDivisionAccessDenied},
		{"管理员不受限", NewActor("a", model.RoleAdmin), divFinance, nil},
		{"无成员关系", Actor{UserID: "x", Role: model.RoleUser}, divNews, ErrDivisionAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeDivisionRead(tt.actor, tt.div)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthorizeCreate(t *testing.T) {
	assert.NoError(t, AuthorizeCreate(NewActor("u", model.RoleUser, divNews), divNews))
	assert.ErrorIs(t, AuthorizeCreate(NewActor("u", model.RoleUser, divNews), divFinance), ErrDivisionAccessDenied)
	assert.NoError(t, AuthorizeCreate(NewActor("a", model.RoleAdmin), divFinance))
}

func TestAuthorizeUpdate(t *testing.T) {
	ownNews := Resource{CreatedBy: "u", DivisionID: divNews}
	otherNews := Resource{CreatedBy: "someone", DivisionID: divNews}
	otherFinance := Resource{CreatedBy: "someone", DivisionID: divFinance}
	ownFinance := Resource{CreatedBy: "u", DivisionID: divFinance}

	tests := []struct {
		name    string
		actor   Actor
		res     Resource
		wantErr error
	}{
		{"创建者更新本部门", NewActor("u", model.RoleUser, divNews), ownNews, nil},
		{"普通用户更新他人凭据", NewActor("u", model.RoleUser, divNews), otherNews, ErrUpdateDenied},
		{"创建者已离开部门", NewActor("u", model.RoleUser, divNews), ownFinance, ErrDivisionAccessDenied},
		{"经理更新本部门他人凭据", NewActor("m", model.RoleManager, divNews), otherNews, nil},
		{"经理更新外部门凭据", NewActor("m", model.RoleManager, divNews), otherFinance, ErrDivisionAccessDenied},
		{"管理员任意部门", NewActor("a", model.RoleAdmin), otherFinance, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeUpdate(tt.actor, tt.res)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
		})
	}
}

func TestAuthorizeDelete(t *testing.T) {
	ownNews := Resource{CreatedBy: "u", DivisionID: divNews}
	otherNews := Resource{CreatedBy: "someone", DivisionID: divNews}

	tests := []struct {
		name    string
		actor   Actor
		res     Resource
		wantErr error
	}{
		{"创建者删除", NewActor("u", model.RoleUser, divNews), ownNews, nil},
		{"经理不能删除他人凭据", NewActor("m", model.RoleManager, divNews), otherNews, ErrDeleteDenied},
		{"创建者不在部门", NewActor("u", model.RoleUser), ownNews, ErrDivisionAccessDenied},
		{"管理员删除", NewActor("a", model.RoleAdmin), otherNews, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeDelete(tt.actor, tt.res)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRevealPassword(t *testing.T) {
	assert.True(t, RevealPassword(NewActor("a", model.RoleAdmin)))
	assert.False(t, RevealPassword(NewActor("m", model.RoleManager, divNews)))
	assert.False(t, RevealPassword(NewActor("u", model.RoleUser, divNews)))
}

func TestAuthorizeRoleChange(t *testing.T) {
	admin := NewActor("a", model.RoleAdmin)

	assert.NoError(t, AuthorizeRoleChange(admin, "u", model.RoleManager))

	err := AuthorizeRoleChange(admin, "a", model.RoleUser)
	assert.ErrorIs(t, err, ErrSelfRoleChange)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	assert.ErrorIs(t, AuthorizeRoleChange(admin, "u", model.Role("root")), ErrInvalidRole)
	assert.ErrorIs(t, AuthorizeRoleChange(NewActor("m", model.RoleManager), "u", model.RoleUser), ErrAdminRequired)
}

func TestAuthorizeMembershipChange(t *testing.T) {
	assert.NoError(t, AuthorizeMembershipChange(NewActor("a", model.RoleAdmin)))
	err := AuthorizeMembershipChange(NewActor("m", model.RoleManager))
	assert.True(t, errors.Is(err, ErrAdminRequired))
}

func TestDivisionSet(t *testing.T) {
	s := NewDivisionSet(divNews, divNews, divFinance)
	assert.Len(t, s, 2)
	assert.True(t, s.InDivision(divFinance))
	assert.False(t, s.InDivision("div-other"))
	assert.ElementsMatch(t, []string{divNews, divFinance}, s.IDs())
}
