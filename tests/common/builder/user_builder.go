//go:build unit || e2e

package builder

import (
	"coupon-manager/internal/domain/branch"
	"coupon-manager/internal/domain/user"
	"coupon-manager/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	Role         string
	BranchCode   *string
	IsActive     bool
}

func NewUserBuilder() *UserBuilder {
	branchCode := "GDXC"
	return &UserBuilder{
		ID:           uuid.New(),
		Email:        "staff@example.com",
		PasswordHash: "hashed_password",
		DisplayName:  "Test Staff",
		Role:         "staff",
		BranchCode:   &branchCode,
		IsActive:     true,
	}
}

func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	var branchCode *branch.Code
	if u.BranchCode != nil {
		code := branch.Code(*u.BranchCode)
		branchCode = &code
	}

	return user.NewUser(email, u.PasswordHash, u.DisplayName, role, branchCode), nil
}

func (u *UserBuilder) BuildReadModel() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		BranchCode:  u.BranchCode,
		Role:        u.Role,
		IsActive:    u.IsActive,
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) WithBranch(code string) *UserBuilder {
	u.BranchCode = &code
	return u
}

func (u *UserBuilder) WithoutBranch() *UserBuilder {
	u.BranchCode = nil
	return u
}

func (u *UserBuilder) AsAdmin() *UserBuilder {
	u.Role = "admin"
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
